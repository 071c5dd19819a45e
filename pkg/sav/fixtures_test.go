/*
   LsdSav - LSDj save image song manager
   Copyright (c) 2022, the LsdSav authors

   This file is part of LsdSav.

   LsdSav is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   LsdSav is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with LsdSav. If not, see <http://www.gnu.org/licenses/>.
*/

package sav

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// blankImage returns a loaded image with all slots empty.
func blankImage(t *testing.T, mirrored bool) *Image {

	t.Helper()

	half := make([]byte, ImageSize/2)
	half[activeSlotAddr] = EmptySlot
	for ix := allocTableStart; ix < blockDataStart; ix++ {
		half[ix] = EmptySlot
	}

	buf := make([]byte, ImageSize)
	copy(buf, half)
	if mirrored {
		copy(buf[ImageSize/2:], half)
	}

	img := NewImage()
	require.NoError(t, img.Load(bytes.NewReader(buf)))
	require.Equal(t, mirrored, img.Mirrored())
	return img
}

// testSong generates a song with some noise, runs of token bytes, and kit
// instruments referencing the given kits.
func testSong(seed int64, kits ...int) []byte {

	rnd := rand.New(rand.NewSource(seed))
	song := make([]byte, SongSize)

	for n := 0; n < 1200; n++ {
		song[rnd.Intn(SongSize)] = byte(rnd.Intn(256))
	}
	for ix := 0x100; ix < 0x110; ix++ {
		song[ix] = tokenRLE
	}
	for ix := 0x200; ix < 0x240; ix++ {
		song[ix] = tokenSpecial
	}
	song[0x300] = tokenSpecial
	song[0x302] = tokenRLE
	song[0x303] = tokenEnd

	table := song[instrTableStart : instrTableStart+instrCount*instrRecordSize]
	for ix := range table {
		table[ix] = 0
	}
	for n, k := range kits {
		rec := table[n*instrRecordSize:]
		rec[0] = instrTypeKit
		rec[instrKitA] = byte(k) | 0xc0
		rec[instrKitB] = byte(k)
	}

	return song
}

// storeSong places song into slot, using the lowest free blocks.
func storeSong(t *testing.T, img *Image, slot int, name string, version byte,
	song []byte) []int {

	t.Helper()

	tbl := img.AllocTable()
	count := len(layoutBlocks(packTokens(song), func(int) byte { return 1 }))

	var idx []int
	for n := 0; n < count; n++ {
		b, ok := tbl.FirstFreeBlock()
		require.True(t, ok, "test image out of blocks")
		tbl.assign(b, slot)
		idx = append(idx, b)
	}

	storeSongAt(t, img, slot, name, version, song, idx)
	return idx
}

// storeSongAt places song into slot using the given blocks in chain order.
func storeSongAt(t *testing.T, img *Image, slot int, name string,
	version byte, song []byte, idx []int) {

	t.Helper()

	blocks := layoutBlocks(packTokens(song),
		func(k int) byte { return byte(idx[k+1] + 1) })
	require.Len(t, blocks, len(idx))

	tbl := img.AllocTable()
	for k, b := range blocks {
		tbl.assign(idx[k], slot)
		copy(img.Block(idx[k]), b)
	}

	img.setRawName(slot, rawName(name))
	img.setRawVersion(slot, version)
}

//
func rawName(name string) []byte {
	ret := make([]byte, NameLength)
	copy(ret, name)
	return ret
}

// buildContainer creates a song container for song, with container relative
// block switch references.
func buildContainer(name string, version byte, song []byte,
	kits ...[]byte) []byte {

	var buf bytes.Buffer
	buf.Write(rawName(name))
	buf.WriteByte(version)

	for _, b := range layoutBlocks(packTokens(song),
		func(k int) byte { return byte(k + 1) }) {
		buf.Write(b)
	}
	for _, k := range kits {
		buf.Write(k)
	}

	return buf.Bytes()
}

// testROM creates a ROM image where every bank is filled with its number.
func testROM(banks int) ROM {
	rom := make(ROM, banks*KitSize)
	for b := 0; b < banks; b++ {
		for ix := 0; ix < KitSize; ix++ {
			rom[b*KitSize+ix] = byte(b)
		}
	}
	return rom
}
