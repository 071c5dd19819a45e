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
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Pack compresses a SongSize song into raw blocks in container order. Block
// switches refer to the next block by its container index, and are patched to
// actual block numbers when the container gets imported.
func Pack(song []byte) ([][]byte, error) {

	if len(song) != SongSize {
		return nil, fmt.Errorf("%w: song has %d bytes, want %d",
			ErrLoadFormat, len(song), SongSize)
	}

	blocks := layoutBlocks(packTokens(song),
		func(k int) byte { return byte(k + 1) })

	log.WithField("blocks", len(blocks)).Debug("song packed")
	return blocks, nil
}

// WriteContainer writes song as a song container without kits.
func WriteContainer(w io.Writer, name []byte, version byte, song []byte) error {

	blocks, err := Pack(song)
	if err != nil {
		return err
	}

	raw := make([]byte, NameLength)
	copy(raw, name)
	if _, err := w.Write(append(raw, version)); err != nil {
		return err
	}

	for _, b := range blocks {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}

	return nil
}

// StoreWorkMemory packs the work memory, i.e. the song currently open on the
// device, and stores it as a new song in the lowest empty slot.
func (i *Image) StoreWorkMemory(name string, version byte) (*ImportResult, error) {

	var buf bytes.Buffer
	if err := WriteContainer(
		&buf, []byte(name), version, i.ram[:SongSize]); err != nil {
		return nil, err
	}

	return i.Import(&buf, nil)
}

// packTokens compresses song into a list of stream tokens.
func packTokens(song []byte) [][]byte {

	var toks [][]byte

	for ix := 0; ix < len(song); {

		if n := patternRun(song[ix:], defaultInstrument[:]); n > 0 {
			toks = append(toks, []byte{tokenSpecial, tokenInstr, byte(n)})
			ix += n * len(defaultInstrument)
			continue
		}

		if n := patternRun(song[ix:], defaultWave[:]); n > 0 {
			toks = append(toks, []byte{tokenSpecial, tokenWave, byte(n)})
			ix += n * len(defaultWave)
			continue
		}

		v := song[ix]
		n := 1
		for ix+n < len(song) && song[ix+n] == v && n < 0xff {
			n++
		}

		switch {
		case v == tokenRLE:
			// a run of 0xc0 would read as literal
			toks = append(toks, []byte{tokenRLE, tokenRLE})
			n = 1
		case n > 3 || (n > 1 && v == tokenSpecial):
			toks = append(toks, []byte{tokenRLE, v, byte(n)})
		case v == tokenSpecial:
			toks = append(toks, []byte{tokenSpecial, tokenSpecial})
			n = 1
		default:
			toks = append(toks, []byte{v})
			n = 1
		}

		ix += n
	}

	return toks
}

// patternRun counts how often p repeats at the start of data, at most 0xff.
func patternRun(data, p []byte) int {
	n := 0
	for len(data) >= len(p)*(n+1) && n < 0xff &&
		bytes.Equal(data[n*len(p):(n+1)*len(p)], p) {
		n++
	}
	return n
}

// layoutBlocks lays out tokens across blocks, ending each block but the last
// with a block switch to ref(k), where k is the index of the block being
// closed. The last block ends with the end marker.
func layoutBlocks(toks [][]byte, ref func(k int) byte) [][]byte {

	var blocks [][]byte
	cur := make([]byte, 0, BlockSize)

	closeBlock := func(tail ...byte) {
		cur = append(cur, tail...)
		b := make([]byte, BlockSize)
		copy(b, cur)
		blocks = append(blocks, b)
		cur = cur[:0]
	}

	for _, tok := range toks {
		if len(cur)+len(tok) > BlockSize-2 {
			closeBlock(tokenSpecial, ref(len(blocks)))
		}
		cur = append(cur, tok...)
	}
	closeBlock(tokenSpecial, tokenEnd)

	return blocks
}
