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
	"sort"

	log "github.com/sirupsen/logrus"
)

// UsedKits returns the ascending, deduplicated list of kits referenced by the
// kit instruments of slot's song.
func (i *Image) UsedKits(slot int) ([]int, error) {

	song, err := i.Unpack(slot)
	if err != nil {
		return nil, err
	}

	return SongKits(song), nil
}

// SongKits collects the kits referenced by kit instruments in a decoded song.
func SongKits(song []byte) []int {

	seen := make(map[int]bool)

	for instr := 0; instr < instrCount; instr++ {
		rec := instrTableStart + instr*instrRecordSize
		if rec+instrRecordSize > len(song) || song[rec] != instrTypeKit {
			continue
		}
		seen[int(song[rec+instrKitA]&kitIndexMask)] = true
		seen[int(song[rec+instrKitB]&kitIndexMask)] = true
	}

	ret := make([]int, 0, len(seen))
	for k := range seen {
		ret = append(ret, k)
	}
	sort.Ints(ret)
	return ret
}

// KitBank maps a kit index to its ROM bank. For legacy reasons, kits live in
// banks 8 through 26, and from 32 on.
func KitBank(kit int) int {
	bank := kit + kitBankOffset
	if bank > kitBankGapStart {
		bank += kitBankGapLength
	}
	return bank
}

//
func KitOffset(kit int) int {
	return KitBank(kit) * KitSize
}

// ROM is a ROM image providing kit payloads.
type ROM []byte

//
func LoadROM(r io.Reader) (ROM, error) {

	buf, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return nil, err
	}

	if len(buf) > MaxROMSize {
		return nil, fmt.Errorf("%w: ROM image exceeds %d bytes",
			ErrLoadFormat, MaxROMSize)
	}
	if len(buf) == 0 || len(buf)%KitSize != 0 {
		return nil, fmt.Errorf("%w: ROM image size %d is not a multiple of %d",
			ErrLoadFormat, len(buf), KitSize)
	}

	log.WithField("banks", len(buf)/KitSize).Debug("ROM loaded")
	return ROM(buf), nil
}

// Kit returns the payload of kit.
func (r ROM) Kit(kit int) ([]byte, error) {
	off := KitOffset(kit)
	if kit < 0 || off+KitSize > len(r) {
		return nil, fmt.Errorf("%w: kit %d at %#x", ErrKitRange, kit, off)
	}
	return r[off : off+KitSize], nil
}

// Banks is the number of complete banks in the ROM.
func (r ROM) Banks() int {
	return len(r) / KitSize
}

// MatchKit looks for a bank with identical contents as kit. If several banks
// match, the last one wins. Returns -1 if there is no match.
func (r ROM) MatchKit(kit []byte) int {
	match := -1
	for bank := 0; bank < r.Banks(); bank++ {
		if bytes.Equal(kit, r[bank*KitSize:(bank+1)*KitSize]) {
			match = bank
		}
	}
	return match
}
