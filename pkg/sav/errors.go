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
	"errors"
	"fmt"
)

var (
	// ErrLoadFormat signals an input with the wrong byte count.
	ErrLoadFormat = errors.New("invalid input size")
	// ErrOutOfSlots is returned by an import when all slots are taken.
	ErrOutOfSlots = errors.New("out of song slots")
	// ErrOutOfBlocks is returned by an import when there is no free block left.
	ErrOutOfBlocks = errors.New("out of blocks")
	// ErrCorruptedChain signals a block chain that can't be followed, or a
	// stream that runs out of bounds.
	ErrCorruptedChain = errors.New("song corrupted")
	// ErrDecodeLength signals an end marker reached at a decoded length other
	// than SongSize.
	ErrDecodeLength = errors.New("decoded song has wrong length")
	//
	ErrInvalidSlot = errors.New("invalid slot")
	//
	ErrEmptySlot = errors.New("slot is empty")
	//
	ErrKitRange = errors.New("kit not contained in ROM image")
	//
	ErrNoROM = errors.New("no ROM image")
)

//
func ValidateSlot(slot int) error {
	if slot < 0 || slot >= SlotCount {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}
