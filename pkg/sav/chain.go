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
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

//
type chainState int

const (
	chainNext chainState = iota
	chainEnd
	chainCorrupted
)

// WriteChain reads compressed blocks from r and stores them in free blocks
// assigned to slot, until a block containing the end marker has been written.
// Block switch references are patched to point at the blocks actually used.
// Returns the number of blocks written. On error, the slot is left partially
// written and needs to be cleared by the caller.
func (i *Image) WriteChain(slot int, r io.Reader) (int, error) {

	if err := ValidateSlot(slot); err != nil {
		return 0, err
	}

	t := i.AllocTable()
	ref := -1

	for count := 0; ; {

		block, ok := t.FirstFreeBlock()
		if !ok {
			return count, ErrOutOfBlocks
		}

		if ref >= 0 {
			i.ram[ref] = byte(block + 1)
		}

		t.assign(block, slot)
		count++

		if n, err := io.ReadFull(r, i.Block(block)); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return count, fmt.Errorf(
					"%w: container truncated in block %d, %d bytes read",
					ErrLoadFormat, count, n)
			}
			return count, err
		}

		var state chainState
		ref, state = i.nextBlockRef(block)

		logger := log.WithFields(log.Fields{"slot": slot, "block": block})

		switch state {
		case chainEnd:
			logger.Trace("last block written")
			return count, nil
		case chainCorrupted:
			return count, fmt.Errorf(
				"%w: no block reference or end marker in block %d",
				ErrCorruptedChain, count)
		default:
			logger.WithField("ref", ref).Trace("block written")
		}
	}
}

// nextBlockRef scans block for the position of the block switch reference,
// i.e. the byte following an 0xe0 token that isn't another command. If there
// is none, the state tells whether the block holds the song's end marker, or
// the chain is broken.
func (i *Image) nextBlockRef(block int) (int, chainState) {

	at := func(ix int) (byte, bool) {
		if ix < 0 || ix >= len(i.ram) {
			return 0, false
		}
		return i.ram[ix], true
	}

	p := blockAddr(block)

	for n := 0; n < BlockSize; n++ {

		b, ok := at(p)
		if !ok {
			return -1, chainCorrupted
		}

		switch b {

		case tokenRLE:
			p++
			n++
			if c, ok := at(p); !ok {
				return -1, chainCorrupted
			} else if c != tokenRLE {
				p++
				n++
			}

		case tokenSpecial:
			cmd, ok := at(p + 1)
			if !ok {
				return -1, chainCorrupted
			}
			switch cmd {
			case tokenSpecial:
				p++
				n++
			case tokenEnd:
				return -1, chainEnd
			case tokenWave, tokenInstr:
				p += 2
				n += 2
			default:
				return p + 1, chainNext
			}
		}

		p++
	}

	return -1, chainCorrupted
}
