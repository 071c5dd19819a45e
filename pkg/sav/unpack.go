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

	log "github.com/sirupsen/logrus"
)

// Unpack decodes the block chain of slot into a SongSize song image. Any read
// or write that would go out of bounds ends decoding with ErrCorruptedChain,
// an end marker at the wrong position with ErrDecodeLength.
func (i *Image) Unpack(slot int) ([]byte, error) {

	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}

	first, ok := i.AllocTable().FirstBlockOf(slot)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrEmptySlot, slot)
	}

	u := &unpacker{
		src: i.ram,
		pos: blockAddr(first),
		dst: make([]byte, SongSize),
	}

	if err := u.run(); err != nil {
		log.WithFields(log.Fields{
			"slot": slot, "source": u.pos, "decoded": u.out}).Debugf(
			"unpacking failed: %v", err)
		return nil, err
	}

	return u.dst, nil
}

// IsValid reports whether slot unpacks without error.
func (i *Image) IsValid(slot int) bool {
	_, err := i.Unpack(slot)
	return err == nil
}

//
type unpacker struct {
	src   []byte
	pos   int
	dst   []byte
	out   int
	jumps int
}

//
func (u *unpacker) run() error {

	for {
		b, err := u.next()
		if err != nil {
			return err
		}

		switch b {

		case tokenRLE:
			if err = u.rle(); err != nil {
				return err
			}

		case tokenSpecial:
			done, err := u.special()
			if err != nil {
				return err
			}
			if done {
				if u.out != len(u.dst) {
					return fmt.Errorf("%w: got %d bytes, want %d",
						ErrDecodeLength, u.out, len(u.dst))
				}
				return nil
			}

		default:
			if err = u.emit(b, 1); err != nil {
				return err
			}
		}
	}
}

//
func (u *unpacker) rle() error {

	b, err := u.peek()
	if err != nil {
		return err
	}

	if b == tokenRLE {
		u.pos++
		return u.emit(tokenRLE, 1)
	}

	val, err := u.next()
	if err != nil {
		return err
	}
	count, err := u.next()
	if err != nil {
		return err
	}
	return u.emit(val, int(count))
}

// special handles the commands following a 0xe0 token. Returns true when the
// end of the song has been reached.
func (u *unpacker) special() (bool, error) {

	cmd, err := u.next()
	if err != nil {
		return false, err
	}

	switch cmd {

	case tokenSpecial:
		return false, u.emit(tokenSpecial, 1)

	case tokenEnd:
		return true, nil

	case tokenWave:
		return false, u.pattern(defaultWave[:])

	case tokenInstr:
		return false, u.pattern(defaultInstrument[:])

	default:
		if u.jumps++; u.jumps > maxBlockJumps {
			return false, fmt.Errorf("%w: block chain loops", ErrCorruptedChain)
		}
		log.WithField("block", cmd).Trace("switching block")
		u.pos = jumpAddr(cmd)
		return false, nil
	}
}

//
func (u *unpacker) pattern(p []byte) error {
	count, err := u.next()
	if err != nil {
		return err
	}
	for ; count > 0; count-- {
		if u.out+len(p) > len(u.dst) {
			return u.overrun()
		}
		u.out += copy(u.dst[u.out:], p)
	}
	return nil
}

//
func (u *unpacker) emit(b byte, count int) error {
	if u.out+count > len(u.dst) {
		return u.overrun()
	}
	for ; count > 0; count-- {
		u.dst[u.out] = b
		u.out++
	}
	return nil
}

//
func (u *unpacker) overrun() error {
	return fmt.Errorf("%w: song exceeds %d bytes", ErrCorruptedChain, len(u.dst))
}

//
func (u *unpacker) peek() (byte, error) {
	if u.pos < 0 || u.pos >= len(u.src) {
		return 0, fmt.Errorf(
			"%w: read beyond image at %#x", ErrCorruptedChain, u.pos)
	}
	return u.src[u.pos], nil
}

//
func (u *unpacker) next() (byte, error) {
	b, err := u.peek()
	if err == nil {
		u.pos++
	}
	return b, err
}

// Block numbers in song streams count the block holding the allocation table
// as block 0, so they are one ahead of allocation table indexes.
func jumpAddr(block byte) int {
	return blockAddr(int(block) - 1)
}
