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
	"strings"

	log "github.com/sirupsen/logrus"
)

// Name returns the decoded name of slot.
func (i *Image) Name(slot int) string {
	return DecodeName(i.RawName(slot))
}

// DecodeName turns raw name bytes into text. Letters and digits are kept, a
// zero byte ends the name, anything else shows as a space.
func DecodeName(raw []byte) string {

	var sb strings.Builder

	for _, c := range raw {
		switch {
		case c == 0:
			return sb.String()
		case 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			sb.WriteByte(c)
		default:
			sb.WriteByte(' ')
		}
	}

	return sb.String()
}

//
func (i *Image) RawName(slot int) []byte {
	start := nameTableStart + slot*NameLength
	ret := make([]byte, NameLength)
	copy(ret, i.ram[start:start+NameLength])
	return ret
}

//
func (i *Image) setRawName(slot int, name []byte) {
	start := nameTableStart + slot*NameLength
	copy(i.ram[start:start+NameLength], name)
}

// Version returns the version byte of slot as two digit upper case hex.
func (i *Image) Version(slot int) string {
	return fmt.Sprintf("%02X", i.RawVersion(slot))
}

//
func (i *Image) RawVersion(slot int) byte {
	return i.ram[versionTableStart+slot]
}

//
func (i *Image) setRawVersion(slot int, v byte) {
	i.ram[versionTableStart+slot] = v
}

// ActiveSlot returns the slot currently open on the device, or -1 if there is
// none.
func (i *Image) ActiveSlot() int {
	if a := i.ram[activeSlotAddr]; !isFree(a) {
		return int(a)
	}
	return -1
}

//
func (i *Image) clearActiveSlot() {
	i.ram[activeSlotAddr] = EmptySlot
}

// ClearSlot releases all blocks of slot and resets its name & version. If the
// slot is the active one, the active slot marker is cleared as well.
func (i *Image) ClearSlot(slot int) {

	released := i.AllocTable().release(slot)

	start := nameTableStart + slot*NameLength
	for ix := start; ix < start+NameLength; ix++ {
		i.ram[ix] = 0
	}
	i.setRawVersion(slot, 0)

	if int(int8(i.ram[activeSlotAddr])) == slot {
		i.clearActiveSlot()
	}

	log.WithFields(log.Fields{
		"slot": slot, "blocks": released}).Debug("slot cleared")
}

// NewSlot returns the lowest slot that does not own any blocks.
func (i *Image) NewSlot() (int, error) {
	t := i.AllocTable()
	for slot := 0; slot < SlotCount; slot++ {
		if t.BlocksUsed(slot) == 0 {
			return slot, nil
		}
	}
	return -1, ErrOutOfSlots
}
