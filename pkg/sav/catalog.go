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
	"github.com/lsdpatch/lsdsav/pkg/sav/base"
)

// Ls returns block usage, and the info for every slot, empty ones included.
func (i *Image) Ls() (*base.Stats, []*base.SlotInfo) {

	ret := make([]*base.SlotInfo, SlotCount)
	for slot := range ret {
		ret[slot] = i.slotInfo(slot)
	}

	t := i.AllocTable()
	return base.NewStats(t.TotalBlockCount(), t.UsedBlockCount()), ret
}

//
func (i *Image) Slot(slot int) (*base.SlotInfo, error) {
	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}
	return i.slotInfo(slot), nil
}

//
func (i *Image) slotInfo(slot int) *base.SlotInfo {

	blocks := i.AllocTable().BlocksUsed(slot)
	if blocks == 0 {
		return base.NewSlotInfo(slot, "", "", 0, false)
	}

	song, err := i.Unpack(slot)
	info := base.NewSlotInfo(slot, i.Name(slot), i.Version(slot), blocks, err == nil)

	if err == nil {
		info.Annotate(base.AnnotationKits, len(SongKits(song)))
	}
	if i.ActiveSlot() == slot {
		info.Annotate(base.AnnotationActive, true)
	}

	return info
}

var _ base.SongStore = (*Image)(nil)
