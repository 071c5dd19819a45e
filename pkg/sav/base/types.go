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

package base

import (
	"io"
)

// Catalog is the slot level view of a save image.
type Catalog interface {

	// Ls lists all slots, empty ones included, together with block usage
	Ls() (*Stats, []*SlotInfo)

	// Slot returns the info for a single slot
	Slot(slot int) (*SlotInfo, error)
}

// SongStore combines the catalog with song transfer operations.
type SongStore interface {
	Catalog

	//
	ClearSlot(slot int)

	// Unpack returns the decoded song of a slot
	Unpack(slot int) ([]byte, error)

	//
	Persist(w io.Writer) error
}

//
func NewStats(total, used int) *Stats {
	return &Stats{total: total, used: used}
}

//
type Stats struct {
	total int
	used  int
}

//
func (s *Stats) Total() int {
	return s.total
}

//
func (s *Stats) Used() int {
	return s.used
}

//
func (s *Stats) Free() int {
	return s.total - s.used
}
