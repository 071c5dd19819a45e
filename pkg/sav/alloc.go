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

// AllocTable holds one owner entry per block. Entries 0 through 31 name the
// owning slot, any other value marks the block as free.
type AllocTable []byte

//
func isFree(entry byte) bool {
	v := int8(entry)
	return v < 0 || v >= SlotCount
}

//
func (t AllocTable) TotalBlockCount() int {
	return len(t)
}

// BlocksUsed counts the blocks owned by slot.
func (t AllocTable) BlocksUsed(slot int) int {
	count := 0
	for _, e := range t {
		if int(int8(e)) == slot {
			count++
		}
	}
	return count
}

//
func (t AllocTable) FreeBlockCount() int {
	count := 0
	for _, e := range t {
		if isFree(e) {
			count++
		}
	}
	return count
}

//
func (t AllocTable) UsedBlockCount() int {
	return t.TotalBlockCount() - t.FreeBlockCount()
}

// FirstFreeBlock returns the lowest free block, or false if there is none.
func (t AllocTable) FirstFreeBlock() (int, bool) {
	return t.first(isFree)
}

// FirstBlockOf returns the lowest block owned by slot. This is where a song's
// block chain starts.
func (t AllocTable) FirstBlockOf(slot int) (int, bool) {
	return t.first(func(e byte) bool { return int(int8(e)) == slot })
}

//
func (t AllocTable) first(match func(byte) bool) (int, bool) {
	for ix, e := range t {
		if match(e) {
			return ix, true
		}
	}
	return -1, false
}

// Blocks lists the blocks owned by slot in ascending order. This is not
// necessarily the order of the block chain.
func (t AllocTable) Blocks(slot int) []int {
	var ret []int
	for ix, e := range t {
		if int(int8(e)) == slot {
			ret = append(ret, ix)
		}
	}
	return ret
}

//
func (t AllocTable) assign(block, slot int) {
	t[block] = byte(slot)
}

//
func (t AllocTable) release(slot int) int {
	count := 0
	for ix, e := range t {
		if int(int8(e)) == slot {
			t[ix] = EmptySlot
			count++
		}
	}
	return count
}
