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

// sizes
const BlockSize = 0x200
const BankSize = 0x8000
const BankCount = 4
const ImageSize = BankSize * BankCount
const SongSize = 0x8000
const KitSize = 0x4000

// SlotCount is the number of song slots in an image, ids are 0 through 31.
const SlotCount = 0x20
const NameLength = 8

// image layout
const (
	nameTableStart    = 0x8000
	versionTableStart = 0x8100
	activeSlotAddr    = 0x8140
	allocTableStart   = 0x8141
	blockDataStart    = 0x8200
)

// The allocation table occupies one block, so it's not counted. Mirrored
// images only have 64KB of physical memory, losing the upper 128 blocks.
const fullBlockCount = 0xbf
const mirroredBlockCount = fullBlockCount - 0x80

// EmptySlot is the value for free allocation table entries, and for the
// active slot marker when no song is open.
const EmptySlot = 0xff

// stream tokens
const (
	tokenRLE      = 0xc0
	tokenSpecial  = 0xe0
	tokenEnd      = 0xff
	tokenWave     = 0xf0
	tokenInstr    = 0xf1
	maxBlockJumps = 0x100
)

// default wave form, emitted by wave command
var defaultWave = [16]byte{
	0x8e, 0xcd, 0xcc, 0xbb, 0xaa, 0xa9, 0x99, 0x88,
	0x87, 0x76, 0x66, 0x55, 0x54, 0x43, 0x32, 0x31,
}

// default instrument record, emitted by instrument command
var defaultInstrument = [16]byte{
	0xa8, 0x00, 0x00, 0xff, 0x00, 0x00, 0x03, 0x00,
	0x00, 0xd0, 0x00, 0x00, 0x00, 0xf3, 0x00, 0x00,
}

// instrument table within a decoded song
const (
	instrTableStart  = 0x3080
	instrCount       = 0x40
	instrRecordSize  = 0x10
	instrTypeKit     = 2
	instrKitA        = 2
	instrKitB        = 9
	kitIndexMask     = 0x3f
	kitBankOffset    = 8
	kitBankGapStart  = 26
	kitBankGapLength = 5
)

// MaxROMSize is the largest ROM image accepted for kit lookup.
const MaxROMSize = 0x100000
