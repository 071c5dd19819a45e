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

//
func NewImage() *Image {
	return &Image{ram: make([]byte, ImageSize)}
}

// Image is a complete save memory image. It's not safe for concurrent use,
// callers sharing an image need to serialize access to it.
type Image struct {
	ram    []byte
	loaded bool
	//
	mirrored      bool
	mirroredKnown bool
}

// Load replaces the image contents with exactly ImageSize bytes read from r.
// On error, the image is left untouched.
func (i *Image) Load(r io.Reader) error {

	buf := make([]byte, ImageSize)

	n, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: image has %d bytes, want %d",
			ErrLoadFormat, n, ImageSize)
	}
	if err != nil {
		return err
	}

	var extra [1]byte
	if m, _ := io.ReadFull(r, extra[:]); m > 0 {
		return fmt.Errorf("%w: image exceeds %d bytes", ErrLoadFormat, ImageSize)
	}

	i.ram = buf
	i.loaded = true
	i.mirroredKnown = false

	log.WithFields(log.Fields{
		"mirrored": i.Mirrored(),
		"blocks":   i.TotalBlockCount()}).Debug("image loaded")

	return nil
}

// Persist writes the full image to w. Mirrored images get their upper half
// refreshed from the lower half first.
func (i *Image) Persist(w io.Writer) error {
	if i.Mirrored() {
		half := ImageSize / 2
		copy(i.ram[half:], i.ram[:half])
	}
	_, err := w.Write(i.ram)
	return err
}

// LoadWorkMemory replaces bank 0, the song currently open on the device, and
// clears the active slot marker.
func (i *Image) LoadWorkMemory(r io.Reader) error {

	buf := make([]byte, BankSize)
	if n, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: work memory has %d bytes, want %d",
				ErrLoadFormat, n, BankSize)
		}
		return err
	}

	copy(i.ram, buf)
	i.clearActiveSlot()
	log.Debug("work memory replaced")
	return nil
}

//
func (i *Image) PersistWorkMemory(w io.Writer) error {
	_, err := w.Write(i.ram[:BankSize])
	return err
}

// Mirrored reports whether the image stems from a device with 64KB of save
// memory, detected by both halves of the image being identical. The result is
// cached until the next Load.
func (i *Image) Mirrored() bool {
	if !i.loaded {
		return false
	}
	if !i.mirroredKnown {
		half := ImageSize / 2
		i.mirrored = bytes.Equal(i.ram[:half], i.ram[half:])
		i.mirroredKnown = true
	}
	return i.mirrored
}

// TotalBlockCount is the number of song blocks available in this image.
func (i *Image) TotalBlockCount() int {
	if i.Mirrored() {
		return mirroredBlockCount
	}
	return fullBlockCount
}

// AllocTable returns a view of the allocation table backed by the image.
func (i *Image) AllocTable() AllocTable {
	return AllocTable(i.ram[allocTableStart : allocTableStart+i.TotalBlockCount()])
}

// Block returns the data of block ix, backed by the image.
func (i *Image) Block(ix int) []byte {
	start := blockAddr(ix)
	return i.ram[start : start+BlockSize]
}

//
func blockAddr(ix int) int {
	return blockDataStart + ix*BlockSize
}
