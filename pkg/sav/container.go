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
	"bufio"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// ContainerHeaderLength is the length of name and version at the start of a
// song container.
const ContainerHeaderLength = NameLength + 1

// Export writes slot as a song container to w: raw name & version, the
// slot's compressed blocks in allocation table order, and the payloads of all
// kits the song uses, taken from rom. rom may be nil for songs without kits.
func (i *Image) Export(slot int, rom ROM, w io.Writer) error {

	if err := ValidateSlot(slot); err != nil {
		return err
	}

	blocks := i.AllocTable().Blocks(slot)
	if len(blocks) == 0 {
		return fmt.Errorf("%w: %d", ErrEmptySlot, slot)
	}

	kits, err := i.UsedKits(slot)
	if err != nil {
		return fmt.Errorf("cannot export slot %d: %w", slot, err)
	}

	var payloads [][]byte
	for _, k := range kits {
		if rom == nil {
			return fmt.Errorf("%w: song uses %d kits", ErrNoROM, len(kits))
		}
		p, err := rom.Kit(k)
		if err != nil {
			return err
		}
		payloads = append(payloads, p)
	}

	bw := bufio.NewWriter(w)

	bw.Write(i.RawName(slot))
	bw.WriteByte(i.RawVersion(slot))
	for _, b := range blocks {
		bw.Write(i.Block(b))
	}
	for _, p := range payloads {
		bw.Write(p)
	}

	if err := bw.Flush(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"slot":   slot,
		"name":   i.Name(slot),
		"blocks": len(blocks),
		"kits":   kits}).Info("song exported")

	return nil
}

// ReadContainerHeader reads name and version from the start of a song
// container.
func ReadContainerHeader(r io.Reader) (name, version string, err error) {
	header := make([]byte, ContainerHeaderLength)
	if _, err = io.ReadFull(r, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = fmt.Errorf("%w: container header too short", ErrLoadFormat)
		}
		return "", "", err
	}
	return DecodeName(header[:NameLength]),
		fmt.Sprintf("%02X", header[NameLength]), nil
}

//
type KitMatch struct {
	// position of kit payload within container
	Index int `json:"index"`
	// matching ROM bank, -1 if none
	Bank int `json:"bank"`
}

//
type ImportResult struct {
	Slot   int        `json:"slot"`
	Name   string     `json:"name"`
	Blocks int        `json:"blocks"`
	Kits   []KitMatch `json:"kits,omitempty"`
}

// Import adds the song container read from r to the lowest empty slot. Kit
// payloads trailing the song are looked up in rom, if given, but the song is
// not changed based on the result. If anything goes wrong while writing the
// song, the slot is cleared again.
func (i *Image) Import(r io.Reader, rom ROM) (*ImportResult, error) {

	slot, err := i.NewSlot()
	if err != nil {
		return nil, err
	}

	header := make([]byte, ContainerHeaderLength)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: container header too short", ErrLoadFormat)
		}
		return nil, err
	}

	i.setRawName(slot, header[:NameLength])
	i.setRawVersion(slot, header[NameLength])

	logger := log.WithFields(log.Fields{"slot": slot, "name": i.Name(slot)})

	blocks, err := i.WriteChain(slot, r)
	if err == nil {
		_, err = i.Unpack(slot)
	}
	if err != nil {
		i.ClearSlot(slot)
		logger.WithField("blocks", blocks).Debugf("import failed: %v", err)
		return nil, err
	}

	res := &ImportResult{Slot: slot, Name: i.Name(slot), Blocks: blocks}
	res.Kits = matchKits(r, rom)

	logger.WithFields(log.Fields{
		"blocks": blocks, "kits": len(res.Kits)}).Info("song imported")

	return res, nil
}

//
func matchKits(r io.Reader, rom ROM) []KitMatch {

	var ret []KitMatch

	for ix := 0; ; ix++ {

		kit := make([]byte, KitSize)
		if n, err := io.ReadFull(r, kit); err != nil {
			if err != io.EOF {
				log.WithField("bytes", n).Warnf("incomplete kit data: %v", err)
			}
			return ret
		}

		bank := -1
		if rom != nil {
			bank = rom.MatchKit(kit)
		}

		logger := log.WithFields(log.Fields{"kit": ix, "bank": bank})
		if bank < 0 {
			logger.Warn("kit not found in ROM")
		} else {
			logger.Debug("kit found in ROM")
		}

		ret = append(ret, KitMatch{Index: ix, Bank: bank})
	}
}
