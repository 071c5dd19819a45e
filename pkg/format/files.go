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

package format

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/lsdpatch/lsdsav/pkg/sav"
)

// LoadImage reads a save image from file, which may be compressed.
func LoadImage(file string) (*sav.Image, error) {

	rd, typ, err := OpenFile(file)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	if typ != "" && typ != TypeSav {
		return nil, fmt.Errorf("not a save image: %s", file)
	}

	img := sav.NewImage()
	if err := img.Load(rd); err != nil {
		return nil, fmt.Errorf("cannot load %s: %w", file, err)
	}

	return img, nil
}

// LoadROM reads a ROM image from file, which may be compressed.
func LoadROM(file string) (sav.ROM, error) {

	rd, typ, err := OpenFile(file)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	if typ != "" && typ != TypeROM && typ != TypeROMCol {
		return nil, fmt.Errorf("not a ROM image: %s", file)
	}

	rom, err := sav.LoadROM(rd)
	if err != nil {
		return nil, fmt.Errorf("cannot load %s: %w", file, err)
	}

	return rom, nil
}

// WriteFile writes file through a temporary file in the same directory, which
// replaces file only if write succeeds. Compressed targets are not supported.
func WriteFile(file string, write func(w io.Writer) error) error {

	if _, _, comp := SplitNameTypeCompressor(file); comp != "" {
		return fmt.Errorf("cannot write compressed file %s", file)
	}

	tmp, err := os.CreateTemp(filepath.Dir(file), ".lsdsav-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), file); err != nil {
		return err
	}

	log.WithField("file", file).Debug("file written")
	return nil
}

// SaveImage persists img to file.
func SaveImage(file string, img *sav.Image) error {
	return WriteFile(file, img.Persist)
}

// SaveROM writes rom to file.
func SaveROM(file string, rom sav.ROM) error {
	return WriteFile(file, func(w io.Writer) error {
		_, err := w.Write(rom)
		return err
	})
}
