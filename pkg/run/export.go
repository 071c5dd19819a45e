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

package run

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/lsdpatch/lsdsav/pkg/format"
	"github.com/lsdpatch/lsdsav/pkg/sav"
)

//
func NewExport() *Export {

	e := &Export{}
	e.Runner = *NewRunner(
		`export [-s|--sav {file}] [-r|--rom {file}] [-o|--output {file or dir}]
      [-l|--all] [-f|--force] {slot}...`,
		"export songs as song containers",
		`
Use the export command to save songs from a save image as .lsdsng containers.
When exporting a single slot, output names the container file. For several slots
or all songs, output is a directory, and the containers are named after song name
and version. Songs using kits need the ROM image.`,
		"", runnerHelpEpilogue, e.Run)

	e.AddBaseSettings()
	e.AddImageSettings(false)
	e.AddSetting(&e.Output, "output", "o", "", nil,
		"output file for single slot, directory otherwise", false)
	e.AddSetting(&e.All, "all", "l", "", false, "export all songs", false)
	e.AddSetting(&e.Force, "force", "f", "", false,
		"overwrite existing files", false)

	return e
}

//
type Export struct {
	Runner
	//
	Output string
	All    bool
	Force  bool
}

//
func (e *Export) Run() error {

	if err := e.ParseSettings(); err != nil {
		return err
	}

	slots, err := parseSlots(e.Positional())
	if err != nil {
		return err
	}

	if !e.local() {
		if e.All || len(slots) != 1 {
			return fmt.Errorf("exporting from API server needs exactly one slot")
		}
		return e.remote(slots[0])
	}

	ws, err := e.loadWorkspace()
	if err != nil {
		return err
	}
	img := ws.Image()

	if e.All {
		slots = slots[:0]
		for slot := 0; slot < sav.SlotCount; slot++ {
			if img.AllocTable().BlocksUsed(slot) > 0 {
				slots = append(slots, slot)
			}
		}
	}

	if len(slots) == 0 {
		return fmt.Errorf("no slots to export")
	}

	if len(slots) == 1 && !e.All && !isDir(e.Output) {
		file := e.Output
		if file == "" {
			info, err := img.Slot(slots[0])
			if err != nil {
				return err
			}
			file = info.ContainerFileName()
		}
		return e.exportSlot(img, ws.ROM(), slots[0], file)
	}

	dir := e.Output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	failed := 0
	for _, slot := range slots {
		info, err := img.Slot(slot)
		if err == nil {
			err = e.exportSlot(
				img, ws.ROM(), slot, filepath.Join(dir, info.ContainerFileName()))
		}
		if err != nil {
			fmt.Printf("slot %2d: %v\n", slot+1, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d songs not exported", failed, len(slots))
	}
	return nil
}

//
func (e *Export) exportSlot(img *sav.Image, rom sav.ROM, slot int,
	file string) error {

	if _, err := os.Stat(file); err == nil && !e.Force {
		return fmt.Errorf("%s exists, use --force to overwrite", file)
	}

	if err := format.WriteFile(file, func(w io.Writer) error {
		return img.Export(slot, rom, w)
	}); err != nil {
		return err
	}

	fmt.Printf("slot %2d: %-8s -> %s\n", slot+1, img.Name(slot), file)
	return nil
}

//
func (e *Export) remote(slot int) error {

	if e.Output == "" {
		return fmt.Errorf("exporting from API server needs an output file")
	}
	if _, err := os.Stat(e.Output); err == nil && !e.Force {
		return fmt.Errorf("%s exists, use --force to overwrite", e.Output)
	}

	resp, err := e.apiCall("GET", fmt.Sprintf("/slot/%d", slot+1), false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	log.WithField("file", e.Output).Debug("writing container")
	return format.WriteFile(e.Output, func(w io.Writer) error {
		_, err := io.Copy(w, resp)
		return err
	})
}

//
func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
