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
	"net/url"
	"os"
	"strings"

	"github.com/lsdpatch/lsdsav/pkg/control"
	"github.com/lsdpatch/lsdsav/pkg/format"
	"github.com/lsdpatch/lsdsav/pkg/library"
	"github.com/lsdpatch/lsdsav/pkg/sav"
)

//
func NewImport() *Import {

	i := &Import{}
	i.Runner = *NewRunner(
		`import [-s|--sav {file}] [-r|--rom {file}] [-o|--out {file}]
      [--rom-out {file}] {container}...`,
		"import song containers into save image",
		`
Use the import command to add .lsdsng containers to a save image. Each song goes
into the lowest free slot. If a song can not be imported, the remaining ones are
still tried. The save image is written back, or to the output file if given.
Without a save image file, songs are sent to the API server, and can also be
given as references into the server's song library (repo://...) or as URLs.
Kits contained in a container are looked up in the ROM image, if given.`,
		"", runnerHelpEpilogue, i.Run)

	i.AddBaseSettings()
	i.AddImageSettings(false)
	i.AddSetting(&i.Out, "out", "o", "", nil,
		"write save image here instead of overwriting input", false)
	i.AddSetting(&i.ROMOut, "rom-out", "", "", nil,
		"also write ROM image to this file", false)

	return i
}

//
type Import struct {
	Runner
	//
	Out    string
	ROMOut string
}

//
func (i *Import) Run() error {

	if err := i.ParseSettings(); err != nil {
		return err
	}

	files := i.Positional()
	if len(files) == 0 {
		return fmt.Errorf("no song containers given")
	}

	if !i.local() {
		return i.remote(files)
	}

	ws, err := i.loadWorkspace()
	if err != nil {
		return err
	}

	failed := importFiles(ws, files)

	if failed < len(files) {
		if err := i.saveWorkspace(ws, i.Out); err != nil {
			return err
		}
		if i.ROMOut != "" {
			if ws.ROM() == nil {
				return fmt.Errorf("no ROM image loaded, use --rom")
			}
			if err := format.SaveROM(i.ROMOut, ws.ROM()); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d songs not imported", failed, len(files))
	}
	return nil
}

// importFiles imports all files into the workspace image, reporting each
// result. Returns the number of failed imports.
func importFiles(ws *control.Workspace, files []string) int {
	failed := 0
	for _, f := range files {
		res, err := importFile(ws.Image(), ws.ROM(), f)
		if err != nil {
			fmt.Printf("%s: %v\n", f, err)
			failed++
			continue
		}
		fmt.Printf("%s: imported %s into slot %d, %d blocks\n",
			f, res.Name, res.Slot+1, res.Blocks)
		for _, k := range res.Kits {
			if k.Bank < 0 {
				fmt.Printf("  kit %d not found in ROM\n", k.Index)
			} else {
				fmt.Printf("  kit %d found in ROM bank %d\n", k.Index, k.Bank)
			}
		}
		ws.Changed()
	}
	return failed
}

//
func isRef(f string) bool {
	return strings.HasPrefix(f, library.SchemeRepo) ||
		strings.HasPrefix(f, library.SchemeHTTP) ||
		strings.HasPrefix(f, library.SchemeHTTPS)
}

//
func importFile(img *sav.Image, rom sav.ROM, file string) (*sav.ImportResult, error) {
	rd, err := openContainer(file)
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return img.Import(rd, rom)
}

//
func (i *Import) remote(files []string) error {

	failed := 0

	for _, f := range files {

		if isRef(f) {
			resp, err := i.apiCall("PUT",
				fmt.Sprintf("/slot?ref=%s", url.QueryEscape(f)), false, nil)
			if err != nil {
				fmt.Printf("%s: %v\n", f, err)
				failed++
				continue
			}
			msg, err := readAllClose(resp)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s", f, msg)
			continue
		}

		_, _, comp := format.SplitNameTypeCompressor(f)
		in, err := os.Open(f)
		if err != nil {
			fmt.Printf("%s: %v\n", f, err)
			failed++
			continue
		}

		resp, err := i.apiCall("PUT",
			fmt.Sprintf("/slot?compressor=%s", url.QueryEscape(comp)), false, in)
		in.Close()

		if err != nil {
			fmt.Printf("%s: %v\n", f, err)
			failed++
			continue
		}

		msg, err := readAllClose(resp)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s", f, msg)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d songs not imported", failed, len(files))
	}
	return nil
}
