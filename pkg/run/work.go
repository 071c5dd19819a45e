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
	"os"
	"strings"

	"github.com/lsdpatch/lsdsav/pkg/format"
	"github.com/lsdpatch/lsdsav/pkg/sav"
)

//
func NewWork() *Work {

	w := &Work{}
	w.Runner = *NewRunner(
		`work -s|--sav {file} (-i|--in {file} | -o|--out {file} | -n|--store {name})`,
		"transfer work memory",
		`
Use the work command to read or replace the work memory of a save image, i.e. the
song currently open on the device. With in, the given 32KB file replaces the work
memory, and the save image is written back. With out, the work memory is written
to the given file. With store, the work memory is compressed and stored as a new
song with the given name in the lowest empty slot.`,
		"", runnerHelpEpilogue, w.Run)

	w.AddBaseSettings()
	w.AddImageSettings(true)
	w.AddSetting(&w.In, "in", "i", "", nil, "work memory input file", false)
	w.AddSetting(&w.Out, "out", "o", "", nil, "work memory output file", false)
	w.AddSetting(&w.Store, "store", "n", "", nil,
		"store work memory as new song with this name", false)

	return w
}

//
type Work struct {
	Runner
	//
	In    string
	Out   string
	Store string
}

//
func (w *Work) Run() error {

	if err := w.ParseSettings(); err != nil {
		return err
	}

	given := 0
	for _, s := range []string{w.In, w.Out, w.Store} {
		if s != "" {
			given++
		}
	}
	if given != 1 {
		return fmt.Errorf("need exactly one of --in, --out, and --store")
	}

	ws, err := w.loadWorkspace()
	if err != nil {
		return err
	}
	img := ws.Image()

	if w.Store != "" {
		name := strings.ToUpper(w.Store)
		if len(name) > sav.NameLength {
			return fmt.Errorf("song name longer than %d characters", sav.NameLength)
		}
		res, err := img.StoreWorkMemory(name, 0)
		if err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		fmt.Printf("work memory stored as %s in slot %d, %d blocks\n",
			res.Name, res.Slot+1, res.Blocks)
		return nil
	}

	if w.Out != "" {
		if err := format.WriteFile(w.Out, img.PersistWorkMemory); err != nil {
			return err
		}
		fmt.Printf("work memory written to %s\n", w.Out)
		return nil
	}

	f, err := os.Open(w.In)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := img.LoadWorkMemory(f); err != nil {
		return err
	}

	if err := ws.Save(); err != nil {
		return err
	}

	fmt.Printf("work memory replaced from %s\n", w.In)
	return nil
}
