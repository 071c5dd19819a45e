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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lsdpatch/lsdsav/pkg/control"
)

//
func NewLs() *Ls {

	l := &Ls{}
	l.Runner = *NewRunner(
		"ls [-s|--sav {file}] [-a|--address {address}] [-j|--json]",
		"list songs in save image",
		`
Use the ls command to list the songs in a save image. Without a save image file,
the image loaded into the API server is listed.`,
		"", runnerHelpEpilogue, l.Run)

	l.AddBaseSettings()
	l.AddImageSettings(false)
	l.AddSetting(&l.JSON, "json", "j", "", false, "output as JSON", false)

	return l
}

//
type Ls struct {
	Runner
	//
	JSON bool
}

//
func (l *Ls) Run() error {

	if err := l.ParseSettings(); err != nil {
		return err
	}

	if !l.local() {
		resp, err := l.apiCall("GET", "/ls", l.JSON, nil)
		if err != nil {
			return err
		}
		defer resp.Close()
		_, err = io.Copy(os.Stdout, resp)
		return err
	}

	ws, err := l.loadWorkspace()
	if err != nil {
		return err
	}

	stats, slots := ws.Image().Ls()

	if l.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"stats": stats, "slots": slots})
	}

	control.WriteSlotList(os.Stdout, l.Sav, stats, slots)
	if ws.Image().Mirrored() {
		fmt.Println("64KB save memory, mirrored")
	}
	return nil
}
