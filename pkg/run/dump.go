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
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/lsdpatch/lsdsav/pkg/control"
)

//
func NewDump() *Dump {

	d := &Dump{}
	d.Runner = *NewRunner(
		"dump [-s|--sav {file}] [-a|--address {address}] [-w|--raw] {slot}",
		"dump song from save image",
		`
Use the dump command to output a hex dump of a song, either from a save image
file or from the API server. By default, the decoded song is shown. With the
raw option, the song's blocks are dumped as stored.`,
		"", runnerHelpEpilogue, d.Run)

	d.AddBaseSettings()
	d.AddImageSettings(false)
	d.AddSetting(&d.Raw, "raw", "w", "", false, "dump blocks as stored", false)

	return d
}

//
type Dump struct {
	Runner
	//
	Raw bool
}

//
func (d *Dump) Run() error {

	if err := d.ParseSettings(); err != nil {
		return err
	}

	slots, err := parseSlots(d.Positional())
	if err != nil {
		return err
	}
	if len(slots) != 1 {
		return fmt.Errorf("dump needs exactly one slot")
	}
	slot := slots[0]

	if d.local() {
		ws, err := d.loadWorkspace()
		if err != nil {
			return err
		}

		data, err := control.SlotData(ws.Image(), slot, d.Raw)
		if err != nil {
			return err
		}

		dumper := hex.Dumper(os.Stdout)
		dumper.Write(data)
		dumper.Close()

	} else {
		resp, err := d.apiCall("GET",
			fmt.Sprintf("/slot/%d/dump?raw=%v", slot+1, d.Raw), false, nil)
		if err != nil {
			return err
		}
		defer resp.Close()

		if _, err := io.Copy(os.Stdout, resp); err != nil {
			return err
		}
	}

	fmt.Println()
	return nil
}
