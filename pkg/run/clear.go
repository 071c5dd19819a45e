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
	"strings"
)

//
func NewClear() *Clear {

	c := &Clear{}
	c.Runner = *NewRunner(
		`clear [-s|--sav {file}] [-o|--out {file}] [-y|--yes] {slot}...`,
		"remove songs from save image",
		`
Use the clear command to delete songs from a save image, freeing their blocks.
Without a save image file, the songs are removed from the image loaded into the
API server.`,
		"", runnerHelpEpilogue, c.Run)

	c.AddBaseSettings()
	c.AddImageSettings(false)
	c.AddSetting(&c.Out, "out", "o", "", nil,
		"write save image here instead of overwriting input", false)
	c.AddSetting(&c.Yes, "yes", "y", "", false, "skip confirmation", false)

	return c
}

//
type Clear struct {
	Runner
	//
	Out string
	Yes bool
}

//
func (c *Clear) Run() error {

	if err := c.ParseSettings(); err != nil {
		return err
	}

	slots, err := parseSlots(c.Positional())
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		return fmt.Errorf("no slots given")
	}

	if !c.local() {
		if !c.Yes && !GetUserConfirmation(fmt.Sprintf(
			"\nclear slots %s on API server?", strings.Join(c.Positional(), ", "))) {
			return nil
		}
		for _, slot := range slots {
			resp, err := c.apiCall(
				"DELETE", fmt.Sprintf("/slot/%d", slot+1), false, nil)
			if err != nil {
				return err
			}
			msg, err := readAllClose(resp)
			if err != nil {
				return err
			}
			fmt.Print(msg)
		}
		return nil
	}

	ws, err := c.loadWorkspace()
	if err != nil {
		return err
	}
	img := ws.Image()

	var names []string
	for _, slot := range slots {
		if img.AllocTable().BlocksUsed(slot) == 0 {
			return fmt.Errorf("slot %d is empty", slot+1)
		}
		names = append(names, fmt.Sprintf("%d. %s", slot+1, img.Name(slot)))
	}

	if !c.Yes && !GetUserConfirmation(fmt.Sprintf(
		"\nclearing songs\n\n%s\n\nProceed?", strings.Join(names, "\n"))) {
		return nil
	}

	for _, slot := range slots {
		img.ClearSlot(slot)
		ws.Changed()
	}

	if err := c.saveWorkspace(ws, c.Out); err != nil {
		return err
	}

	fmt.Printf("cleared %d songs\n", len(slots))
	return nil
}
