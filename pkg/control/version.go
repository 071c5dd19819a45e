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

package control

import (
	"fmt"
	"net/http"

	"github.com/lsdpatch/lsdsav/pkg/util"
)

//
type Version struct {
	Server   string `json:"server"`
	ROMBanks int    `json:"romBanks"`
	Blocks   int    `json:"blocks"`
}

//
func (v *Version) String() string {
	rom := "none"
	if v.ROMBanks > 0 {
		rom = fmt.Sprintf("%d banks", v.ROMBanks)
	}
	return fmt.Sprintf("server:     %s\nROM:        %s\nblocks:     %d\n",
		v.Server, rom, v.Blocks)
}

//
func (a *api) version(w http.ResponseWriter, req *http.Request) {

	ver := &Version{Server: util.LsdSavVersion}

	if !a.lockWorkspace(w, req) {
		return
	}
	ver.ROMBanks = a.workspace.ROM().Banks()
	ver.Blocks = a.workspace.Image().TotalBlockCount()
	a.workspace.Unlock()

	if wantsJSON(req) {
		sendJSONReply(ver, http.StatusOK, w)
	} else {
		sendReply([]byte(ver.String()), http.StatusOK, w)
	}
}
