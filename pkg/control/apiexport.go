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
	"bytes"
	"fmt"
	"net/http"
)

// export sends a slot as song container.
func (a *api) export(w http.ResponseWriter, req *http.Request) {

	slot := getSlot(w, req)
	if slot == -1 {
		return
	}

	if !a.lockWorkspace(w, req) {
		return
	}
	defer a.workspace.Unlock()

	img := a.workspace.Image()

	info, err := img.Slot(slot)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	var buf bytes.Buffer
	if err := img.Export(slot, a.workspace.ROM(), &buf); err != nil {
		handleError(fmt.Errorf("cannot export slot %d: %w", slot+1, err),
			statusFor(err), w)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", info.ContainerFileName()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

//
func (a *api) clear(w http.ResponseWriter, req *http.Request) {

	slot := getSlot(w, req)
	if slot == -1 {
		return
	}

	if !a.lockWorkspace(w, req) {
		return
	}
	defer a.workspace.Unlock()

	img := a.workspace.Image()
	if img.AllocTable().BlocksUsed(slot) == 0 {
		handleError(fmt.Errorf("slot %d is empty", slot+1),
			http.StatusUnprocessableEntity, w)
		return
	}

	name := img.Name(slot)
	img.ClearSlot(slot)

	if handleError(a.workspace.Changed(), http.StatusInternalServerError, w) {
		return
	}

	sendReply([]byte(fmt.Sprintf(
		"cleared slot %d, was %s\n", slot+1, name)), http.StatusOK, w)
}

//
func (a *api) save(w http.ResponseWriter, req *http.Request) {

	if !a.lockWorkspace(w, req) {
		return
	}
	defer a.workspace.Unlock()

	if !a.workspace.IsModified() && !isFlagSet(req, "force") {
		sendReply([]byte("no changes to save\n"), http.StatusOK, w)
		return
	}

	if handleError(a.workspace.Save(), http.StatusInternalServerError, w) {
		return
	}

	sendReply([]byte(fmt.Sprintf(
		"saved %s\n", a.workspace.File())), http.StatusOK, w)
}
