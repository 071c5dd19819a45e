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
	"io"
	"net/http"

	"github.com/lsdpatch/lsdsav/pkg/format"
	"github.com/lsdpatch/lsdsav/pkg/library"
)

// load imports a song container into the lowest free slot. The container is
// either the request body, or taken from the reference given by parameter
// ref.
func (a *api) load(w http.ResponseWriter, req *http.Request) {

	var in io.ReadCloser

	if ref, err := getRef(req); ref != "" {
		if err == nil {
			in, err = library.Resolve(ref, a.repository)
		}
		if err != nil {
			handleError(err, http.StatusNotAcceptable, w)
			return
		}
	} else {
		in = http.MaxBytesReader(w, req.Body, library.MaxSourceSize)
	}

	src, err := format.NewSourceReader(in, getArg(req, "compressor"))
	if err != nil {
		in.Close()
		handleError(err, http.StatusUnprocessableEntity, w)
		return
	}
	defer src.Close()

	if typ := src.Type(); typ != "" && typ != format.TypeSong {
		handleError(fmt.Errorf("not a song container: %s", src.Name()),
			http.StatusUnprocessableEntity, w)
		return
	}

	// buffered before locking, uploads may be slow
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		handleError(err, http.StatusUnprocessableEntity, w)
		return
	}

	if !a.lockWorkspace(w, req) {
		return
	}
	defer a.workspace.Unlock()

	res, err := a.workspace.Image().Import(&buf, a.workspace.ROM())
	if err != nil {
		handleError(fmt.Errorf("cannot import song: %w", err), statusFor(err), w)
		return
	}

	if handleError(a.workspace.Changed(), http.StatusInternalServerError, w) {
		return
	}

	if wantsJSON(req) {
		sendJSONReply(res, http.StatusOK, w)
		return
	}

	msg := fmt.Sprintf("imported %s into slot %d, %d blocks\n",
		res.Name, res.Slot+1, res.Blocks)
	for _, k := range res.Kits {
		if k.Bank < 0 {
			msg += fmt.Sprintf("kit %d not found in ROM\n", k.Index)
		} else {
			msg += fmt.Sprintf("kit %d found in ROM bank %d\n", k.Index, k.Bank)
		}
	}
	sendReply([]byte(msg), http.StatusOK, w)
}
