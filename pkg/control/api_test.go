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
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lsdpatch/lsdsav/pkg/format"
	"github.com/lsdpatch/lsdsav/pkg/sav"
)

// blankImage returns an image without songs, and with the full block count.
func blankImage(t *testing.T) *sav.Image {
	raw := make([]byte, sav.ImageSize)
	for ix := 0x8140; ix < 0x8200; ix++ {
		raw[ix] = 0xff
	}
	img := sav.NewImage()
	require.NoError(t, img.Load(bytes.NewReader(raw)))
	return img
}

// testContainer returns a container holding a single block song that decodes
// to an all zero song.
func testContainer(name string, version byte) []byte {

	ret := make([]byte, sav.ContainerHeaderLength+sav.BlockSize)
	copy(ret, name)
	ret[sav.NameLength] = version

	stream := ret[sav.ContainerHeaderLength:]
	pos := 0
	for left := sav.SongSize; left > 0; {
		n := left
		if n > 0xff {
			n = 0xff
		}
		copy(stream[pos:], []byte{0xc0, 0x00, byte(n)})
		pos += 3
		left -= n
	}
	copy(stream[pos:], []byte{0xe0, 0xff})

	return ret
}

//
func newTestAPI(t *testing.T) (*api, http.Handler) {
	a := NewAPIServer("", NewWorkspaceFromImage(blankImage(t), nil), nil).(*api)
	return a, a.router()
}

//
func call(h http.Handler, method, path string, body []byte,
	header ...string) *httptest.ResponseRecorder {

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for ix := 0; ix+1 < len(header); ix += 2 {
		req.Header.Set(header[ix], header[ix+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

//
func TestImportExport(t *testing.T) {

	a, h := newTestAPI(t)
	cont := testContainer("DEMO", 0x0a)

	rec := call(h, "PUT", "/slot", cont, "Accept", "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res sav.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, 0, res.Slot)
	require.Equal(t, "DEMO", res.Name)
	require.Equal(t, 1, res.Blocks)
	require.True(t, a.workspace.IsModified())

	rec = call(h, "GET", "/slot/1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, cont, rec.Body.Bytes())
	require.Contains(t, rec.Header().Get("Content-Disposition"), "demo-0A.lsdsng")

	rec = call(h, "PUT", "/slot", testContainer("SECOND", 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), "imported SECOND into slot 2")

	rec = call(h, "GET", "/ls", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "DEMO")
	require.Contains(t, rec.Body.String(), "SECOND")
	require.Contains(t, rec.Body.String(), "2 of 191 blocks used")
}

//
func TestImportCompressed(t *testing.T) {

	_, h := newTestAPI(t)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Name = "packed-00.lsdsng"
	gz.Write(testContainer("PACKED", 0))
	require.NoError(t, gz.Close())

	rec := call(h, "PUT", "/slot?compressor=gz", buf.Bytes())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), "PACKED")

	buf.Reset()
	gz = gzip.NewWriter(&buf)
	gz.Name = "lsdj.sav"
	gz.Write(testContainer("PACKED", 0))
	require.NoError(t, gz.Close())

	rec = call(h, "PUT", "/slot?compressor=gz", buf.Bytes())
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

//
func TestImportFailures(t *testing.T) {

	a, h := newTestAPI(t)

	rec := call(h, "PUT", "/slot", []byte("SHORT"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.False(t, a.workspace.IsModified())

	rec = call(h, "PUT", "/slot?ref=repo://song.lsdsng", nil)
	require.Equal(t, http.StatusNotAcceptable, rec.Code)

	rec = call(h, "PUT", "/slot?ref=song.lsdsng", nil)
	require.Equal(t, http.StatusNotAcceptable, rec.Code)

	for ix := 0; ix < sav.SlotCount; ix++ {
		rec = call(h, "PUT", "/slot", testContainer("FILL", byte(ix)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec = call(h, "PUT", "/slot", testContainer("ONEMORE", 0))
	require.Equal(t, http.StatusInsufficientStorage, rec.Code)
}

//
func TestSlotErrors(t *testing.T) {

	_, h := newTestAPI(t)

	for _, path := range []string{"/slot/0", "/slot/33", "/slot/2"} {
		rec := call(h, "GET", path, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, path)
	}

	rec := call(h, "DELETE", "/slot/1", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(h, "GET", "/slot/1/dump", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(h, "GET", "/slot/abc", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

//
func TestDumpAndClear(t *testing.T) {

	a, h := newTestAPI(t)
	require.Equal(t, http.StatusOK,
		call(h, "PUT", "/slot", testContainer("DUMP", 0)).Code)

	rec := call(h, "GET", "/slot/1/dump", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, sav.SongSize/16, strings.Count(rec.Body.String(), "\n"))

	rec = call(h, "GET", "/slot/1/dump?raw=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, sav.BlockSize/16, strings.Count(rec.Body.String(), "\n"))
	require.True(t, strings.HasPrefix(rec.Body.String(), "00000000  c0 00 ff"))

	rec = call(h, "DELETE", "/slot/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "was DUMP")
	require.Equal(t, 0, a.workspace.Image().AllocTable().UsedBlockCount())

	rec = call(h, "GET", "/stats", nil, "Accept", "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"total":191,"used":0,"free":191}`, rec.Body.String())
}

//
func TestSave(t *testing.T) {

	a, h := newTestAPI(t)

	rec := call(h, "PUT", "/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "no changes")

	require.Equal(t, http.StatusOK,
		call(h, "PUT", "/slot", testContainer("KEEP", 3)).Code)

	rec = call(h, "PUT", "/save", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	file := filepath.Join(t.TempDir(), "lsdj.sav")
	a.workspace.SetFile(file)

	rec = call(h, "PUT", "/save", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.False(t, a.workspace.IsModified())

	img, err := format.LoadImage(file)
	require.NoError(t, err)
	require.Equal(t, "KEEP", img.Name(0))
	require.Equal(t, "03", img.Version(0))
}

//
func TestAutoSave(t *testing.T) {

	a, h := newTestAPI(t)
	file := filepath.Join(t.TempDir(), "lsdj.sav")
	a.workspace.SetFile(file)
	a.workspace.SetAutoSave(true)

	require.Equal(t, http.StatusOK,
		call(h, "PUT", "/slot", testContainer("AUTO", 0)).Code)
	require.False(t, a.workspace.IsModified())

	ws, err := NewWorkspace(file, "")
	require.NoError(t, err)
	require.Equal(t, "AUTO", ws.Image().Name(0))
}

//
func TestWorkspaceBusy(t *testing.T) {

	a, h := newTestAPI(t)

	defer func(d time.Duration) { lockTimeout = d }(lockTimeout)
	lockTimeout = 10 * time.Millisecond

	require.True(t, a.workspace.Lock(context.Background()))
	require.True(t, a.workspace.IsLocked())

	rec := call(h, "GET", "/ls", nil)
	require.Equal(t, http.StatusLocked, rec.Code)

	a.workspace.Unlock()
	a.workspace.Unlock()
	require.False(t, a.workspace.IsLocked())

	rec = call(h, "GET", "/ls", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

//
func TestSearchAndVersion(t *testing.T) {

	_, h := newTestAPI(t)

	rec := call(h, "GET", "/search?term=demo", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = call(h, "GET", "/version", nil, "Accept", "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	var v Version
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, 191, v.Blocks)
	require.Equal(t, 0, v.ROMBanks)
}
