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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/lsdpatch/lsdsav/pkg/library"
	"github.com/lsdpatch/lsdsav/pkg/sav"
)

// timeouts
var (
	lockTimeout     = 3 * time.Second
	shutdownTimeout = 5 * time.Second
)

//
type APIServer interface {
	Serve() error
	Stop() error
}

// NewAPIServer creates an API server for workspace ws, listening on address.
// index may be nil, in which case search is not available.
func NewAPIServer(address string, ws *Workspace, index *library.Index) APIServer {
	a := &api{
		address:   address,
		workspace: ws,
		index:     index,
	}
	if index != nil {
		a.repository = index.Repo()
	}
	return a
}

//
type api struct {
	address    string
	server     *http.Server
	workspace  *Workspace
	index      *library.Index
	repository string
}

// Serve blocks until the server is stopped. A stopped server is not an error.
func (a *api) Serve() error {

	a.server = &http.Server{
		Addr:    a.address,
		Handler: a.router(),
	}

	log.WithField("address", a.address).Info("API server starting")
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return err
}

//
func (a *api) Stop() error {
	if a.server == nil {
		return nil
	}
	log.Info("API server stopping")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.server.Shutdown(ctx)
}

//
func (a *api) router() *mux.Router {

	r := mux.NewRouter()

	r.HandleFunc("/ls", a.list).Methods("GET")
	r.HandleFunc("/stats", a.stats).Methods("GET")
	r.HandleFunc("/slot", a.load).Methods("PUT")
	r.HandleFunc("/slot/{slot:[0-9]+}", a.export).Methods("GET")
	r.HandleFunc("/slot/{slot:[0-9]+}", a.clear).Methods("DELETE")
	r.HandleFunc("/slot/{slot:[0-9]+}/dump", a.dump).Methods("GET")
	r.HandleFunc("/save", a.save).Methods("PUT")
	r.HandleFunc("/search", a.search).Methods("GET")
	r.HandleFunc("/version", a.version).Methods("GET")

	r.Use(logRequest)
	return r
}

//
func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		log.WithFields(log.Fields{
			"method": req.Method, "path": req.URL.Path}).Debug("API request")
		next.ServeHTTP(w, req)
	})
}

// lockWorkspace acquires the workspace lock for the duration of a request. If
// it returns false, an error reply has already been sent.
func (a *api) lockWorkspace(w http.ResponseWriter, req *http.Request) bool {
	ctx, cancel := context.WithTimeout(req.Context(), lockTimeout)
	defer cancel()
	if !a.workspace.Lock(ctx) {
		handleError(fmt.Errorf("workspace busy"), http.StatusLocked, w)
		return false
	}
	return true
}

// getSlot returns the zero based slot addressed by the request, which uses
// slot numbers starting at 1. Returns -1 if the slot is invalid, after
// sending an error reply.
func getSlot(w http.ResponseWriter, req *http.Request) int {
	slot, err := getIntArg(req, "slot", -1)
	if err == nil {
		err = sav.ValidateSlot(slot - 1)
	}
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return -1
	}
	return slot - 1
}

//
func getRef(req *http.Request) (string, error) {
	ref := strings.TrimSpace(getArg(req, "ref"))
	if ref == "" {
		return "", nil
	}
	if strings.HasPrefix(ref, library.SchemeRepo) ||
		strings.HasPrefix(ref, library.SchemeHTTP) ||
		strings.HasPrefix(ref, library.SchemeHTTPS) {
		return ref, nil
	}
	return ref, fmt.Errorf("invalid reference: %s", ref)
}

// getArg returns the route variable key, or if there is none, the query
// parameter of that name.
func getArg(req *http.Request, key string) string {
	if v, ok := mux.Vars(req)[key]; ok {
		return v
	}
	return req.URL.Query().Get(key)
}

//
func getIntArg(req *http.Request, key string, def int) (int, error) {
	v := getArg(req, key)
	if v == "" {
		return def, nil
	}
	ret, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid value for %s: %s", key, v)
	}
	return ret, nil
}

//
func isFlagSet(req *http.Request, key string) bool {
	v, ok := req.URL.Query()[key]
	return ok && (len(v) == 0 || v[0] == "" || strings.ToLower(v[0]) == "true")
}

//
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json") ||
		isFlagSet(req, "json")
}

// statusFor maps song store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sav.ErrOutOfSlots), errors.Is(err, sav.ErrOutOfBlocks):
		return http.StatusInsufficientStorage
	case errors.Is(err, sav.ErrNoROM):
		return http.StatusPreconditionFailed
	default:
		return http.StatusUnprocessableEntity
	}
}

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {
	if e == nil {
		return false
	}
	log.WithField("status", statusCode).Errorf("API error: %v", e)
	sendReply([]byte(e.Error()), statusCode, w)
	return true
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	body, err := json.Marshal(obj)
	if handleError(err, http.StatusInternalServerError, w) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Errorf("problem sending JSON reply: %v", err)
	}
}

//
func sendStreamReply(r io.ReadCloser, statusCode int, w http.ResponseWriter) {
	defer r.Close()
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.WriteHeader(statusCode)
	if _, err := io.Copy(w, r); err != nil {
		log.Errorf("problem sending stream reply: %v", err)
	}
}
