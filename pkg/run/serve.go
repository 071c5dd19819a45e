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
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/lsdpatch/lsdsav/pkg/control"
	"github.com/lsdpatch/lsdsav/pkg/library"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		`serve -s|--sav {file} [-r|--rom {file}] [-a|--address {address}]
      [-b|--library {dir}] [-x|--index {dir}] [--autosave]`,
		"serve a save image via HTTP API",
		`
Use the serve command to load a save image into an API server, so songs can be
listed, imported, exported, and cleared remotely. With a song library directory,
the containers in there are indexed for searching, and can be imported by
reference. Changes are written back to the save image file on request, or after
every change when auto save is on.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddImageSettings(true)
	s.AddSetting(&s.Library, "library", "b", "", nil,
		"song library directory", false)
	s.AddSetting(&s.Index, "index", "x", "", nil,
		"search index directory, defaults to .lsdsav-index next to library", false)
	s.AddSetting(&s.AutoSave, "autosave", "", "", false,
		"save image after every change", false)

	return s
}

//
type Serve struct {
	Runner
	//
	Library  string
	Index    string
	AutoSave bool
}

//
func (s *Serve) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	ws, err := s.loadWorkspace()
	if err != nil {
		return err
	}
	ws.SetAutoSave(s.AutoSave)

	var index *library.Index
	if s.Library != "" {
		if s.Index == "" {
			lib, err := filepath.Abs(s.Library)
			if err != nil {
				return err
			}
			s.Index = filepath.Join(filepath.Dir(lib), ".lsdsav-index")
		}
		if index, err = library.NewIndex(s.Index, s.Library); err != nil {
			return err
		}
		defer index.Stop()
		go func() {
			if err := index.Start(); err != nil {
				log.Errorf("song library not available: %v", err)
			}
		}()
	}

	api := control.NewAPIServer(s.Address, ws, index)

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		if err := api.Stop(); err != nil {
			log.Errorf("error stopping API server: %v", err)
		}
	}()

	if err := api.Serve(); err != nil {
		return err
	}

	if ws.IsModified() {
		log.Warn("save image has unsaved changes")
	}

	return nil
}
