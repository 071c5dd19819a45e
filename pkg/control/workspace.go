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
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/lsdpatch/lsdsav/pkg/format"
	"github.com/lsdpatch/lsdsav/pkg/sav"
)

// NewWorkspace loads the save image in savFile and, if romFile is not empty,
// the ROM image used for kit export and matching.
func NewWorkspace(savFile, romFile string) (*Workspace, error) {

	img, err := format.LoadImage(savFile)
	if err != nil {
		return nil, err
	}

	var rom sav.ROM
	if romFile != "" {
		if rom, err = format.LoadROM(romFile); err != nil {
			return nil, err
		}
	}

	ws := NewWorkspaceFromImage(img, rom)
	ws.savFile = savFile

	log.WithFields(log.Fields{
		"sav": savFile, "rom": romFile, "mirrored": img.Mirrored(),
	}).Info("workspace loaded")

	return ws, nil
}

// NewWorkspaceFromImage creates a workspace around an image already in memory.
// Such a workspace can only be saved once it has been given a file.
func NewWorkspaceFromImage(img *sav.Image, rom sav.ROM) *Workspace {
	return &Workspace{
		image: img,
		rom:   rom,
		lock:  make(chan bool, 1),
	}
}

// Workspace is the save image and ROM an API server works on. Callers need to
// hold the lock while accessing either.
type Workspace struct {
	image    *sav.Image
	rom      sav.ROM
	savFile  string
	modified bool
	autosave bool
	//
	lock chan bool
}

//
func (ws *Workspace) Lock(ctx context.Context) bool {
	select {
	case ws.lock <- true:
		log.Trace("workspace locked")
		return true
	case <-ctx.Done():
		log.Debug("workspace lock timed out")
		return false
	}
}

//
func (ws *Workspace) Unlock() {
	select {
	case <-ws.lock:
		log.Trace("workspace unlocked")
	default:
		log.Debug("workspace was already unlocked")
	}
}

//
func (ws *Workspace) IsLocked() bool {
	return len(ws.lock) > 0
}

//
func (ws *Workspace) Image() *sav.Image {
	return ws.image
}

//
func (ws *Workspace) ROM() sav.ROM {
	return ws.rom
}

//
func (ws *Workspace) File() string {
	return ws.savFile
}

//
func (ws *Workspace) SetFile(f string) {
	ws.savFile = f
}

//
func (ws *Workspace) IsModified() bool {
	return ws.modified
}

// SetAutoSave makes the workspace persist the image after every change.
func (ws *Workspace) SetAutoSave(on bool) {
	ws.autosave = on
}

// Changed marks the image as modified, and saves it when auto save is on.
func (ws *Workspace) Changed() error {
	ws.modified = true
	if ws.autosave {
		return ws.Save()
	}
	return nil
}

// Save persists the image to the workspace file.
func (ws *Workspace) Save() error {

	if ws.savFile == "" {
		return fmt.Errorf("workspace has no save file")
	}

	if err := format.SaveImage(ws.savFile, ws.image); err != nil {
		return fmt.Errorf("cannot save workspace: %w", err)
	}

	ws.modified = false
	log.WithField("file", ws.savFile).Info("workspace saved")
	return nil
}
