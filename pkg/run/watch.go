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
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/lsdpatch/lsdsav/pkg/control"
	"github.com/lsdpatch/lsdsav/pkg/format"
	"github.com/lsdpatch/lsdsav/pkg/util"
)

//
func NewWatch() *Watch {

	w := &Watch{}
	w.Runner = *NewRunner(
		`watch -s|--sav {file} [-r|--rom {file}] -d|--dir {dir} [-o|--out {file}]
      [-k|--backoff {seconds}]`,
		"import song containers dropped into a directory",
		`
Use the watch command to keep importing the song containers placed into a
directory tree into a save image. Once the directory has been quiet for the
backoff time, new containers are imported and the save image is written.`,
		"", runnerHelpEpilogue, w.Run)

	w.AddBaseSettings()
	w.AddImageSettings(true)
	w.AddSetting(&w.Dir, "dir", "d", "", nil, "directory to watch", true)
	w.AddSetting(&w.Out, "out", "o", "", nil,
		"write save image here instead of overwriting input", false)
	w.AddSetting(&w.Backoff, "backoff", "k", "", 2,
		"seconds to wait for directory to settle", false)

	return w
}

//
type Watch struct {
	Runner
	//
	Dir     string
	Out     string
	Backoff int
	//
	workspace *control.Workspace
	pending   map[string]bool
}

//
func (w *Watch) Run() error {

	if err := w.ParseSettings(); err != nil {
		return err
	}

	ws, err := w.loadWorkspace()
	if err != nil {
		return err
	}
	if w.Out != "" {
		ws.SetFile(w.Out)
	}
	w.workspace = ws
	w.pending = map[string]bool{}

	dw, err := util.NewDirWatcher(w.Dir)
	if err != nil {
		return err
	}
	dw.Filter = isContainerFile

	if err := dw.Start(time.Duration(w.Backoff)*time.Second,
		w.handle, w.flush); err != nil {
		return err
	}

	log.WithField("dir", w.Dir).Info("watching for song containers")

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	dw.Stop()
	return nil
}

//
func isContainerFile(path string) bool {
	_, typ, _ := format.SplitNameTypeCompressor(path)
	return typ == format.TypeSong
}

//
func (w *Watch) handle(evt fsnotify.Event) error {
	switch {
	case evt.Op&fsnotify.Create != 0, evt.Op&fsnotify.Write != 0:
		w.pending[evt.Name] = true
	case evt.Op&fsnotify.Rename != 0, evt.Op&fsnotify.Remove != 0:
		delete(w.pending, evt.Name)
	}
	return nil
}

// flush imports all pending containers, and saves the image if any of them
// could be imported.
func (w *Watch) flush() error {

	if len(w.pending) == 0 {
		return nil
	}

	files := make([]string, 0, len(w.pending))
	for f := range w.pending {
		files = append(files, f)
	}
	sort.Strings(files)
	w.pending = map[string]bool{}

	if failed := importFiles(w.workspace, files); failed == len(files) {
		return fmt.Errorf("none of %d songs imported", len(files))
	}

	return w.workspace.Save()
}
