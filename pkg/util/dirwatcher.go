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

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

/*
	NewDirWatcher creates a new recursive file system watcher that will watch
	for changes in the directory tree rooted in dir. When new directories are
	added to that tree, they will be included in the watch. The watcher will not
	start until the Start method has been called.
*/
func NewDirWatcher(dir string) (*DirWatcher, error) {

	ret := &DirWatcher{
		release: make(chan bool),
	}

	var err error
	if ret.watcher, err = fsnotify.NewWatcher(); err != nil {
		return nil, err
	}

	if err := filepath.Walk(dir, ret.addDirWalking); err != nil {
		log.Errorf("error walking directory '%s': %v", dir, err)
		ret.watcher.Close()
		return nil, err
	}

	return ret, nil
}

// DirWatcher watches a directory tree. Events for files rejected by Filter
// are not passed on to the handler.
type DirWatcher struct {
	Filter func(path string) bool
	//
	watcher *fsnotify.Watcher
	release chan bool
	running bool
	mutex   sync.Mutex
}

/*
	Start starts this directory watcher. Whenever there is a change in the
	directory tree this watcher is watching, the handler function will be called.

	Additionally, a timer is set to expire after backoff time. If there were no
	further changes in the tree by the time the timer expires, the flush function
	will be called. Otherwise the timer is set again. All calls to handler and
	flush are made from the same go routine, so they don't need to be thread
	safe with respect to each other.
*/
func (dw *DirWatcher) Start(backoff time.Duration,
	handler func(fsnotify.Event) error, flush func() error) error {

	dw.mutex.Lock()
	defer dw.mutex.Unlock()

	if dw.watcher == nil {
		return fmt.Errorf("directory watcher not initialized or stopped")
	}

	if dw.running {
		return fmt.Errorf("directory watcher already started")
	}

	dw.running = true
	w := dw.watcher

	go func() {

		errs := w.Errors
		timer := time.NewTimer(backoff)
		if !timer.Stop() {
			<-timer.C
		}

		for {
			select {

			case evt, ok := <-w.Events:

				if !ok {
					log.Debug("directory watcher routine stopping")
					dw.mutex.Lock()
					dw.running = false
					dw.mutex.Unlock()
					dw.release <- true
					log.Debug("directory watcher routine exiting")
					return
				}

				timer.Stop()
				handleEvent(w, evt)
				if dw.Filter == nil || dw.Filter(evt.Name) {
					if err := handler(evt); err != nil {
						log.Errorf("error in watch event handler: %v", err)
					}
				}
				timer.Reset(backoff)

			case err, ok := <-errs:
				if ok {
					log.Errorf("directory watcher error: %v", err)
				} else {
					errs = nil
				}

			case <-timer.C:
				if err := flush(); err != nil {
					log.Errorf("error flushing: %v", err)
				}
			}
		}
	}()

	return nil
}

/*
	Stop signals this directory watcher to stop, and waits until it has stopped.
	A stopped directory watcher cannot be started again.
*/
func (dw *DirWatcher) Stop() {

	dw.mutex.Lock()
	w := dw.watcher
	running := dw.running
	dw.watcher = nil
	dw.mutex.Unlock()

	if w == nil {
		return
	}

	log.Info("closing directory watcher")
	if err := w.Close(); err != nil {
		log.Errorf("could not close file watcher: %v", err)
	}
	if running {
		<-dw.release
	}
}

//
func handleEvent(w *fsnotify.Watcher, evt fsnotify.Event) {
	log.WithFields(
		log.Fields{"path": evt.Name, "op": evt.Op}).Debug("handling event")
	if evt.Op&fsnotify.Create != 0 {
		addDir(w, evt.Name, nil)
	}
}

//
func (dw *DirWatcher) addDirWalking(
	path string, info os.FileInfo, err error) error {
	if err != nil {
		return err
	}
	return addDir(dw.watcher, path, info)
}

//
func addDir(w *fsnotify.Watcher, path string, info os.FileInfo) error {

	if info == nil {
		var e error
		if info, e = os.Lstat(path); e != nil {
			log.Errorf("cannot stat %s", path)
			return e
		}
	}

	if info.Mode().IsDir() {
		if err := w.Add(path); err != nil {
			log.Errorf("error adding watch for directory '%s': %v", path, err)
			return err
		}
		log.WithField("path", path).Debug("starting directory watch")
	}

	return nil
}
