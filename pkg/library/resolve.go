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

package library

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// MaxSourceSize caps what is read from a single source. A song container with
// the maximum of 64 kits is just above 1MB.
const MaxSourceSize = 2 * 1048576

// reference schemes
const (
	SchemeRepo  = "repo://"
	SchemeHTTP  = "http://"
	SchemeHTTPS = "https://"
)

// Resolve opens the source a reference points to. Library references are of
// the form `repo://{path relative to library root}`, everything else needs to
// be an HTTP(S) URL.
func Resolve(ref, repo string) (io.ReadCloser, error) {

	log.WithField("ref", ref).Debug("resolving reference")

	switch {

	case strings.HasPrefix(ref, SchemeRepo):
		if repo == "" {
			return nil, fmt.Errorf("no song library configured")
		}
		rel := filepath.Clean("/" + strings.TrimPrefix(ref, SchemeRepo))
		return NewFileSource(filepath.Join(repo, rel))

	case strings.HasPrefix(ref, SchemeHTTP), strings.HasPrefix(ref, SchemeHTTPS):
		return NewHTTPSource(ref)
	}

	return nil, fmt.Errorf("unsupported reference: %s", ref)
}
