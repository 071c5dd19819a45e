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

package format

import (
	"bufio"
	"io"
	"os"
)

// OpenFile opens file for reading, unwrapping it if its name denotes a
// compressed file. If the file type can't be told from the outer file name,
// the archive entry's name is used.
func OpenFile(file string) (*SourceReader, string, error) {

	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}

	_, typ, comp := SplitNameTypeCompressor(file)

	rd, err := NewSourceReader(readCloser{bufio.NewReader(f), f}, comp)
	if err != nil {
		f.Close()
		return nil, "", err
	}

	if typ == "" {
		typ = rd.Type()
	}

	return rd, typ, nil
}

//
type readCloser struct {
	io.Reader
	io.Closer
}
