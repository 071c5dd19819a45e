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
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
)

// file types
const (
	TypeSav    = "sav"
	TypeSong   = "lsdsng"
	TypeROM    = "gb"
	TypeROMCol = "gbc"
)

// archives are read into memory completely, so cap their size
const maxArchiveSize = 16 * 1048576

// NewSourceReader wraps r such that reading from the returned reader yields
// the uncompressed content. compressor selects the decompression, empty
// means none.
func NewSourceReader(r io.ReadCloser, compressor string) (*SourceReader, error) {

	log.WithField("compressor", compressor).Debug("source reader requested")

	var ret *SourceReader
	var err error

	switch compressor {

	case "gzip":
		fallthrough
	case "gz":
		ret, err = getGZipReader(r)

	case "zst":
		fallthrough
	case "zstd":
		ret, err = getZstdReader(r)

	case "zip":
		ret, err = getZipReader(r, false)

	case "7z":
		ret, err = getZipReader(r, true)

	case "":
		ret = &SourceReader{r, "", "", ""}
	}

	if ret == nil && err == nil {
		err = fmt.Errorf("unsupported compressor: %s", compressor)
	}

	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"compressor": ret.compressor,
		"name":       ret.name,
		"type":       ret.typ}).Debug("source reader created")

	return ret, nil
}

//
type SourceReader struct {
	readCloser io.ReadCloser
	//
	name       string
	typ        string
	compressor string
}

//
func (r *SourceReader) Read(p []byte) (n int, err error) {
	return r.readCloser.Read(p)
}

//
func (r *SourceReader) Close() error {
	return r.readCloser.Close()
}

// Name is the base name of the archive entry, if known.
func (r *SourceReader) Name() string {
	return r.name
}

// Type is the file type of the archive entry, if known.
func (r *SourceReader) Type() string {
	return r.typ
}

//
func (r *SourceReader) Compressor() string {
	return r.compressor
}

//
func getGZipReader(r io.ReadCloser) (*SourceReader, error) {

	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	ret := &SourceReader{readCloser: gzr}
	ret.name, ret.typ, _ = SplitNameTypeCompressor(gzr.Name)
	ret.compressor = "gzip"

	return ret, nil
}

//
func getZstdReader(r io.ReadCloser) (*SourceReader, error) {

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &SourceReader{
		readCloser: &zstdCloser{decoder: zr, source: r},
		compressor: "zstd",
	}, nil
}

// zstd decoders don't close their source, and their Close has no return.
type zstdCloser struct {
	decoder *zstd.Decoder
	source  io.Closer
}

//
func (z *zstdCloser) Read(p []byte) (int, error) {
	return z.decoder.Read(p)
}

//
func (z *zstdCloser) Close() error {
	z.decoder.Close()
	return z.source.Close()
}

//
func getZipReader(r io.ReadCloser, zip7 bool) (*SourceReader, error) {

	var sponge bytes.Buffer
	size, err := io.Copy(&sponge, io.LimitReader(r, maxArchiveSize))
	if err != nil {
		return nil, err
	}
	r.Close()

	ret := &SourceReader{}

	if zip7 {
		zr, err := sevenzip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("empty 7-zip archive")
		}
		if len(zr.File) > 1 {
			log.Warn("7-zip archive has more than one entry, using first")
		}

		ret.name, ret.typ, _ = SplitNameTypeCompressor(zr.File[0].Name)
		ret.compressor = "7z"
		ret.readCloser, err = zr.File[0].Open()
		if err != nil {
			return nil, err
		}

	} else {
		zr, err := zip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("empty zip archive")
		}
		if len(zr.File) > 1 {
			log.Warn("zip archive has more than one entry, using first")
		}

		ret.name, ret.typ, _ = SplitNameTypeCompressor(zr.File[0].Name)
		ret.compressor = "zip"
		ret.readCloser, err = zr.File[0].Open()
		if err != nil {
			return nil, err
		}
	}

	return ret, nil
}

// SplitNameTypeCompressor splits a file name such as `song-0A.lsdsng.gz` into
// base name, file type, and compressor.
func SplitNameTypeCompressor(file string) (name, typ, compressor string) {

	_, n := filepath.Split(file)

	for {
		ext := filepath.Ext(n)
		if ext == "" {
			name = n
			break
		}

		lower := strings.ToLower(strings.TrimPrefix(ext, "."))
		known := true

		switch lower {

		case TypeSav:
			fallthrough
		case TypeSong:
			fallthrough
		case TypeROM:
			fallthrough
		case TypeROMCol:
			typ = lower

		case "gz":
			fallthrough
		case "gzip":
			fallthrough
		case "zst":
			fallthrough
		case "zstd":
			fallthrough
		case "zip":
			fallthrough
		case "7z":
			compressor = lower

		default:
			known = false
		}

		if !known {
			name = n
			break
		}
		n = strings.TrimSuffix(n, ext)
	}

	return name, typ, compressor
}
