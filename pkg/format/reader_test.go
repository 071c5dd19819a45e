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
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/lsdpatch/lsdsav/pkg/sav"
)

func TestSplitNameTypeCompressor(t *testing.T) {

	tests := []struct {
		file       string
		name       string
		typ        string
		compressor string
	}{
		{"song-0A.lsdsng", "song-0A", TypeSong, ""},
		{"/tmp/songs/song-0A.LSDSNG.gz", "song-0A", TypeSong, "gz"},
		{"lsdj.sav.zip", "lsdj", TypeSav, "zip"},
		{"lsdj.gb.7z", "lsdj", TypeROM, "7z"},
		{"lsdj.sav.zst", "lsdj", TypeSav, "zst"},
		{"my.song.v2.lsdsng", "my.song.v2", TypeSong, ""},
		{"readme", "readme", "", ""},
	}

	for _, tc := range tests {
		name, typ, comp := SplitNameTypeCompressor(tc.file)
		require.Equal(t, tc.name, name, tc.file)
		require.Equal(t, tc.typ, typ, tc.file)
		require.Equal(t, tc.compressor, comp, tc.file)
	}
}

func TestSourceReader(t *testing.T) {

	payload := bytes.Repeat([]byte("LSDJ"), 1024)

	t.Run("plain", func(t *testing.T) {
		rd, err := NewSourceReader(io.NopCloser(bytes.NewReader(payload)), "")
		require.NoError(t, err)
		requireContent(t, payload, rd)
	})

	t.Run("gzip", func(t *testing.T) {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		gw.Name = "tune-01.lsdsng"
		_, err := gw.Write(payload)
		require.NoError(t, err)
		require.NoError(t, gw.Close())

		rd, err := NewSourceReader(io.NopCloser(&buf), "gz")
		require.NoError(t, err)
		require.Equal(t, "tune-01", rd.Name())
		require.Equal(t, TypeSong, rd.Type())
		require.Equal(t, "gzip", rd.Compressor())
		requireContent(t, payload, rd)
	})

	t.Run("zip", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("lsdj.sav")
		require.NoError(t, err)
		_, err = w.Write(payload)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		rd, err := NewSourceReader(io.NopCloser(&buf), "zip")
		require.NoError(t, err)
		require.Equal(t, TypeSav, rd.Type())
		requireContent(t, payload, rd)
	})

	t.Run("empty zip", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, zip.NewWriter(&buf).Close())
		_, err := NewSourceReader(io.NopCloser(&buf), "zip")
		require.Error(t, err)
	})

	t.Run("zstd", func(t *testing.T) {
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		data := enc.EncodeAll(payload, nil)
		require.NoError(t, enc.Close())

		rd, err := NewSourceReader(io.NopCloser(bytes.NewReader(data)), "zst")
		require.NoError(t, err)
		require.Equal(t, "zstd", rd.Compressor())
		requireContent(t, payload, rd)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewSourceReader(io.NopCloser(bytes.NewReader(payload)), "rar")
		require.Error(t, err)
	})
}

func TestOpenFile(t *testing.T) {

	dir := t.TempDir()
	payload := []byte("song data")

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	file := filepath.Join(dir, "beat-00.lsdsng.gz")
	require.NoError(t, os.WriteFile(file, buf.Bytes(), 0644))

	rd, typ, err := OpenFile(file)
	require.NoError(t, err)
	require.Equal(t, TypeSong, typ)
	requireContent(t, payload, rd)

	_, _, err = OpenFile(filepath.Join(dir, "missing.sav"))
	require.Error(t, err)
}

func requireContent(t *testing.T, want []byte, rd *SourceReader) {
	t.Helper()
	got, err := io.ReadAll(rd)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.NoError(t, rd.Close())
}

//
func TestImageFiles(t *testing.T) {

	dir := t.TempDir()
	raw := make([]byte, sav.ImageSize)
	raw[0x8141] = 0xff
	raw[0x10000] = 1

	file := filepath.Join(dir, "lsdj.sav")
	require.NoError(t, os.WriteFile(file, raw, 0644))

	img, err := LoadImage(file)
	require.NoError(t, err)
	require.False(t, img.Mirrored())

	out := filepath.Join(dir, "out.sav")
	require.NoError(t, SaveImage(out, img))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, raw, data)

	require.Error(t, SaveImage(filepath.Join(dir, "out.sav.gz"), img))

	_, err = LoadImage(filepath.Join(dir, "missing.sav"))
	require.Error(t, err)

	short := filepath.Join(dir, "short.sav")
	require.NoError(t, os.WriteFile(short, raw[:100], 0644))
	_, err = LoadImage(short)
	require.ErrorIs(t, err, sav.ErrLoadFormat)

	song := filepath.Join(dir, "song.lsdsng")
	require.NoError(t, os.WriteFile(song, raw, 0644))
	_, err = LoadImage(song)
	require.Error(t, err)
}

//
func TestROMFiles(t *testing.T) {

	dir := t.TempDir()
	raw := make([]byte, 4*sav.KitSize)
	raw[sav.KitSize] = 0x42

	file := filepath.Join(dir, "lsdj.gb")
	require.NoError(t, os.WriteFile(file, raw, 0644))

	rom, err := LoadROM(file)
	require.NoError(t, err)
	require.Equal(t, 4, rom.Banks())

	out := filepath.Join(dir, "patched.gb")
	require.NoError(t, SaveROM(out, rom))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, raw, data)

	odd := filepath.Join(dir, "odd.gb")
	require.NoError(t, os.WriteFile(odd, raw[:100], 0644))
	_, err = LoadROM(odd)
	require.ErrorIs(t, err, sav.ErrLoadFormat)
}
