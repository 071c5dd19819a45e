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

package sav

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {

	t.Run("short", func(t *testing.T) {
		img := NewImage()
		err := img.Load(bytes.NewReader(make([]byte, ImageSize-1)))
		require.ErrorIs(t, err, ErrLoadFormat)
	})

	t.Run("long", func(t *testing.T) {
		img := NewImage()
		err := img.Load(bytes.NewReader(make([]byte, ImageSize+1)))
		require.ErrorIs(t, err, ErrLoadFormat)
	})

	t.Run("failed load keeps contents", func(t *testing.T) {
		img := blankImage(t, false)
		storeSong(t, img, 3, "KEEP", 1, testSong(1))
		require.Error(t, img.Load(bytes.NewReader(nil)))
		require.Equal(t, "KEEP", img.Name(3))
		require.True(t, img.IsValid(3))
	})
}

func TestSizeClass(t *testing.T) {

	full := blankImage(t, false)
	require.False(t, full.Mirrored())
	require.Equal(t, 191, full.TotalBlockCount())
	require.Len(t, full.AllocTable(), 191)

	mirrored := blankImage(t, true)
	require.True(t, mirrored.Mirrored())
	require.Equal(t, full.TotalBlockCount()-128, mirrored.TotalBlockCount())

	t.Run("unloaded image is full size", func(t *testing.T) {
		require.False(t, NewImage().Mirrored())
		require.Equal(t, 191, NewImage().TotalBlockCount())
	})

	t.Run("cache invalidated on reload", func(t *testing.T) {
		img := blankImage(t, true)
		var buf bytes.Buffer
		require.NoError(t, full.Persist(&buf))
		require.NoError(t, img.Load(&buf))
		require.False(t, img.Mirrored())
	})

	t.Run("cache kept on edits", func(t *testing.T) {
		img := blankImage(t, true)
		storeSong(t, img, 0, "EDIT", 0, testSong(2))
		require.True(t, img.Mirrored())
	})
}

func TestPersist(t *testing.T) {

	t.Run("mirrored", func(t *testing.T) {
		img := blankImage(t, true)
		storeSong(t, img, 0, "MIRROR", 2, testSong(3))

		var buf bytes.Buffer
		require.NoError(t, img.Persist(&buf))
		out := buf.Bytes()
		require.Len(t, out, ImageSize)
		require.Equal(t, out[:ImageSize/2], out[ImageSize/2:])

		// idempotent
		var again bytes.Buffer
		require.NoError(t, img.Persist(&again))
		require.Equal(t, out, again.Bytes())
	})

	t.Run("full", func(t *testing.T) {
		img := blankImage(t, false)
		storeSong(t, img, 0, "FULL", 2, testSong(3))

		var buf bytes.Buffer
		require.NoError(t, img.Persist(&buf))
		out := buf.Bytes()
		require.NotEqual(t, out[:ImageSize/2], out[ImageSize/2:])

		reloaded := NewImage()
		require.NoError(t, reloaded.Load(&buf))
		require.Equal(t, "FULL", reloaded.Name(0))
		require.True(t, reloaded.IsValid(0))
	})
}

func TestWorkMemory(t *testing.T) {

	img := blankImage(t, false)
	storeSong(t, img, 4, "OPEN", 0, testSong(4))
	img.ram[activeSlotAddr] = 4
	require.Equal(t, 4, img.ActiveSlot())

	t.Run("short", func(t *testing.T) {
		err := img.LoadWorkMemory(bytes.NewReader(make([]byte, BankSize-1)))
		require.ErrorIs(t, err, ErrLoadFormat)
		require.Equal(t, 4, img.ActiveSlot())
	})

	t.Run("load", func(t *testing.T) {
		work := bytes.Repeat([]byte{0x42}, BankSize)
		require.NoError(t, img.LoadWorkMemory(bytes.NewReader(work)))
		require.Equal(t, -1, img.ActiveSlot())
		require.True(t, img.IsValid(4))

		var buf bytes.Buffer
		require.NoError(t, img.PersistWorkMemory(&buf))
		require.Equal(t, work, buf.Bytes())
	})
}
