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

//
func TestPackTokens(t *testing.T) {

	t.Run("zero song", func(t *testing.T) {
		toks := packTokens(make([]byte, SongSize))
		require.Len(t, toks, 129)
		require.Equal(t, []byte{tokenRLE, 0, 0xff}, toks[0])
		require.Equal(t, []byte{tokenRLE, 0, 0x80}, toks[128])

		blocks := layoutBlocks(toks, func(int) byte { return 1 })
		require.Len(t, blocks, 1)
	})

	t.Run("default instruments", func(t *testing.T) {
		song := bytes.Repeat(defaultInstrument[:], SongSize/len(defaultInstrument))
		toks := packTokens(song)
		require.Len(t, toks, 9)
		require.Equal(t, []byte{tokenSpecial, tokenInstr, 0xff}, toks[0])
		require.Equal(t, []byte{tokenSpecial, tokenInstr, 8}, toks[8])
	})

	t.Run("token bytes", func(t *testing.T) {
		song := []byte{tokenRLE, tokenRLE, tokenSpecial, tokenSpecial,
			tokenSpecial, 7, 7, 7, 9, 9, 9, 9}
		require.Equal(t, [][]byte{
			{tokenRLE, tokenRLE},
			{tokenRLE, tokenRLE},
			{tokenRLE, tokenSpecial, 3},
			{7}, {7}, {7},
			{tokenRLE, 9, 4},
		}, packTokens(song))
	})
}

//
func TestPackRoundTrip(t *testing.T) {

	song := testSong(77, 3)
	copy(song[0x1000:], bytes.Repeat(defaultInstrument[:], 20))
	copy(song[0x2000:], bytes.Repeat(defaultWave[:], 3))
	copy(song[0x4000:], bytes.Repeat([]byte{tokenRLE}, 300))

	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, []byte("ROUND"), 0x11, song))
	require.Zero(t, (buf.Len()-ContainerHeaderLength)%BlockSize)

	img := blankImage(t, false)
	res, err := img.Import(&buf, nil)
	require.NoError(t, err)
	require.Equal(t, "ROUND", res.Name)
	require.Greater(t, res.Blocks, 1)

	got, err := img.Unpack(res.Slot)
	require.NoError(t, err)
	require.Equal(t, song, got)
	require.Equal(t, "11", img.Version(res.Slot))

	_, err = Pack(song[:100])
	require.ErrorIs(t, err, ErrLoadFormat)
}

//
func TestStoreWorkMemory(t *testing.T) {

	img := blankImage(t, false)
	song := testSong(5)
	storeSong(t, img, 0, "FIRST", 0, testSong(6))
	require.NoError(t, img.LoadWorkMemory(bytes.NewReader(song)))

	res, err := img.StoreWorkMemory("WORK", 2)
	require.NoError(t, err)
	require.Equal(t, 1, res.Slot)
	require.Equal(t, "WORK", img.Name(1))

	got, err := img.Unpack(1)
	require.NoError(t, err)
	require.Equal(t, song, got)
}
