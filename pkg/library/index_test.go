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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

//
func writeSong(t *testing.T, dir, file, name string, version byte) {
	raw := make([]byte, 9+512)
	copy(raw, name)
	raw[8] = version
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, file)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), raw, 0644))
}

//
func startIndex(t *testing.T, repo string) *Index {
	ix, err := NewIndex(filepath.Join(t.TempDir(), "index"), repo)
	require.NoError(t, err)
	ix.Backoff = 20 * time.Millisecond
	require.NoError(t, ix.Start())
	t.Cleanup(ix.Stop)
	return ix
}

//
func TestIndexSearch(t *testing.T) {

	repo := t.TempDir()
	writeSong(t, repo, "techno-03.lsdsng", "TECHNO", 3)
	writeSong(t, repo, "chip/tune-01.lsdsng", "CHIPTUNE", 1)
	require.NoError(t, os.WriteFile(
		filepath.Join(repo, "notes.txt"), []byte("TECHNO"), 0644))

	ix := startIndex(t, repo)

	res, err := ix.Search("techno", 10)
	require.NoError(t, err)
	require.Equal(t, []string{"techno-03.lsdsng"}, res.Hits)
	require.True(t, res.Complete)

	res, err = ix.Search("chiptune", 10)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join("chip", "tune-01.lsdsng")}, res.Hits)

	_, err = ix.Search("  ", 10)
	require.Error(t, err)
}

//
func TestIndexSearchLimit(t *testing.T) {

	repo := t.TempDir()
	writeSong(t, repo, "a-00.lsdsng", "LOOP", 0)
	writeSong(t, repo, "b-00.lsdsng", "LOOP", 0)
	writeSong(t, repo, "c-00.lsdsng", "LOOP", 0)

	ix := startIndex(t, repo)

	res, err := ix.Search("loop", 2)
	require.NoError(t, err)
	require.Len(t, res.Hits, 2)
	require.Equal(t, uint64(3), res.Total)
	require.False(t, res.Complete)
}

//
func TestIndexWatch(t *testing.T) {

	repo := t.TempDir()
	ix := startIndex(t, repo)

	found := func(term string) func() bool {
		return func() bool {
			res, err := ix.Search(term, 10)
			return err == nil && len(res.Hits) == 1
		}
	}

	writeSong(t, repo, "house-02.lsdsng", "HOUSE", 2)
	require.Eventually(t, found("house"), 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(repo, "house-02.lsdsng")))
	require.Eventually(t, func() bool {
		return !found("house")()
	}, 5*time.Second, 20*time.Millisecond)
}

//
func TestIndexReopen(t *testing.T) {

	repo := t.TempDir()
	base := filepath.Join(t.TempDir(), "index")
	writeSong(t, repo, "ambient-00.lsdsng", "AMBIENT", 0)
	writeSong(t, repo, "drone-00.lsdsng", "DRONE", 0)

	ix, err := NewIndex(base, repo)
	require.NoError(t, err)
	require.NoError(t, ix.Start())
	ix.Stop()

	require.NoError(t, os.Remove(filepath.Join(repo, "drone-00.lsdsng")))

	ix, err = NewIndex(base, repo)
	require.NoError(t, err)
	require.NoError(t, ix.Start())
	defer ix.Stop()

	res, err := ix.Search("ambient", 10)
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)

	res, err = ix.Search("drone", 10)
	require.NoError(t, err)
	require.Empty(t, res.Hits)
}
