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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

//
func TestAnnotations(t *testing.T) {

	var a Annotations
	require.False(t, a.HasAnnotation("kits"))
	require.Nil(t, a.GetAnnotation("kits"))

	a.Annotate("kits", 2)
	a.Annotate("active", true)
	a.Annotate("note", "demo")

	require.True(t, a.HasAnnotation("kits"))
	require.True(t, a.GetAnnotation("kits").IsInt())
	require.Equal(t, 2, a.GetAnnotation("kits").Int())
	require.Equal(t, "2", a.GetAnnotation("kits").String())
	require.False(t, a.GetAnnotation("kits").IsBool())

	require.True(t, a.GetAnnotation("active").Bool())
	require.Equal(t, "demo", a.GetAnnotation("note").String())
	require.Equal(t, "note", a.GetAnnotation("note").Key())

	data, err := json.Marshal(a)
	require.NoError(t, err)
	require.JSONEq(t, `{"kits":2,"active":true,"note":"demo"}`, string(data))
}

//
func TestNilAnnotation(t *testing.T) {
	var a *Annotation
	require.Equal(t, "", a.Key())
	require.False(t, a.IsBool())
	require.False(t, a.Bool())
	require.False(t, a.IsInt())
	require.Equal(t, 0, a.Int())
	require.False(t, a.IsString())
	require.Equal(t, "", a.String())
}
