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

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lsdpatch/lsdsav/pkg/run"
)

//
func main() {

	root := &cobra.Command{
		Use:   "lsdsav",
		Short: "lsdsav manages the songs in LSDj save images",
		Long: `
lsdsav lists, exports, imports, and clears the songs in LSDj save images, either
directly on save image files or via its API server.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		&run.NewLs().Command,
		&run.NewExport().Command,
		&run.NewImport().Command,
		&run.NewClear().Command,
		&run.NewDump().Command,
		&run.NewSearch().Command,
		&run.NewServe().Command,
		&run.NewWatch().Command,
		&run.NewWork().Command,
		&run.NewVersion().Command,
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
