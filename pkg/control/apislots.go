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

package control

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/lsdpatch/lsdsav/pkg/sav"
	"github.com/lsdpatch/lsdsav/pkg/sav/base"
)

//
func (a *api) list(w http.ResponseWriter, req *http.Request) {

	if !a.lockWorkspace(w, req) {
		return
	}
	defer a.workspace.Unlock()

	stats, slots := a.workspace.Image().Ls()

	if wantsJSON(req) {
		sendJSONReply(map[string]interface{}{
			"stats": stats, "slots": slots}, http.StatusOK, w)
		return
	}

	read, write := io.Pipe()
	go func() {
		WriteSlotList(write, a.workspace.File(), stats, slots)
		write.Close()
	}()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	sendStreamReply(read, http.StatusOK, w)
}

//
func (a *api) stats(w http.ResponseWriter, req *http.Request) {

	if !a.lockWorkspace(w, req) {
		return
	}
	defer a.workspace.Unlock()

	t := a.workspace.Image().AllocTable()
	stats := base.NewStats(t.TotalBlockCount(), t.UsedBlockCount())

	if wantsJSON(req) {
		sendJSONReply(stats, http.StatusOK, w)
		return
	}

	sendReply([]byte(fmt.Sprintf("%d of %d blocks used, %d free\n",
		stats.Used(), stats.Total(), stats.Free())), http.StatusOK, w)
}

// dump sends a hex dump of a slot's decoded song, or with raw set, of the
// slot's blocks as stored.
func (a *api) dump(w http.ResponseWriter, req *http.Request) {

	slot := getSlot(w, req)
	if slot == -1 {
		return
	}

	if !a.lockWorkspace(w, req) {
		return
	}
	defer a.workspace.Unlock()

	data, err := SlotData(a.workspace.Image(), slot, isFlagSet(req, "raw"))
	if handleError(err, statusFor(err), w) {
		return
	}

	read, write := io.Pipe()
	go func() {
		d := hex.Dumper(write)
		d.Write(data)
		d.Close()
		write.Close()
	}()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	sendStreamReply(read, http.StatusOK, w)
}

// SlotData returns the decoded song of slot, or if raw is set, the slot's
// blocks in allocation table order.
func SlotData(img *sav.Image, slot int, raw bool) ([]byte, error) {

	if !raw {
		return img.Unpack(slot)
	}

	if err := sav.ValidateSlot(slot); err != nil {
		return nil, err
	}

	blocks := img.AllocTable().Blocks(slot)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: %d", sav.ErrEmptySlot, slot+1)
	}

	var ret []byte
	for _, b := range blocks {
		ret = append(ret, img.Block(b)...)
	}
	return ret, nil
}

// WriteSlotList renders the occupied slots of a save image as a table.
func WriteSlotList(w io.Writer, title string, stats *base.Stats,
	slots []*base.SlotInfo) {

	if title != "" {
		fmt.Fprintf(w, "\n%s\n\n", title)
	} else {
		fmt.Fprintln(w)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Ver", "Blocks", "Kits", "State"})
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for _, s := range slots {
		if s.IsEmpty() {
			continue
		}
		table.Append([]string{
			strconv.Itoa(s.Slot() + 1),
			s.Name(),
			s.Version(),
			strconv.Itoa(s.Blocks()),
			kitColumn(s),
			stateColumn(s),
		})
	}

	table.Render()

	fmt.Fprintf(w, "\n%d of %d blocks used (%d free)\n\n",
		stats.Used(), stats.Total(), stats.Free())
}

//
func kitColumn(s *base.SlotInfo) string {
	if !s.HasAnnotation(base.AnnotationKits) {
		return "-"
	}
	return s.GetAnnotation(base.AnnotationKits).String()
}

//
func stateColumn(s *base.SlotInfo) string {
	state := ""
	if !s.IsValid() {
		state = "corrupted"
	}
	if s.IsActive() {
		if state != "" {
			state += ", "
		}
		state += "active"
	}
	return state
}
