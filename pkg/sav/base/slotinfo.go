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

package base

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lsdpatch/lsdsav/pkg/util"
)

// annotation keys
const (
	AnnotationActive = "active"
	AnnotationKits   = "kits"
)

//
func NewSlotInfo(slot int, name, version string, blocks int, valid bool) *SlotInfo {
	return &SlotInfo{
		slot:    slot,
		name:    name,
		version: version,
		blocks:  blocks,
		valid:   valid,
	}
}

//
type SlotInfo struct {
	slot    int
	name    string
	version string
	blocks  int
	valid   bool
	util.Annotations
}

//
func (s *SlotInfo) Slot() int {
	return s.slot
}

//
func (s *SlotInfo) Name() string {
	return s.name
}

//
func (s *SlotInfo) Version() string {
	return s.version
}

//
func (s *SlotInfo) Blocks() int {
	return s.blocks
}

//
func (s *SlotInfo) IsEmpty() bool {
	return s.blocks == 0
}

// IsValid reports whether the slot's song can be decoded. Empty slots are
// never valid.
func (s *SlotInfo) IsValid() bool {
	return s.valid
}

//
func (s *SlotInfo) IsActive() bool {
	return s.GetAnnotation(AnnotationActive).Bool()
}

// ContainerFileName is the file name used when exporting this slot as part of
// a batch.
func (s *SlotInfo) ContainerFileName() string {
	return fmt.Sprintf("%s-%s.lsdsng", strings.ToLower(s.name), s.version)
}

//
func (s *SlotInfo) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("%d.", s.slot+1)
	}
	ret := fmt.Sprintf("%d. %s.%s %d", s.slot+1, s.name, s.version, s.blocks)
	if !s.valid {
		ret += " ⚠"
	}
	return ret
}

//
func (s *SlotInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Slot        int              `json:"slot"`
		Name        string           `json:"name"`
		Version     string           `json:"version"`
		Blocks      int              `json:"blocks"`
		Valid       bool             `json:"valid"`
		Annotations util.Annotations `json:"annotations,omitempty"`
	}{
		Slot:        s.slot,
		Name:        s.name,
		Version:     s.version,
		Blocks:      s.blocks,
		Valid:       s.valid,
		Annotations: s.Annotations,
	})
}

//
func (s *Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int{
		"total": s.total, "used": s.used, "free": s.Free()})
}
