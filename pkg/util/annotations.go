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
	"fmt"
)

//
func NewAnnotation(key string, value interface{}) *Annotation {
	return &Annotation{key: key, value: value}
}

//
type Annotation struct {
	key   string
	value interface{}
}

//
func (a *Annotation) Key() string {
	if a == nil {
		return ""
	}
	return a.key
}

//
func (a *Annotation) IsBool() bool {
	if a == nil {
		return false
	}
	_, ok := a.value.(bool)
	return ok
}

//
func (a *Annotation) Bool() bool {
	if a == nil {
		return false
	}
	if v, ok := a.value.(bool); ok {
		return v
	}
	return false
}

//
func (a *Annotation) IsInt() bool {
	if a == nil {
		return false
	}
	_, ok := a.value.(int)
	return ok
}

//
func (a *Annotation) Int() int {
	if a == nil {
		return 0
	}
	if v, ok := a.value.(int); ok {
		return v
	}
	return 0
}

//
func (a *Annotation) IsString() bool {
	if a == nil {
		return false
	}
	_, ok := a.value.(string)
	return ok
}

// String returns the annotation value rendered as text, or an empty string
// for a nil annotation.
func (a *Annotation) String() string {
	if a == nil {
		return ""
	}
	if v, ok := a.value.(string); ok {
		return v
	}
	return fmt.Sprintf("%v", a.value)
}

//
func (a *Annotation) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// Annotations is a set of annotations, keyed by annotation key.
type Annotations map[string]*Annotation

//
func (a *Annotations) Annotate(key string, value interface{}) {
	if *a == nil {
		*a = make(Annotations)
	}
	(*a)[key] = NewAnnotation(key, value)
}

// GetAnnotation returns the annotation for key, or nil if there is none.
func (a Annotations) GetAnnotation(key string) *Annotation {
	return a[key]
}

//
func (a Annotations) HasAnnotation(key string) bool {
	_, ok := a[key]
	return ok
}
