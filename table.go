/*
 * table.go, part of trajview.
 *
 *
 * Copyright 2022 The trajview Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package trajview

import (
	"math"
	"time"
)

// Kind is the scalar type of a field.
type Kind int

const (
	Float Kind = iota //plain floating point
	Time              //seconds since the Unix epoch, second resolution
)

func (k Kind) String() string {
	if k == Time {
		return "time"
	}
	return "float"
}

// TimeField is the name of the field holding the time axis.
const TimeField = "time"

// Field is one named column of a Table. Data is row-major
// (trajectory-outer) and holds prod(Shape) values.
type Field struct {
	Name string
	Kind Kind
	Data []float64
}

// Table is a table of named fields sharing one shape. For trajectories the
// shape is (ntra, ntime). The order of Fields is the insertion order.
type Table struct {
	Shape  []int
	Fields []Field
}

// NewTable returns an empty table with the given shape.
func NewTable(shape ...int) *Table {
	s := make([]int, len(shape))
	copy(s, shape)
	return &Table{Shape: s}
}

// Size returns the number of values in each field.
func (t *Table) Size() int {
	if len(t.Shape) == 0 {
		return 0
	}
	n := 1
	for _, v := range t.Shape {
		n *= v
	}
	return n
}

func (t *Table) index(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Add appends a field to the table. It fails if the name is already used
// or if data does not have the size of the table.
func (t *Table) Add(name string, kind Kind, data []float64) error {
	if t.index(name) >= 0 {
		return newSetError(ErrInvalidArgument, "Table.Add", "field %s already present", name)
	}
	if len(data) != t.Size() {
		return newSetError(ErrShape, "Table.Add", "field %s has %d values, table holds %d", name, len(data), t.Size())
	}
	t.Fields = append(t.Fields, Field{Name: name, Kind: kind, Data: data})
	return nil
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	ret := NewTable(t.Shape...)
	ret.Fields = make([]Field, len(t.Fields))
	for i, f := range t.Fields {
		d := make([]float64, len(f.Data))
		copy(d, f.Data)
		ret.Fields[i] = Field{Name: f.Name, Kind: f.Kind, Data: d}
	}
	return ret
}

// Unix converts t to the representation used by Time fields.
func Unix(t time.Time) float64 {
	return float64(t.Unix())
}

// FromUnix converts a Time field value to a time.Time, in UTC.
// NaN gives the zero time.
func FromUnix(v float64) time.Time {
	if math.IsNaN(v) {
		return time.Time{}
	}
	return time.Unix(int64(math.Round(v)), 0).UTC()
}
