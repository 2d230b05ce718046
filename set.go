/*
 * set.go, part of trajview.
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
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// defaultStart is the start date of sets without a start date
// and without a Time field.
var defaultStart = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Set is a set of trajectories: a table of shape (ntra, ntime) where each
// row is one trajectory and each column one time step, plus a start date.
// A Set owns its table.
type Set struct {
	t        *Table
	start    time.Time
	hasStart bool
}

// NewSet wraps a table. No validation is performed, any shape is accepted.
// A nil table gives an empty Set.
func NewSet(t *Table) *Set {
	return &Set{t: t}
}

// Table returns the table backing the set. It is not a copy.
func (S *Set) Table() *Table {
	return S.t
}

// SetTable replaces the table backing the set.
func (S *Set) SetTable(t *Table) {
	S.t = t
}

// SetStartDate records the date marking t=0 for the trajectories.
func (S *Set) SetStartDate(t time.Time) {
	S.start = t
	S.hasStart = true
}

// StartDate returns the recorded start date. If none was recorded, it returns
// the first time value when the time field holds dates, or 1900-01-01 otherwise.
func (S *Set) StartDate() time.Time {
	if S.hasStart {
		return S.start
	}
	if init, err := S.Initial(); err == nil {
		return init
	}
	return defaultStart
}

// Initial returns the first time of the trajectories. It fails if the
// time field does not hold dates.
func (S *Set) Initial() (time.Time, error) {
	col, err := S.Column(TimeField)
	if err != nil {
		return time.Time{}, Decorate(err, "Initial")
	}
	if k, _ := S.Kind(TimeField); k != Time || len(col) == 0 {
		return time.Time{}, newSetError(ErrInvalidArgument, "Initial", "the time field does not hold dates")
	}
	return FromUnix(col[0]), nil
}

// Len returns the length of the first dimension of the table
// (the number of trajectories of a well formed set).
func (S *Set) Len() int {
	if S.t == nil || len(S.t.Shape) == 0 {
		return 0
	}
	return S.t.Shape[0]
}

// Empty returns true if the set holds no table.
func (S *Set) Empty() bool {
	return S.t == nil
}

// FieldNames returns the names of the fields, in insertion order.
func (S *Set) FieldNames() []string {
	if S.t == nil {
		return nil
	}
	ret := make([]string, len(S.t.Fields))
	for i, f := range S.t.Fields {
		ret[i] = f.Name
	}
	return ret
}

// HasField returns true if the set contains a field called name.
func (S *Set) HasField(name string) bool {
	return S.t != nil && S.t.index(name) >= 0
}

// Kind returns the kind of the field called name.
func (S *Set) Kind(name string) (Kind, error) {
	f, err := S.field(name, "Kind")
	if err != nil {
		return Float, err
	}
	return f.Kind, nil
}

func (S *Set) field(name, caller string) (*Field, error) {
	if S.t == nil {
		return nil, newSetError(ErrUnknownField, caller, "empty set has no field %s", name)
	}
	i := S.t.index(name)
	if i < 0 {
		return nil, newSetError(ErrUnknownField, caller, "no field %s, available: %s", name, strings.Join(S.FieldNames(), "/"))
	}
	return &S.t.Fields[i], nil
}

// Dims returns the number of trajectories and of time steps.
// It fails with ErrDegenerate if the table has fewer than 2 dimensions.
func (S *Set) Dims() (ntra, ntime int, err error) {
	if S.t == nil || len(S.t.Shape) < 2 {
		Log.WithFields(logrus.Fields{"shape": S.shape()}).Warn("Be careful with the dimensions, you may want to change the shape to shape+(1) or (1)+shape")
		return 0, 0, newSetError(ErrDegenerate, "Dims", "shape %v", S.shape())
	}
	return S.t.Shape[0], S.t.Shape[1], nil
}

func (S *Set) shape() []int {
	if S.t == nil {
		return nil
	}
	return S.t.Shape
}

// NTra returns the number of trajectories.
func (S *Set) NTra() (int, error) {
	n, _, err := S.Dims()
	return n, err
}

// NTime returns the number of time steps.
func (S *Set) NTime() (int, error) {
	_, n, err := S.Dims()
	return n, err
}

// Duration returns the time span of the trajectories in minutes, measured on the
// first trajectory. A Float time field is taken to be in hours.
func (S *Set) Duration() (float64, error) {
	_, ntime, err := S.Dims()
	if err != nil {
		return 0, Decorate(err, "Duration")
	}
	f, err := S.field(TimeField, "Duration")
	if err != nil {
		return 0, err
	}
	if ntime == 0 || len(f.Data) == 0 {
		return 0, nil
	}
	delta := f.Data[ntime-1] - f.Data[0]
	if f.Kind == Time {
		return delta / 60, nil
	}
	return delta * 60, nil
}

// Column returns the raw values of the field called name. The slice is shared
// with the set.
func (S *Set) Column(name string) ([]float64, error) {
	f, err := S.field(name, "Column")
	if err != nil {
		return nil, err
	}
	return f.Data, nil
}

// Field returns a (ntra, ntime) view of the field called name. The view shares
// its data with the set, so changes to it are seen by the set.
func (S *Set) Field(name string) (*mat.Dense, error) {
	ntra, ntime, err := S.Dims()
	if err != nil {
		return nil, Decorate(err, "Field")
	}
	f, err := S.field(name, "Field")
	if err != nil {
		return nil, err
	}
	if ntra == 0 || ntime == 0 {
		return nil, newSetError(ErrShape, "Field", "empty table (%d, %d)", ntra, ntime)
	}
	return mat.NewDense(ntra, ntime, f.Data), nil
}

// TimeAxis returns the dates shared by all the trajectories, read from the
// first one. The time field must hold dates.
func (S *Set) TimeAxis() ([]time.Time, error) {
	_, ntime, err := S.Dims()
	if err != nil {
		return nil, Decorate(err, "TimeAxis")
	}
	f, err := S.field(TimeField, "TimeAxis")
	if err != nil {
		return nil, err
	}
	if f.Kind != Time {
		return nil, newSetError(ErrInvalidArgument, "TimeAxis", "the time field does not hold dates")
	}
	ret := make([]time.Time, ntime)
	for i := range ret {
		ret[i] = FromUnix(f.Data[i])
	}
	return ret, nil
}

// Times decodes every value of the Time field called name. NaN values
// give the zero time.
func (S *Set) Times(name string) ([]time.Time, error) {
	f, err := S.field(name, "Times")
	if err != nil {
		return nil, err
	}
	if f.Kind != Time {
		return nil, newSetError(ErrInvalidArgument, "Times", "field %s does not hold dates", name)
	}
	ret := make([]time.Time, len(f.Data))
	for i, v := range f.Data {
		if math.IsNaN(v) {
			continue
		}
		ret[i] = FromUnix(v)
	}
	return ret, nil
}

// SetField assigns m, which must be (ntra, ntime), to the field called name.
// An existing field is overwritten in place, keeping its kind. An unknown name
// adds a Float field at the end of the field list; the set then gets a new table
// with all the previous fields copied, so views obtained earlier are not updated.
func (S *Set) SetField(name string, m mat.Matrix) error {
	ntra, ntime, err := S.Dims()
	if err != nil {
		return Decorate(err, "SetField")
	}
	r, c := m.Dims()
	if r != ntra || c != ntime {
		return newSetError(ErrShape, "SetField", "field %s is (%d, %d), set is (%d, %d)", name, r, c, ntra, ntime)
	}
	data := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = m.At(i, j)
		}
	}
	return Decorate(S.setColumn(name, Float, data), "SetField")
}

// SetColumn is like SetField, but takes row-major data and, for new fields,
// a kind.
func (S *Set) SetColumn(name string, kind Kind, data []float64) error {
	return Decorate(S.setColumn(name, kind, data), "SetColumn")
}

func (S *Set) setColumn(name string, kind Kind, data []float64) error {
	if S.t == nil {
		return newSetError(ErrDegenerate, "", "empty set")
	}
	if len(data) != S.t.Size() {
		return newSetError(ErrShape, "", "field %s has %d values, set holds %d", name, len(data), S.t.Size())
	}
	if i := S.t.index(name); i >= 0 {
		copy(S.t.Fields[i].Data, data)
		return nil
	}
	nt := S.t.Copy()
	d := make([]float64, len(data))
	copy(d, data)
	nt.Fields = append(nt.Fields, Field{Name: name, Kind: kind, Data: d})
	S.t = nt
	return nil
}

// Select returns a new set with copies of the trajectories in indices, in
// the given order.
func (S *Set) Select(indices []int) (*Set, error) {
	ntra, ntime, err := S.Dims()
	if err != nil {
		return nil, Decorate(err, "Select")
	}
	for _, v := range indices {
		if v < 0 || v >= ntra {
			return nil, newSetError(ErrInvalidArgument, "Select", "index %d out of range [0, %d)", v, ntra)
		}
	}
	t := NewTable(len(indices), ntime)
	for _, f := range S.t.Fields {
		d := make([]float64, 0, len(indices)*ntime)
		for _, v := range indices {
			d = append(d, f.Data[v*ntime:(v+1)*ntime]...)
		}
		t.Fields = append(t.Fields, Field{Name: f.Name, Kind: f.Kind, Data: d})
	}
	ret := NewSet(t)
	ret.start, ret.hasStart = S.start, S.hasStart
	return ret, nil
}

func (S *Set) String() string {
	if S.t == nil {
		return "Empty trajectories container.\nHint: use traj.Load to load data"
	}
	ntra, ntime, err := S.Dims()
	if err != nil {
		return fmt.Sprintf("Trajectories container with shape %v.\nAvailable fields: %s", S.t.Shape, strings.Join(S.FieldNames(), "/"))
	}
	dur, err := S.Duration()
	if err != nil {
		dur = math.NaN()
	}
	return fmt.Sprintf("%d trajectories with %d time steps.\nAvailable fields: %s\ntotal duration: %g minutes",
		ntra, ntime, strings.Join(S.FieldNames(), "/"), dur)
}
