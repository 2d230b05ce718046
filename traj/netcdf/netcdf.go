/*
 * netcdf.go, part of trajview.
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

package netcdf

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/dboateng/trajview"
	"github.com/sirupsen/logrus"
)

// Dimension names accepted for the trajectories and for the time steps, by priority.
var (
	TrajDims = []string{"id", "ntra", "dimx_lon"}
	TimeDims = []string{"time", "ntim"}
)

// renamed variables
var rename = map[string]string{"latitude": "lat", "longitude": "lon"}

// Options for Read. The zero value reads the time field as dates and uses
// -999 as missing value, so a missing value of exactly 0 can't be set.
type Options struct {
	Hours   bool        //return the time field as hours since the start date instead of dates (Time kind).
	Missing float64     //values less or equal to this are replaced by NaN. 0 means -999.
	Unit    string      //unit of the time variable: hours, seconds or hhmm. "" reads it from the units attribute, or assumes hours.
	Exclude []string    //variables not to read. BASEDATE is never read as a field.
	Dates   []time.Time //if not nil, only the time steps at these dates are read.
	Indices []int       //if not nil, only these trajectories are read.
}

// DefaultOptions returns the options used when Read gets none.
func DefaultOptions() Options {
	return Options{Missing: -999}
}

// Read loads the trajectories in the NetCDF file name. The start date of the
// returned set is the one of the file, moved by the first time value when it is
// not 0.
func Read(name string, opts ...Options) (set *trajview.Set, err error) {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
		if o.Missing == 0 {
			o.Missing = -999
		}
	}
	if o.Unit != "" && !validUnit(o.Unit) {
		return nil, newError(trajview.ErrInvalidArgument, name, "Read", "unit must be one of hours, seconds or hhmm, not %s", o.Unit)
	}
	if o.Indices != nil && len(o.Indices) == 0 {
		return nil, newError(trajview.ErrInvalidArgument, name, "Read", "empty list of trajectory indices")
	}
	fin, err := os.Open(name)
	if err != nil {
		return nil, newError(err, name, "Read", "%s", err.Error())
	}
	defer fin.Close()
	defer errRecover(&err, name, "Read")
	f, err := open(fin)
	if err != nil {
		return nil, newError(trajview.ErrMalformed, name, "Read", "not a NetCDF 3 file: %s", err.Error())
	}
	dims := f.dimLengths()
	trajdim, ok := pick(TrajDims, dims)
	if !ok {
		return nil, newError(trajview.ErrDimensionNotFound, name, "Read", "can't read the number of trajectories, not one of (%s)", strings.Join(TrajDims, " "))
	}
	timedim, ok := pick(TimeDims, dims)
	if !ok {
		return nil, newError(trajview.ErrDimensionNotFound, name, "Read", "can't read the number of time steps, not one of (%s)", strings.Join(TimeDims, " "))
	}
	ntra, ntime := dims[trajdim], dims[timedim]

	start, err := startDate(f)
	if err != nil {
		return nil, newError(trajview.ErrMalformed, name, "Read", "%s", err.Error())
	}
	unit := o.Unit
	if unit == "" {
		unit = unitFromAttribute(f.Header, trajview.TimeField)
	}
	if unit == "" {
		unit = Hours
	}
	rawtimes, err := f.readAxis(trajview.TimeField, timedim, ntime)
	if err != nil {
		return nil, newError(trajview.ErrMalformed, name, "Read", "time: %s", err.Error())
	}
	hours := make([]float64, ntime)
	dates := make([]time.Time, ntime)
	for j, v := range rawtimes {
		hours[j] = toHours(v, unit)
		dates[j] = trajview.AddHours(start, hours[j])
	}

	steps, err := selectDates(dates, o.Dates)
	if err != nil {
		return nil, newError(trajview.ErrSelectionNotFound, name, "Read", "%s", err.Error())
	}
	trajs := o.Indices
	if trajs == nil {
		trajs = make([]int, ntra)
		for i := range trajs {
			trajs[i] = i
		}
	}
	for _, v := range trajs {
		if v < 0 || v >= ntra {
			return nil, newError(trajview.ErrInvalidArgument, name, "Read", "trajectory index %d out of range [0, %d)", v, ntra)
		}
	}

	t := trajview.NewTable(len(trajs), len(steps))
	tcol := make([]float64, 0, len(trajs)*len(steps))
	kind := trajview.Float
	if !o.Hours {
		kind = trajview.Time
	}
	for range trajs {
		for _, j := range steps {
			if !o.Hours {
				tcol = append(tcol, trajview.Unix(dates[j]))
			} else {
				tcol = append(tcol, hours[j])
			}
		}
	}
	t.Add(trajview.TimeField, kind, tcol)

	exclude := map[string]bool{"BASEDATE": true, trajview.TimeField: true}
	for _, v := range o.Exclude {
		exclude[v] = true
	}
	for _, v := range f.Header.Variables() {
		if exclude[v] {
			continue
		}
		data, err := f.readField(v, trajdim, timedim, trajs, steps)
		if err != nil {
			trajview.Log.WithFields(logrus.Fields{"file": name, "variable": v}).Warnf("variable skipped: %s", err)
			continue
		}
		for i, d := range data {
			if d <= o.Missing {
				data[i] = math.NaN()
			}
		}
		fname := v
		if r, ok := rename[v]; ok {
			fname = r
		}
		if err := t.Add(fname, trajview.Float, data); err != nil {
			trajview.Log.WithFields(logrus.Fields{"file": name, "variable": v}).Warnf("variable skipped: %s", err)
		}
	}
	set = trajview.NewSet(t)
	if ntime > 0 && rawtimes[0] != 0 {
		start = trajview.AddHours(start, hours[0])
	}
	set.SetStartDate(start)
	return set, nil
}

// pick returns the first of names found in dims.
func pick(names []string, dims map[string]int) (string, bool) {
	for _, n := range names {
		if _, ok := dims[n]; ok {
			return n, true
		}
	}
	return "", false
}

// selectDates returns the indices of the time steps to read: all of them if
// wanted is nil, otherwise those matching one of the wanted dates, in order.
// It fails if none of the wanted dates is found.
func selectDates(dates, wanted []time.Time) ([]int, error) {
	if wanted == nil {
		ret := make([]int, len(dates))
		for i := range ret {
			ret[i] = i
		}
		return ret, nil
	}
	var ret []int
	for i, d := range dates {
		for _, w := range wanted {
			if d.Equal(w) {
				ret = append(ret, i)
				break
			}
		}
	}
	if len(ret) == 0 {
		s := make([]string, len(wanted))
		for i, w := range wanted {
			s[i] = w.Format("2006-01-02 15:04:05")
		}
		return nil, fmt.Errorf("%s not found in time", strings.Join(s, ","))
	}
	sort.Ints(ret)
	return ret, nil
}

// ncfile is an open NetCDF file and its number of records.
type ncfile struct {
	*cdf.File
	nrecs int
}

func open(fin *os.File) (*ncfile, error) {
	f, err := cdf.Open(fin)
	if err != nil {
		return nil, err
	}
	ret := &ncfile{File: f}
	if info, err := fin.Stat(); err == nil {
		ret.nrecs = int(f.Header.NumRecs(info.Size()))
	}
	return ret, nil
}

// dimLengths returns the length of every dimension. The record dimension
// gets the number of records.
func (f *ncfile) dimLengths() map[string]int {
	names := f.Header.Dimensions("")
	lengths := f.Header.Lengths("")
	ret := make(map[string]int, len(names))
	for i, n := range names {
		ret[n] = lengths[i]
		if lengths[i] == 0 {
			ret[n] = f.nrecs
		}
	}
	return ret
}

// lengths returns the dimension lengths of the variable v, with the
// number of records for the record dimension.
func (f *ncfile) lengths(v string) []int {
	l := f.Header.Lengths(v)
	ret := make([]int, len(l))
	copy(ret, l)
	if f.Header.IsRecordVariable(v) {
		ret[0] = f.nrecs
	}
	return ret
}

// read returns all the values of the variable v, in row-major order.
func (f *ncfile) read(v string) ([]float64, error) {
	l := f.lengths(v)
	n := 1
	for _, d := range l {
		n *= d
	}
	if n == 0 {
		return nil, nil
	}
	var r cdf.Reader
	var buf interface{}
	if f.Header.IsRecordVariable(v) {
		end := make([]int, len(l))
		for i, d := range l {
			end[i] = d - 1
		}
		r = f.Reader(v, nil, end)
		buf = r.Zero(n)
	} else {
		r = f.Reader(v, nil, nil)
		buf = r.Zero(-1)
	}
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	return toFloat64(buf)
}

func toFloat64(buf interface{}) ([]float64, error) {
	var ret []float64
	switch b := buf.(type) {
	case []float64:
		ret = b
	case []float32:
		ret = make([]float64, len(b))
		for i, v := range b {
			ret[i] = float64(v)
		}
	case []int32:
		ret = make([]float64, len(b))
		for i, v := range b {
			ret[i] = float64(v)
		}
	case []int16:
		ret = make([]float64, len(b))
		for i, v := range b {
			ret[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("unsupported type %T", buf)
	}
	return ret, nil
}

// layout locates the dimensions called dim1 and dim2 (if not "") among the
// dimensions of v and returns their strides. Every other dimension must have
// length 1.
func (f *ncfile) layout(v, dim1, dim2 string) (stride1, stride2 int, err error) {
	names := f.Header.Dimensions(v)
	l := f.lengths(v)
	stride1, stride2 = -1, -1
	stride := 1
	for i := len(names) - 1; i >= 0; i-- {
		switch {
		case names[i] == dim1:
			stride1 = stride
		case dim2 != "" && names[i] == dim2:
			stride2 = stride
		case l[i] != 1:
			return 0, 0, fmt.Errorf("dimension %s has length %d", names[i], l[i])
		}
		stride *= l[i]
	}
	if stride1 < 0 {
		return 0, 0, fmt.Errorf("no %s dimension among %v", dim1, names)
	}
	if dim2 != "" && stride2 < 0 {
		return 0, 0, fmt.Errorf("no %s dimension among %v", dim2, names)
	}
	return stride1, stride2, nil
}

// readAxis returns the n values of the variable v along the dimension dim.
func (f *ncfile) readAxis(v, dim string, n int) ([]float64, error) {
	if f.Header.Lengths(v) == nil {
		return nil, fmt.Errorf("no variable %s", v)
	}
	stride, _, err := f.layout(v, dim, "")
	if err != nil {
		return nil, err
	}
	data, err := f.read(v)
	if err != nil {
		return nil, err
	}
	ret := make([]float64, n)
	for j := range ret {
		ret[j] = data[j*stride]
	}
	return ret, nil
}

// readField returns the values of the variable v for the given trajectories
// and time steps, trajectory-major.
func (f *ncfile) readField(v, trajdim, timedim string, trajs, steps []int) ([]float64, error) {
	trajstride, timestride, err := f.layout(v, trajdim, timedim)
	if err != nil {
		return nil, err
	}
	data, err := f.read(v)
	if err != nil {
		return nil, err
	}
	ret := make([]float64, 0, len(trajs)*len(steps))
	for _, i := range trajs {
		for _, j := range steps {
			ret = append(ret, data[i*trajstride+j*timestride])
		}
	}
	return ret, nil
}
