/*
 * write.go, part of trajview.
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
	"io"
	"os"
	"time"

	"github.com/ctessum/cdf"
	"github.com/dboateng/trajview"
)

// WriteOptions for Write.
type WriteOptions struct {
	Unit    string   //unit of the time variable: hours, seconds or hhmm. "" means hours.
	Exclude []string //fields not to write.
	Single  bool     //write the fields as float instead of double.
}

// Write writes the set to the file name as a NetCDF 3 classic file, with the
// dimensions ntra and ntim. Each field other than time is stored as a (ntim, ntra)
// variable. A Float time field is taken to be in hours since the start date.
func Write(s *trajview.Set, name string, opts ...WriteOptions) (err error) {
	var o WriteOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Unit == "" {
		o.Unit = Hours
	}
	if !validUnit(o.Unit) {
		return newError(trajview.ErrInvalidArgument, name, "Write", "unit must be one of hours, seconds or hhmm, not %s", o.Unit)
	}
	ntra, ntime, err := s.Dims()
	if err != nil {
		return trajview.Decorate(err, "netcdf.Write")
	}
	if ntra == 0 || ntime == 0 {
		return newError(trajview.ErrShape, name, "Write", "can't write an empty set (%d, %d)", ntra, ntime)
	}
	if !s.HasField(trajview.TimeField) {
		return newError(trajview.ErrUnknownField, name, "Write", "the set has no %s field", trajview.TimeField)
	}
	exclude := map[string]bool{trajview.TimeField: true}
	for _, v := range o.Exclude {
		exclude[v] = true
	}
	var fields []string
	for _, v := range s.FieldNames() {
		if exclude[v] {
			continue
		}
		if v == "ntra" || v == "ntim" {
			return newError(trajview.ErrInvalidArgument, name, "Write", "field name %s is used by a dimension", v)
		}
		fields = append(fields, v)
	}

	start := s.StartDate()
	shift := start.Second()
	start = start.Add(-time.Duration(shift) * time.Second)
	times, units, err := encodeTimes(s, start, shift, o.Unit)
	if err != nil {
		return trajview.Decorate(err, "netcdf.Write")
	}
	duration, _ := s.Duration()

	defer errRecover(&err, name, "Write")
	h := cdf.NewHeader([]string{"ntra", "ntim"}, []int{ntra, ntime})
	h.AddAttribute("", "duration", []int32{int32(duration)})
	h.AddAttribute("", "pollon", []float64{0})
	h.AddAttribute("", "pollat", []float64{90})
	h.AddAttribute("", "ref_year", []int32{int32(start.Year())})
	h.AddAttribute("", "ref_month", []int32{int32(start.Month())})
	h.AddAttribute("", "ref_day", []int32{int32(start.Day())})
	h.AddAttribute("", "ref_hour", []int32{int32(start.Hour())})
	h.AddAttribute("", "ref_min", []int32{int32(start.Minute())})
	h.AddVariable(trajview.TimeField, []string{"ntim"}, []float64{0})
	if units != "" {
		h.AddAttribute(trajview.TimeField, "units", units)
	}
	for _, v := range fields {
		if o.Single {
			h.AddVariable(v, []string{"ntim", "ntra"}, []float32{0})
		} else {
			h.AddVariable(v, []string{"ntim", "ntra"}, []float64{0})
		}
	}
	h.Define()

	fout, err := os.Create(name)
	if err != nil {
		return newError(err, name, "Write", "%s", err.Error())
	}
	defer func() {
		if err2 := fout.Close(); err == nil && err2 != nil {
			err = newError(err2, name, "Write", "%s", err2.Error())
		}
	}()
	f, err := cdf.Create(fout, h)
	if err != nil {
		return newError(err, name, "Write", "%s", err.Error())
	}
	if err := writeVar(f, trajview.TimeField, times, len(times)); err != nil {
		return newError(err, name, "Write", "time: %s", err.Error())
	}
	for _, v := range fields {
		col, _ := s.Column(v)
		if err := writeField(f, v, col, ntra, ntime, o.Single); err != nil {
			return newError(err, name, "Write", "%s: %s", v, err.Error())
		}
	}
	return nil
}

// writeField writes the trajectory-major col as a time-major variable.
func writeField(f *cdf.File, v string, col []float64, ntra, ntime int, single bool) error {
	var data interface{}
	if single {
		d := make([]float32, len(col))
		for i := 0; i < ntra; i++ {
			for j := 0; j < ntime; j++ {
				d[j*ntra+i] = float32(col[i*ntime+j])
			}
		}
		data = d
	} else {
		d := make([]float64, len(col))
		for i := 0; i < ntra; i++ {
			for j := 0; j < ntime; j++ {
				d[j*ntra+i] = col[i*ntime+j]
			}
		}
		data = d
	}
	return writeVar(f, v, data, len(col))
}

// writeVar writes the n values in data to the non-record variable v.
// The end corner is one past the last element, so a complete write
// does not end with io.EOF.
func writeVar(f *cdf.File, v string, data interface{}, n int) error {
	end := f.Header.Lengths(v)
	w := f.Writer(v, make([]int, len(end)), end)
	if w == nil {
		return fmt.Errorf("no variable %s in the header", v)
	}
	nw, err := w.Write(data)
	if err == io.EOF && nw == n {
		return nil
	}
	if err == nil && nw != n {
		return fmt.Errorf("%d of %d values written", nw, n)
	}
	return err
}
