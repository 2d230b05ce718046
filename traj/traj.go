/*
 * traj.go, part of trajview.
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

//Package traj loads and writes sets of trajectories in any of the supported formats:
//LAGRANTO NetCDF, LAGRANTO ASCII (plain, gzip or zstd) and Parquet.
package traj

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dboateng/trajview"
	"github.com/dboateng/trajview/traj/ascii"
	"github.com/dboateng/trajview/traj/netcdf"
	"github.com/dboateng/trajview/traj/parquet"
)

// Format names.
const (
	NetCDF  = "netcdf"
	ASCII   = "ascii"
	Parquet = "parquet"
)

// Options for Load. The zero value reads times as dates with the default
// missing value of each format.
type Options struct {
	Hours   bool     //return the time field as hours since the start date instead of dates.
	Missing float64  //values at (ASCII) or below (NetCDF) this are replaced by NaN. 0 means the format default.
	Unit    string   //unit of the NetCDF time variable. "" reads it from the file.
	Exclude []string //NetCDF variables not to read.
}

//Error is returned by Load when no format accepts a file. It keeps the error
//given by each format.
type Error struct {
	message  string
	filename string
	deco     []string
	causes   []error
}

func (err *Error) Error() string {
	msgs := make([]string, len(err.causes))
	for i, c := range err.causes {
		msgs[i] = c.Error()
	}
	return fmt.Sprintf("trajectory file %s error (%s): %s [%s]", err.filename, strings.Join(err.deco, "/"), err.message, strings.Join(msgs, "; "))
}

//Decorate Adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append([]string{deco}, err.deco...)
	}
	return err.deco
}

//FileName returns the file that could not be read
func (err *Error) FileName() string { return err.filename }

//Format returns "unknown"
func (err *Error) Format() string { return "unknown" }

//Critical returns true
func (err *Error) Critical() bool { return true }

//Unwrap returns ErrUnknownFormat followed by the error of each format, so all of them
//can be checked with errors.Is and errors.As.
func (err *Error) Unwrap() []error {
	return append([]error{trajview.ErrUnknownFormat}, err.causes...)
}

var _ trajview.TrajError = &Error{}

// Load reads the trajectory file name. NetCDF is tried first, then ASCII, then
// Parquet. If no format accepts the file, the returned error wraps
// trajview.ErrUnknownFormat and the error of each format. A file that can't be
// opened gives the error of os.Open.
func Load(name string, opts ...Options) (*trajview.Set, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	f.Close()
	var causes []error
	s, err := netcdf.Read(name, netcdf.Options{Hours: o.Hours, Missing: o.Missing, Unit: o.Unit, Exclude: o.Exclude})
	if err == nil {
		return s, nil
	}
	causes = append(causes, err)
	s, err = ascii.Read(name, ascii.Options{Hours: o.Hours, Missing: o.Missing})
	if err == nil {
		return s, nil
	}
	causes = append(causes, err)
	s, err = parquet.Read(name)
	if err == nil {
		if o.Hours {
			err = toHours(s)
		}
		if err == nil {
			return s, nil
		}
	}
	causes = append(causes, err)
	return nil, &Error{message: "unknown file format", filename: name, deco: []string{"Load"}, causes: causes}
}

// toHours replaces a Time time field with hours since the start date.
func toHours(s *trajview.Set) error {
	if k, err := s.Kind(trajview.TimeField); err != nil || k != trajview.Time {
		return nil
	}
	times, err := s.Times(trajview.TimeField)
	if err != nil {
		return err
	}
	start := s.StartDate()
	hours := make([]float64, len(times))
	for i, t := range times {
		hours[i] = trajview.HoursSince(t, start)
	}
	t := s.Table().Copy()
	for i := range t.Fields {
		if t.Fields[i].Name == trajview.TimeField {
			t.Fields[i].Kind = trajview.Float
			t.Fields[i].Data = hours
		}
	}
	s.SetTable(t)
	return nil
}

// WriteOptions for Write.
type WriteOptions struct {
	Format string //one of netcdf, ascii or parquet. "" picks it from the suffix of the file name.
	Digit  int    //ASCII decimals for lon and lat, 2 or 3. 0 means 3.
	Gzip   bool   //compress ASCII files with gzip.
	Append bool   //append to an ASCII file.
	Unit   string //unit of the NetCDF time variable. "" means hours.
	Single bool   //write NetCDF fields as float.
}

// FormatFor returns the format for the file name according to its suffix:
// .nc, .cdf and .nc4 are NetCDF, .parquet and .pq Parquet, anything else ASCII.
func FormatFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".nc", ".cdf", ".nc4":
		return NetCDF
	case ".parquet", ".pq":
		return Parquet
	}
	return ASCII
}

// Write writes s to the file name in the format given by the options.
func Write(s *trajview.Set, name string, opts ...WriteOptions) error {
	var o WriteOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	format := o.Format
	if format == "" {
		format = FormatFor(name)
	}
	var err error
	switch strings.ToLower(format) {
	case NetCDF:
		err = netcdf.Write(s, name, netcdf.WriteOptions{Unit: o.Unit, Single: o.Single})
	case ASCII:
		err = ascii.Write(s, name, ascii.WriteOptions{Digit: o.Digit, Gzip: o.Gzip, Append: o.Append})
	case Parquet:
		err = parquet.Write(s, name)
	default:
		return errors.Join(trajview.ErrInvalidArgument, fmt.Errorf("traj.Write: unknown format %q", format))
	}
	return trajview.Decorate(err, "traj.Write")
}
