/*
 * traj_test.go, part of trajview.
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

package traj

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dboateng/trajview"
	"github.com/dboateng/trajview/traj/ascii"
	"github.com/dboateng/trajview/traj/netcdf"
)

var rootdirtest string = "../test"

func TestLoadFormats(Te *testing.T) {
	s, err := Load(filepath.Join(rootdirtest, "lsl_20001010_00.4"))
	if err != nil {
		Te.Fatal(err)
	}
	ntra, ntime, _ := s.Dims()
	if ntra != 3 || ntime != 3 {
		Te.Fatalf("got (%d, %d), expected (3, 3)", ntra, ntime)
	}
	dir := Te.TempDir()
	for _, name := range []string{"out.nc", "out.parquet", "out.4.gz"} {
		out := filepath.Join(dir, name)
		if err := Write(s, out); err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		r, err := Load(out)
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		if n, _ := r.NTra(); n != 3 {
			Te.Errorf("%s: %d trajectories, expected 3", name, n)
		}
		if !r.StartDate().Equal(s.StartDate()) {
			Te.Errorf("%s: start date %v, expected %v", name, r.StartDate(), s.StartDate())
		}
		h, err := Load(out, Options{Hours: true})
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		if k, _ := h.Kind(trajview.TimeField); k != trajview.Float {
			Te.Errorf("%s: time field is %v with Hours", name, k)
		}
		tm, _ := h.Field(trajview.TimeField)
		if tm.At(1, 2) != 1 {
			Te.Errorf("%s: time(1,2)=%v, expected 1 hour", name, tm.At(1, 2))
		}
	}
}

func TestUnknownFormat(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "junk.txt")
	if err := os.WriteFile(name, []byte("nothing to see here\n"), 0644); err != nil {
		Te.Fatal(err)
	}
	_, err := Load(name)
	if !errors.Is(err, trajview.ErrUnknownFormat) {
		Te.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	var aerr *ascii.Error
	if !errors.As(err, &aerr) {
		Te.Errorf("the ASCII cause is lost: %v", err)
	}
	var nerr *netcdf.Error
	if !errors.As(err, &nerr) {
		Te.Errorf("the NetCDF cause is lost: %v", err)
	}
	if _, err := Load(filepath.Join(Te.TempDir(), "none")); !errors.Is(err, os.ErrNotExist) {
		Te.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestFormatFor(Te *testing.T) {
	cases := map[string]string{"a.nc": NetCDF, "b.NC4": NetCDF, "c.parquet": Parquet, "lsl_20001010_00.4": ASCII, "d.4.gz": ASCII}
	for name, f := range cases {
		if got := FormatFor(name); got != f {
			Te.Errorf("FormatFor(%s)=%s, expected %s", name, got, f)
		}
	}
	s, _ := Load(filepath.Join(rootdirtest, "lsl_20001010_00.4"))
	if err := Write(s, filepath.Join(Te.TempDir(), "x"), WriteOptions{Format: "grib"}); !errors.Is(err, trajview.ErrInvalidArgument) {
		Te.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
