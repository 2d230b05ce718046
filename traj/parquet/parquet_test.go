/*
 * parquet_test.go, part of trajview.
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

package parquet

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dboateng/trajview"
)

var start = time.Date(2000, 10, 10, 6, 0, 0, 0, time.UTC)

func testSet() *trajview.Set {
	ntra, ntime := 3, 4
	t := trajview.NewTable(ntra, ntime)
	tm := make([]float64, ntra*ntime)
	lon := make([]float64, ntra*ntime)
	p := make([]float64, ntra*ntime)
	for i := 0; i < ntra; i++ {
		for j := 0; j < ntime; j++ {
			tm[i*ntime+j] = trajview.Unix(start.Add(time.Duration(j) * time.Hour))
			lon[i*ntime+j] = 10*float64(i) + 0.25*float64(j)
			p[i*ntime+j] = 850 - 5*float64(j)
		}
	}
	p[5] = math.NaN()
	t.Add(trajview.TimeField, trajview.Time, tm)
	t.Add("lon", trajview.Float, lon)
	t.Add("p", trajview.Float, p)
	s := trajview.NewSet(t)
	s.SetStartDate(start)
	return s
}

func TestRoundTrip(Te *testing.T) {
	s := testSet()
	name := filepath.Join(Te.TempDir(), "traj.parquet")
	if err := Write(s, name); err != nil {
		Te.Fatal(err)
	}
	r, err := Read(name)
	if err != nil {
		Te.Fatal(err)
	}
	ntra, ntime, err := r.Dims()
	if err != nil {
		Te.Fatal(err)
	}
	if ntra != 3 || ntime != 4 {
		Te.Errorf("got (%d, %d), expected (3, 4)", ntra, ntime)
	}
	names := r.FieldNames()
	if len(names) != 3 || names[0] != "time" || names[1] != "lon" || names[2] != "p" {
		Te.Errorf("unexpected fields %v", names)
	}
	if k, _ := r.Kind("time"); k != trajview.Time {
		Te.Errorf("time field read as %v", k)
	}
	if !r.StartDate().Equal(start) {
		Te.Errorf("start date %v, expected %v", r.StartDate(), start)
	}
	for _, n := range names {
		a, _ := s.Column(n)
		b, _ := r.Column(n)
		for i := range a {
			if math.IsNaN(a[i]) != math.IsNaN(b[i]) || (!math.IsNaN(a[i]) && a[i] != b[i]) {
				Te.Errorf("%s[%d]: %v, expected %v", n, i, b[i], a[i])
			}
		}
	}
}

func TestErrors(Te *testing.T) {
	dir := Te.TempDir()
	if _, err := Read(filepath.Join(dir, "none.parquet")); !errors.Is(err, os.ErrNotExist) {
		Te.Errorf("expected os.ErrNotExist, got %v", err)
	}
	bad := filepath.Join(dir, "bad.parquet")
	if err := os.WriteFile(bad, []byte("Reference date 20001010_0000 / Time range 60 min\n"), 0644); err != nil {
		Te.Fatal(err)
	}
	_, err := Read(bad)
	if !errors.Is(err, trajview.ErrMalformed) {
		Te.Errorf("expected ErrMalformed, got %v", err)
	}
	var terr trajview.TrajError
	if !errors.As(err, &terr) || terr.Format() != "parquet" {
		Te.Errorf("error %v does not carry the parquet format", err)
	}
	t := trajview.NewTable(4)
	t.Add("lon", trajview.Float, []float64{1, 2, 3, 4})
	if err := Write(trajview.NewSet(t), filepath.Join(dir, "d.parquet")); !errors.Is(err, trajview.ErrDegenerate) {
		Te.Errorf("expected ErrDegenerate, got %v", err)
	}
}
