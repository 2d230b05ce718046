/*
 * ascii_test.go, part of trajview.
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
 */

package ascii

import (
	"bufio"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dboateng/trajview"
)

var rootdirtest string = "../../test"

var start = time.Date(2000, 10, 10, 0, 0, 0, 0, time.UTC)

func TestRead(Te *testing.T) {
	s, err := Read(rootdirtest + "/lsl_20001010_00.4")
	if err != nil {
		Te.Fatal(err)
	}
	ntra, ntime, err := s.Dims()
	if err != nil {
		Te.Fatal(err)
	}
	if ntra != 3 || ntime != 3 {
		Te.Errorf("got (%d, %d), expected (3, 3)", ntra, ntime)
	}
	names := strings.Join(s.FieldNames(), " ")
	if names != "time lon lat p TH" {
		Te.Errorf("unexpected fields %s", names)
	}
	if !s.StartDate().Equal(start) {
		Te.Errorf("start date %v, expected %v", s.StartDate(), start)
	}
	axis, err := s.TimeAxis()
	if err != nil {
		Te.Fatal(err)
	}
	if !axis[1].Equal(start.Add(30 * time.Minute)) {
		Te.Errorf("second time step is %v", axis[1])
	}
	th, _ := s.Field("TH")
	if !math.IsNaN(th.At(1, 1)) {
		Te.Errorf("missing value not replaced by NaN: %v", th.At(1, 1))
	}
	lon, _ := s.Field("lon")
	if lon.At(2, 1) != 179.8 {
		Te.Errorf("lon(2,1)=%v, expected 179.8", lon.At(2, 1))
	}
	d, _ := s.Duration()
	if d != 60 {
		Te.Errorf("duration %v, expected 60", d)
	}
}

func TestReadHours(Te *testing.T) {
	s, err := Read(rootdirtest+"/lsl_20001010_00.4", Options{Hours: true})
	if err != nil {
		Te.Fatal(err)
	}
	if k, _ := s.Kind("time"); k != trajview.Float {
		Te.Errorf("time should be hours, got kind %v", k)
	}
	tm, _ := s.Column("time")
	if tm[1] != 0.5 || tm[2] != 1 {
		Te.Errorf("times %v, expected 0, 0.5, 1", tm[:3])
	}
	th, _ := s.Column("TH")
	if !math.IsNaN(th[4]) {
		Te.Errorf("default missing value not applied with zero options")
	}
}

func TestReadHeader(Te *testing.T) {
	h, vars, err := ReadHeader(rootdirtest + "/lsl_20001010_00.4")
	if err != nil {
		Te.Fatal(err)
	}
	if !h.Date.Equal(start) || h.Range != 60 {
		Te.Errorf("header %+v", h)
	}
	if len(vars) != 5 || vars[4] != "TH" {
		Te.Errorf("variables %v", vars)
	}
}

func TestHeaderDate(Te *testing.T) {
	d := headerDate(strings.Fields("Reference date 20001010_1230 / Time range 60 min"), "a")
	if !d.Equal(time.Date(2000, 10, 10, 12, 30, 0, 0, time.UTC)) {
		Te.Errorf("got %v", d)
	}
	d = headerDate(strings.Fields("Reference date 20001010 06 / Time range 60 min"), "b")
	if !d.Equal(time.Date(2000, 10, 10, 6, 0, 0, 0, time.UTC)) {
		Te.Errorf("got %v", d)
	}
	d = headerDate(strings.Fields("Reference date unknown"), "c")
	if !d.Equal(defaultDate) {
		Te.Errorf("got %v, expected the default date", d)
	}
	if r := headerRange("Reference date 20001010_1230 / Time range   -2880 min"); r != -2880 {
		Te.Errorf("range %v", r)
	}
}

func TestTimeSteps(Te *testing.T) {
	hours := []float64{0, 0.5, 1, 0, 0.5, 1, 0, 0.5, 1}
	if n := timeSteps(hours); n != 3 {
		Te.Errorf("got %d time steps, expected 3", n)
	}
	back := []float64{0, -6, -12, -18, 0, -6, -12, -18}
	if n := timeSteps(back); n != 4 {
		Te.Errorf("got %d time steps, expected 4", n)
	}
	if n := timeSteps([]float64{0, 0, 0}); n != 1 {
		Te.Errorf("got %d time steps, expected 1", n)
	}
}

func TestRoundTrip(Te *testing.T) {
	s, err := Read(rootdirtest + "/lsl_20001010_00.4")
	if err != nil {
		Te.Fatal(err)
	}
	dir := Te.TempDir()
	for _, name := range []string{"out.4", "out.4.gz", "out.4.zst"} {
		out := filepath.Join(dir, name)
		if err := Write(s, out); err != nil {
			Te.Fatal(err)
		}
		r, err := Read(out)
		if err != nil {
			Te.Fatal(err)
		}
		ntra, ntime, _ := r.Dims()
		if ntra != 3 || ntime != 3 {
			Te.Errorf("%s: got (%d, %d), expected (3, 3)", name, ntra, ntime)
		}
		if !r.StartDate().Equal(start) {
			Te.Errorf("%s: start date %v", name, r.StartDate())
		}
		for _, f := range []string{"time", "lon", "lat"} {
			a, _ := s.Column(f)
			b, _ := r.Column(f)
			for i := range a {
				if math.Abs(a[i]-b[i]) > 5e-4 {
					Te.Errorf("%s: %s[%d] is %v, expected %v", name, f, i, b[i], a[i])
				}
			}
		}
	}
	//the set was not modified by Write
	th, _ := s.Column("TH")
	if !math.IsNaN(th[4]) {
		Te.Errorf("Write modified the set: %v", th[4])
	}
	if strings.Join(s.FieldNames(), " ") != "time lon lat p TH" {
		Te.Errorf("Write modified the fields: %v", s.FieldNames())
	}
}

func TestWriteFormat(Te *testing.T) {
	t := trajview.NewTable(1, 2)
	t.Add("time", trajview.Time, []float64{trajview.Unix(start), trajview.Unix(start.Add(-90 * time.Minute))})
	t.Add("lon", trajview.Float, []float64{1.23456, 2})
	t.Add("lat", trajview.Float, []float64{45, 46})
	t.Add("p", trajview.Float, []float64{850, 900})
	t.Add("QV", trajview.Float, []float64{math.NaN(), 0.5})
	s := trajview.NewSet(t)
	s.SetStartDate(start)
	out := filepath.Join(Te.TempDir(), "format.4")
	if err := Write(s, out, WriteOptions{Digit: 2}); err != nil {
		Te.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	expected := []string{
		"Reference date 20001010_0000 / Time range     -90 min",
		" ",
		"   time      lon     lat     p        QV",
		"----------------------------------------",
		" ",
		"   0.00     1.23   45.00   850 -1000.000",
		"  -1.30     2.00   46.00   900     0.500",
	}
	if len(lines) != len(expected) {
		Te.Fatalf("got %d lines, expected %d: %q", len(lines), len(expected), lines)
	}
	for i := range expected {
		if lines[i] != expected[i] {
			Te.Errorf("line %d is %q, expected %q", i+1, lines[i], expected[i])
		}
	}
}

func TestFullColumns(Te *testing.T) {
	t := trajview.NewTable(1, 2)
	t.Add("time", trajview.Time, []float64{trajview.Unix(start), trajview.Unix(start.Add(time.Hour))})
	t.Add("lon", trajview.Float, []float64{10, 10.5})
	t.Add("lat", trajview.Float, []float64{math.NaN(), 45.25})
	t.Add("p", trajview.Float, []float64{850, 845})
	t.Add("PS", trajview.Float, []float64{101325, 101300})
	s := trajview.NewSet(t)
	s.SetStartDate(start)
	for _, digit := range []int{2, 3} {
		out := filepath.Join(Te.TempDir(), "full.4")
		if err := Write(s, out, WriteOptions{Digit: digit}); err != nil {
			Te.Fatal(err)
		}
		r, err := Read(out)
		if err != nil {
			Te.Fatalf("digit %d: %v", digit, err)
		}
		ntra, ntime, _ := r.Dims()
		if ntra != 1 || ntime != 2 {
			Te.Errorf("digit %d: got (%d, %d), expected (1, 2)", digit, ntra, ntime)
		}
		lat, _ := r.Column("lat")
		if lat[0] != MissingOut || lat[1] != 45.25 {
			Te.Errorf("digit %d: lat %v", digit, lat)
		}
		lon, _ := r.Column("lon")
		if lon[0] != 10 || lon[1] != 10.5 {
			Te.Errorf("digit %d: lon %v", digit, lon)
		}
		p, _ := r.Column("p")
		if p[0] != 850 || p[1] != 845 {
			Te.Errorf("digit %d: p %v", digit, p)
		}
		ps, _ := r.Column("PS")
		if ps[0] != 101325 || ps[1] != 101300 {
			Te.Errorf("digit %d: PS %v", digit, ps)
		}
	}
}

func TestSplitColumns(Te *testing.T) {
	f, ok := splitColumns("   0.00    10.000-1000.000   850101325.000\r", 5)
	if !ok || strings.Join(f, " ") != "0.00 10.000 -1000.000 850 101325.000" {
		Te.Errorf("got %q, %v", f, ok)
	}
	f, ok = splitColumns("   0.00    10.00-1000.00   850101325.000", 5)
	if !ok || strings.Join(f, " ") != "0.00 10.00 -1000.00 850 101325.000" {
		Te.Errorf("got %q, %v", f, ok)
	}
	if _, ok := splitColumns("   0.00    10.000   45.000   850", 5); ok {
		Te.Errorf("a short row should not be split")
	}
}

func TestMissingTime(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "missing.4")
	content := "Reference date 20001010_0000 / Time range      60 min\n \n" +
		"   time       lon      lat     p\n" +
		"---------------------------------\n \n" +
		"   0.00    -5.250   50.125   850\n" +
		"   0.30    -4.875   50.375   843\n" +
		"   1.00    -4.500   50.750   836\n" +
		" \n" +
		"   0.00    10.000   45.000   700\n" +
		"-999.999    10.500   45.250   695\n" +
		"   1.00    11.125   45.500   690\n"
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		Te.Fatal(err)
	}
	s, err := Read(name, Options{Hours: true})
	if err != nil {
		Te.Fatal(err)
	}
	tm, _ := s.Column("time")
	if tm[3] != 0 || !math.IsNaN(tm[4]) || tm[5] != 1 {
		Te.Errorf("times %v, expected 0, NaN, 1 for the second trajectory", tm)
	}
	s, err = Read(name)
	if err != nil {
		Te.Fatal(err)
	}
	tm, _ = s.Column("time")
	if math.IsNaN(tm[4]) {
		Te.Errorf("dates should not be NaN: %v", tm)
	}
}

func TestZeroOptions(Te *testing.T) {
	s, err := Read(rootdirtest+"/lsl_20001010_00.4", Options{})
	if err != nil {
		Te.Fatal(err)
	}
	if k, _ := s.Kind("time"); k != trajview.Time {
		Te.Errorf("zero options should read dates, got kind %v", k)
	}
	th, _ := s.Column("TH")
	if !math.IsNaN(th[4]) {
		Te.Errorf("default missing value not applied with zero options")
	}
}

func TestAppend(Te *testing.T) {
	s, err := Read(rootdirtest + "/lsl_20001010_00.4")
	if err != nil {
		Te.Fatal(err)
	}
	out := filepath.Join(Te.TempDir(), "append.4.gz")
	if err := Write(s, out); err != nil {
		Te.Fatal(err)
	}
	if err := Write(s, out, WriteOptions{Append: true}); err != nil {
		Te.Fatal(err)
	}
	r, err := openReader(out)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	sc := bufio.NewScanner(r)
	headers := 0
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), "Reference date") {
			headers++
		}
	}
	if headers != 2 {
		Te.Errorf("found %d headers in the appended file, expected 2", headers)
	}
}

func TestErrors(Te *testing.T) {
	s, err := Read(rootdirtest + "/lsl_20001010_00.4")
	if err != nil {
		Te.Fatal(err)
	}
	out := filepath.Join(Te.TempDir(), "never.4")
	err = Write(s, out, WriteOptions{Digit: 4})
	if !errors.Is(err, trajview.ErrInvalidArgument) {
		Te.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		Te.Errorf("file created despite the invalid digit")
	}
	var te trajview.TrajError
	if !errors.As(err, &te) || te.Format() != "ascii" {
		Te.Errorf("error does not implement TrajError: %v", err)
	}

	bad := filepath.Join(Te.TempDir(), "bad.4")
	content := "Reference date 20001010_0000 / Time range      60 min\n \n" +
		"   time       lon      lat     p\n" +
		"---------------------------------\n \n" +
		"   0.00    -5.250   50.125   850\n" +
		"   0.30    -4.875   50.375   843\n" +
		"   1.00    -4.500   50.750   836\n" +
		" \n" +
		"   0.00    10.000   45.000   700\n" +
		"   0.30    10.500   45.250   695\n"
	if err := os.WriteFile(bad, []byte(content), 0644); err != nil {
		Te.Fatal(err)
	}
	if _, err := Read(bad); !errors.Is(err, trajview.ErrMalformed) {
		Te.Errorf("expected ErrMalformed for a truncated file, got %v", err)
	}
	if _, err := Read(rootdirtest + "/does_not_exist.4"); !errors.Is(err, os.ErrNotExist) {
		Te.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
