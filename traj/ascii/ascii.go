/*
 * ascii.go, part of trajview.
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

package ascii

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dboateng/trajview"
	"github.com/sirupsen/logrus"
)

// Sentinel written in place of missing values.
const MissingOut = -1000.0

// Options for Read. The zero value reads the time field as dates and
// uses -999.999 as missing value, so a missing value of exactly 0 can't
// be set.
type Options struct {
	Hours   bool    //return the time field as hours since the start date instead of dates (Time kind).
	Missing float64 //values equal to this are replaced by NaN. 0 means -999.999.
	Gzip    bool    //kept for compatibility, compression is detected from the content.
}

// DefaultOptions returns the options used when Read gets none.
func DefaultOptions() Options {
	return Options{Missing: -999.999}
}

// WriteOptions for Write.
type WriteOptions struct {
	Digit  int  //decimals for lon and lat, 2 or 3. 0 means 3.
	Gzip   bool //compress with gzip, whatever the suffix of the file.
	Append bool //append to the file instead of overwriting it.
}

const maxLine = 1024 * 1024

// Read loads the trajectories in the LAGRANTO ASCII file name. The returned set
// has shape (ntra, ntime) and the start date given in the header. Times in hh.mm
// are converted to dates, or to fractional hours with the Hours option.
func Read(name string, opts ...Options) (*trajview.Set, error) {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
		if o.Missing == 0 {
			o.Missing = -999.999
		}
	}
	r, err := openReader(name)
	if err != nil {
		return nil, newError(err, name, "Read", "%s", err.Error())
	}
	defer r.Close()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	h, vars, err := readHeader(sc, name)
	if err != nil {
		return nil, trajview.Decorate(err, "Read")
	}
	timecol := -1
	for i, v := range vars {
		if v == trajview.TimeField {
			timecol = i
			break
		}
	}
	if timecol < 0 {
		return nil, newError(trajview.ErrMalformed, name, "Read", "no time column among %v", vars)
	}
	cols := make([][]float64, len(vars))
	line := 4
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(vars) {
			var ok bool
			if fields, ok = splitColumns(sc.Text(), len(vars)); !ok {
				return nil, newError(trajview.ErrMalformed, name, "Read", "line %d has %d values, expected %d", line, len(strings.Fields(sc.Text())), len(vars))
			}
		}
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err == nil && i == timecol && !(o.Hours && isMissing(v, o.Missing)) {
				v, err = trajview.ParseHHMM(f)
			}
			if err != nil {
				return nil, newError(trajview.ErrMalformed, name, "Read", "line %d, column %s: %s", line, vars[i], err.Error())
			}
			if (i != timecol || o.Hours) && isMissing(v, o.Missing) {
				v = math.NaN()
			}
			cols[i] = append(cols[i], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, newError(trajview.ErrMalformed, name, "Read", "%s", err.Error())
	}
	hours := cols[timecol]
	if len(hours) == 0 {
		return nil, newError(trajview.ErrMalformed, name, "Read", "no data rows")
	}
	ntime := timeSteps(hours)
	if ntime <= 0 || len(hours)%ntime != 0 {
		return nil, newError(trajview.ErrMalformed, name, "Read", "%d rows can't be split in trajectories of %d time steps", len(hours), ntime)
	}
	ntra := len(hours) / ntime
	t := trajview.NewTable(ntra, ntime)
	for i, v := range vars {
		kind := trajview.Float
		data := cols[i]
		if i == timecol && !o.Hours {
			kind = trajview.Time
			for j, hr := range data {
				data[j] = trajview.Unix(trajview.AddHours(h.Date, hr))
			}
		}
		if err := t.Add(v, kind, data); err != nil {
			return nil, newError(trajview.ErrMalformed, name, "Read", "%s", err.Error())
		}
	}
	s := trajview.NewSet(t)
	s.SetStartDate(h.Date)
	trajview.Log.WithFields(logrus.Fields{"file": name, "ntra": ntra, "ntime": ntime}).Debug("read ASCII trajectories")
	return s, nil
}

// splitColumns cuts a data row of n columns at the column widths of Write,
// for either number of digits. It is used when a value fills its column
// and touches the previous one, as -1000.000 or 101325.000 do.
func splitColumns(row string, n int) ([]string, bool) {
	row = strings.TrimRight(row, " \t\r")
	for _, d := range []int{3, 2} {
		w := widths[d]
		total := 0
		for i := 0; i < n; i++ {
			if i < len(w) {
				total += w[i]
			} else {
				total += restWidth
			}
		}
		if len(row) != total {
			continue
		}
		fields := make([]string, 0, n)
		pos := 0
		ok := true
		for i := 0; i < n; i++ {
			wd := restWidth
			if i < len(w) {
				wd = w[i]
			}
			f := strings.TrimSpace(row[pos : pos+wd])
			pos += wd
			if f == "" || strings.ContainsAny(f, " \t") {
				ok = false
				break
			}
			fields = append(fields, f)
		}
		if ok {
			return fields, true
		}
	}
	return nil, false
}

func isMissing(v, missing float64) bool {
	return math.Abs(v-missing) <= 1e-6*math.Max(1, math.Abs(missing))
}

// timeSteps infers the number of time steps of each trajectory from the
// times, in hours, of all the rows: 1+round(period/timestep), where the time
// step is the first nonzero time difference and the period the difference
// between the last and the first time. It returns 1 if all the times are equal.
func timeSteps(hours []float64) int {
	step := 0.0
	for _, v := range hours[1:] {
		if v != hours[0] && !math.IsNaN(v) {
			step = v - hours[0]
			break
		}
	}
	if step == 0 {
		return 1
	}
	period := hours[len(hours)-1] - hours[0]
	return int(1 + math.Round(period/step))
}

// column widths and formats for the first 4 columns, and for every other one.
var (
	widths = map[int][4]int{
		2: {7, 9, 8, 6},
		3: {7, 10, 9, 6},
	}
	formats = map[int][4]string{
		2: {"%7.2f", "%9.2f", "%8.2f", "%6.0f"},
		3: {"%7.2f", "%10.3f", "%9.3f", "%6.0f"},
	}
)

const (
	restWidth  = 10
	restFormat = "%10.3f"
)

// Write writes the set to the file name in the LAGRANTO ASCII format. The time
// field is written first, in hh.mm relative to the start date of the set. NaN
// is written as -1000. The set is not modified. The file is compressed with
// gzip if it ends in .gz (or if the Gzip option is set) and with zstd if it
// ends in .zst.
func Write(s *trajview.Set, name string, opts ...WriteOptions) error {
	var o WriteOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Digit == 0 {
		o.Digit = 3
	}
	fixed, ok := formats[o.Digit]
	if !ok {
		return newError(trajview.ErrInvalidArgument, name, "Write", "digit must be either 2 or 3, not %d", o.Digit)
	}
	ntra, ntime, err := s.Dims()
	if err != nil {
		return trajview.Decorate(err, "ascii.Write")
	}
	names, cols, err := columns(s)
	if err != nil {
		return trajview.Decorate(err, "ascii.Write")
	}
	w, err := openWriter(name, compressionFor(name, o.Gzip), o.Append)
	if err != nil {
		return newError(err, name, "Write", "%s", err.Error())
	}
	err = write(w.Writer, s, names, cols, widths[o.Digit], fixed, ntra, ntime)
	if err2 := w.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return newError(err, name, "Write", "%s", err.Error())
	}
	return nil
}

// columns returns the names and the values to write, time first, in hh.mm.
func columns(s *trajview.Set) ([]string, [][]float64, error) {
	var names []string
	var cols [][]float64
	if s.HasField(trajview.TimeField) {
		tc, err := s.Column(trajview.TimeField)
		if err != nil {
			return nil, nil, err
		}
		kind, _ := s.Kind(trajview.TimeField)
		start := s.StartDate()
		hhmm := make([]float64, len(tc))
		for i, v := range tc {
			hr := v
			if kind == trajview.Time {
				hr = trajview.HoursSince(trajview.FromUnix(v), start)
			}
			hhmm[i] = trajview.HoursToHHMM(hr)
		}
		names = append(names, trajview.TimeField)
		cols = append(cols, hhmm)
	}
	for _, n := range s.FieldNames() {
		if n == trajview.TimeField {
			continue
		}
		c, err := s.Column(n)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, n)
		cols = append(cols, c)
	}
	return names, cols, nil
}

func write(bw *bufio.Writer, s *trajview.Set, names []string, cols [][]float64, fixedw [4]int, fixed [4]string, ntra, ntime int) error {
	duration, err := s.Duration()
	if err != nil {
		duration = 0
	}
	fmt.Fprintf(bw, "Reference date %s / Time range%8.0f min\n \n", s.StartDate().Format(dateLayout), duration)
	var dashes strings.Builder
	for i, n := range names {
		wd := restWidth
		if i < len(fixedw) {
			wd = fixedw[i]
		}
		fmt.Fprintf(bw, "%*s", wd, n)
		dashes.WriteString(strings.Repeat("-", wd))
	}
	fmt.Fprintf(bw, "\n%s\n", dashes.String())
	for i := 0; i < ntra; i++ {
		bw.WriteString(" \n")
		for j := 0; j < ntime; j++ {
			k := i*ntime + j
			for c, col := range cols {
				v := col[k]
				if math.IsNaN(v) && !(c == 0 && names[0] == trajview.TimeField) {
					v = MissingOut
				}
				f := restFormat
				if c < len(fixed) {
					f = fixed[c]
				}
				fmt.Fprintf(bw, f, v)
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
