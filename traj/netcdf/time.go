/*
 * time.go, part of trajview.
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
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/dboateng/trajview"
)

// Units for the time variable.
const (
	Hours   = "hours"
	Seconds = "seconds"
	HHMM    = "hhmm"
)

func validUnit(u string) bool {
	return u == Hours || u == Seconds || u == HHMM
}

// unitFromAttribute returns the unit given in a "<unit> since <date>" units
// attribute, or "" if there is none.
func unitFromAttribute(h *cdf.Header, v string) string {
	s, ok := h.GetAttribute(v, "units").(string)
	if !ok {
		return ""
	}
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "hours since"):
		return Hours
	case strings.HasPrefix(s, "seconds since"):
		return Seconds
	}
	return ""
}

// toHours converts a time value in unit to fractional hours.
func toHours(v float64, unit string) float64 {
	switch unit {
	case Seconds:
		return v / 3600
	case HHMM:
		return trajview.HHMMToHours(v)
	}
	return v
}

// fromHours converts fractional hours to unit.
func fromHours(h float64, unit string) float64 {
	switch unit {
	case Seconds:
		return h * 3600
	case HHMM:
		return trajview.HoursToHHMM(h)
	}
	return h
}

// startDate reads the start date of the trajectories: from the BASEDATE
// variable of LAGRANTO files (year, month, day, hour and, if present, minute)
// or from the ref_* global attributes of COSMO files.
func startDate(f *ncfile) (time.Time, error) {
	h := f.Header
	if h.Lengths("BASEDATE") != nil {
		d, err := f.read("BASEDATE")
		if err == nil && len(d) >= 4 {
			min := 0.0
			if len(d) >= 5 {
				min = d[4]
			}
			return time.Date(int(d[0]), time.Month(int(d[1])), int(d[2]), int(d[3]), int(min), 0, 0, time.UTC), nil
		}
	}
	var ref [5]int
	for i, name := range []string{"ref_year", "ref_month", "ref_day", "ref_hour", "ref_min"} {
		v, ok := attributeValue(h, "", name)
		if !ok {
			if i == 4 {
				break
			}
			return time.Time{}, fmt.Errorf("no BASEDATE variable and no %s attribute", name)
		}
		ref[i] = int(v)
	}
	return time.Date(ref[0], time.Month(ref[1]), ref[2], ref[3], ref[4], 0, 0, time.UTC), nil
}

// attributeValue returns the first value of a numeric attribute.
func attributeValue(h *cdf.Header, v, a string) (float64, bool) {
	switch val := h.GetAttribute(v, a).(type) {
	case []float64:
		if len(val) > 0 {
			return val[0], true
		}
	case []float32:
		if len(val) > 0 {
			return float64(val[0]), true
		}
	case []int32:
		if len(val) > 0 {
			return float64(val[0]), true
		}
	case []int16:
		if len(val) > 0 {
			return float64(val[0]), true
		}
	case []uint8:
		if len(val) > 0 {
			return float64(val[0]), true
		}
	}
	return math.NaN(), false
}

// encodeTimes returns the values of the time variable for the set, relative to
// start (which must have no seconds), in unit, and the units attribute ("" for hh.mm).
// shift is the number of seconds removed from the start date of the set.
func encodeTimes(s *trajview.Set, start time.Time, shift int, unit string) ([]float64, string, error) {
	_, ntime, err := s.Dims()
	if err != nil {
		return nil, "", err
	}
	col, err := s.Column(trajview.TimeField)
	if err != nil {
		return nil, "", err
	}
	kind, _ := s.Kind(trajview.TimeField)
	ret := make([]float64, ntime)
	for j := range ret {
		v := col[j]
		var hours float64
		if kind == trajview.Time {
			hours = trajview.HoursSince(trajview.FromUnix(v), start)
		} else {
			hours = v + float64(shift)/3600
		}
		if unit == Seconds {
			if kind == trajview.Time {
				ret[j] = float64(trajview.FromUnix(v).Unix() - start.Unix())
			} else {
				ret[j] = v*3600 + float64(shift)
			}
			continue
		}
		ret[j] = fromHours(hours, unit)
	}
	units := ""
	if unit != HHMM {
		units = fmt.Sprintf("%s since %s", unit, start.Format("2006-01-02 15:04:05"))
	}
	return ret, units, nil
}
