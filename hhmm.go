/*
 * hhmm.go, part of trajview.
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
	"strconv"
	"strings"
	"time"
)

//LAGRANTO writes times as hh.mm: the integer part is the number of hours and
//the first two decimals the number of minutes, so 1.30 is 1.5 hours.

// HHMMToHours converts a time in hh.mm notation to fractional hours.
// The sign applies to both hours and minutes: -1.30 is -1.5 hours.
func HHMMToHours(t float64) float64 {
	h := math.Trunc(t)
	m := math.Round(100*(t-h)) / 60
	return h + m
}

// HoursToHHMM converts fractional hours to the hh.mm notation.
func HoursToHHMM(hours float64) float64 {
	h := math.Trunc(hours)
	return h + 0.6*(hours-h)
}

// ParseHHMM reads a time written in hh.mm notation and returns it in
// fractional hours. Unlike HHMMToHours it keeps the sign of values such
// as "-0.30".
func ParseHHMM(s string) (float64, error) {
	s = strings.TrimSpace(s)
	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	hh, mm, found := strings.Cut(s, ".")
	h, err := strconv.ParseFloat(hh, 64)
	if err != nil {
		return math.NaN(), err
	}
	if !found || mm == "" {
		return sign * h, nil
	}
	if len(mm) == 1 {
		mm += "0"
	}
	m, err := strconv.ParseFloat(mm[:2]+"."+mm[2:], 64)
	if err != nil {
		return math.NaN(), err
	}
	return sign * (h + m/60), nil
}

// HoursSince returns the time from start to t in fractional hours.
func HoursSince(t, start time.Time) float64 {
	return float64(t.Unix()-start.Unix()) / 3600
}

// AddHours returns start moved by hours, rounded to the second.
func AddHours(start time.Time, hours float64) time.Time {
	return start.Add(time.Duration(math.Round(hours*3600)) * time.Second)
}
