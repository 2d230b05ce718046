/*
 * header.go, part of trajview.
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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dboateng/trajview"
	"github.com/sirupsen/logrus"
)

const (
	dateLayout      = "20060102_1504"
	shortDateLayout = "20060102_15"
)

// defaultDate is used when the header carries no readable date.
var defaultDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// Header is the information in the first line of a LAGRANTO ASCII file.
type Header struct {
	Date  time.Time //reference (start) date
	Range float64   //time range in minutes, NaN if absent
}

// ReadHeader returns the header and the column names of the file name.
func ReadHeader(name string) (Header, []string, error) {
	r, err := openReader(name)
	if err != nil {
		return Header{}, nil, newError(err, name, "ReadHeader", "%s", err.Error())
	}
	defer r.Close()
	sc := bufio.NewScanner(r)
	h, vars, err := readHeader(sc, name)
	if err != nil {
		return h, vars, trajview.Decorate(err, "ReadHeader")
	}
	return h, vars, nil
}

// readHeader consumes the 4 header lines from sc.
func readHeader(sc *bufio.Scanner, name string) (Header, []string, error) {
	var lines [4]string
	for i := range lines {
		if !sc.Scan() {
			err := sc.Err()
			if err == nil {
				return Header{}, nil, newError(trajview.ErrMalformed, name, "readHeader", "file ends in the header, at line %d", i+1)
			}
			return Header{}, nil, newError(err, name, "readHeader", "%s", err.Error())
		}
		lines[i] = sc.Text()
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[0]), "Reference date") {
		return Header{}, nil, newError(trajview.ErrMalformed, name, "readHeader", "first line is not a LAGRANTO header: %.40q", lines[0])
	}
	vars := strings.Fields(lines[2])
	if len(vars) == 0 {
		return Header{}, nil, newError(trajview.ErrMalformed, name, "readHeader", "no column names in line 3")
	}
	h := Header{Date: headerDate(strings.Fields(lines[0]), name), Range: headerRange(lines[0])}
	return h, vars, nil
}

// headerDate reads the reference date from the tokens of the first line. It
// tries YYYYMMDD_HHMM in the third token, then YYYYMMDD_HH from the third and
// fourth ones, and falls back to 1970-01-01.
func headerDate(tokens []string, name string) time.Time {
	if len(tokens) > 2 {
		if t, err := time.Parse(dateLayout, tokens[2]); err == nil {
			return t
		}
	}
	if len(tokens) > 3 {
		if t, err := time.Parse(shortDateLayout, tokens[2]+"_"+tokens[3]); err == nil {
			return t
		}
	}
	trajview.Log.WithFields(logrus.Fields{"file": name, "default": defaultDate}).Warn("could not retrieve the start date from the header")
	return defaultDate
}

// headerRange reads the time range, in minutes, from the first line.
func headerRange(line string) float64 {
	_, after, found := strings.Cut(line, "range")
	if !found {
		return math.NaN()
	}
	after = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(after), "min"))
	r, err := strconv.ParseFloat(after, 64)
	if err != nil {
		return math.NaN()
	}
	return r
}
