/*
 * errors.go, part of trajview.
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
	"fmt"
	"strings"

	"github.com/dboateng/trajview"
)

//Error is the general structure for Parquet trajectory errors. It fullfills trajview.Error and trajview.TrajError.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
	kind     error
}

func newError(kind error, filename, caller, format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...), filename: filename, deco: []string{caller}, critical: true, kind: kind}
}

func (err *Error) Error() string {
	return fmt.Sprintf("parquet file %s error (%s): %s", err.filename, strings.Join(err.deco, "/"), err.message)
}

//Decorate Adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append([]string{deco}, err.deco...)
	}
	return err.deco
}

//FileName returns the file to which the failing trajectory was associated
func (err *Error) FileName() string { return err.filename }

//Format returns the format of the file (always "parquet") associated to the error
func (err *Error) Format() string { return "parquet" }

//Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

//Unwrap returns the kind of the error, so it can be checked with errors.Is
func (err *Error) Unwrap() error { return err.kind }

var _ trajview.TrajError = &Error{}
