/*
 * interfaces.go, part of trajview.
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
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log receives the warnings of every package in this library. Replace it
// (or change the level of the standard logger) to silence or redirect them.
var Log logrus.FieldLogger = logrus.StandardLogger()

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call returns the decoration slice after the call. An empty string only returns the current value.
}

// TrajError is the interface for errors in trajectory files.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// Error kinds. Every Error in this library unwraps to one of them (when one
// applies), so callers can use errors.Is.
var (
	ErrDegenerate        = errors.New("table has fewer than 2 dimensions")
	ErrUnknownField      = errors.New("unknown field")
	ErrShape             = errors.New("shape mismatch")
	ErrFieldMismatch     = errors.New("fields do not match")
	ErrDimensionNotFound = errors.New("dimension not found")
	ErrSelectionNotFound = errors.New("selection not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrMalformed         = errors.New("malformed file")
	ErrUnknownFormat     = errors.New("unknown file format")
)

// SetError is the error returned by the operations on a Set. It fullfills Error.
type SetError struct {
	message string
	kind    error
	deco    []string
}

func newSetError(kind error, caller string, format string, args ...interface{}) *SetError {
	err := &SetError{message: fmt.Sprintf(format, args...), kind: kind}
	err.Decorate(caller)
	return err
}

func (err *SetError) Error() string {
	if len(err.deco) == 0 {
		return "trajview: " + err.message
	}
	return fmt.Sprintf("trajview %s: %s", strings.Join(err.deco, ": "), err.message)
}

// Decorate adds new information to the error.
func (err *SetError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append([]string{deco}, err.deco...)
	}
	return err.deco
}

// Unwrap returns the kind of the error.
func (err *SetError) Unwrap() error { return err.kind }

// Decorate adds caller to err if err implements Error. It returns err.
func Decorate(err error, caller string) error {
	var e Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
