/*
 * concat.go, part of trajview.
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

import "fmt"

// Axis selects the dimension along which sets are concatenated.
type Axis int

const (
	AlongTrajectories Axis = iota //stack trajectories, time steps must match
	AlongTime                     //extend each trajectory, trajectory counts must match
)

// Concatenate returns a new set with the trajectories of S followed by those
// of others. The sets must contain the same fields, in the same order.
// With AlongTrajectories every set must have the same number of time steps;
// with AlongTime every set must have the same number of trajectories.
// The result does not share data with any of the inputs.
func (S *Set) Concatenate(axis Axis, others ...*Set) (*Set, error) {
	t, err := S.concatenate(axis, others)
	if err != nil {
		return nil, Decorate(err, "Concatenate")
	}
	ret := NewSet(t)
	ret.start, ret.hasStart = S.start, S.hasStart
	return ret, nil
}

// ConcatenateInPlace is Concatenate, but replaces the table of S with the result.
func (S *Set) ConcatenateInPlace(axis Axis, others ...*Set) error {
	t, err := S.concatenate(axis, others)
	if err != nil {
		return Decorate(err, "ConcatenateInPlace")
	}
	S.t = t
	return nil
}

// Append appends the trajectories of others to S.
func (S *Set) Append(others ...*Set) error {
	return Decorate(S.ConcatenateInPlace(AlongTrajectories, others...), "Append")
}

func (S *Set) concatenate(axis Axis, others []*Set) (*Table, error) {
	sets := append([]*Set{S}, others...)
	ntras := make([]int, len(sets))
	ntimes := make([]int, len(sets))
	for i, s := range sets {
		if s == nil {
			return nil, newSetError(ErrInvalidArgument, "", "set %d is nil", i)
		}
		var err error
		ntras[i], ntimes[i], err = s.Dims()
		if err != nil {
			return nil, err
		}
	}
	names := S.FieldNames()
	for i, s := range sets[1:] {
		if err := sameFields(S, s); err != nil {
			err.message = fmt.Sprintf("set %d: %s", i+1, err.message)
			return nil, err
		}
	}
	var ntra, ntime int
	switch axis {
	case AlongTrajectories:
		ntime = ntimes[0]
		for i, n := range ntimes {
			if n != ntime {
				return nil, newSetError(ErrShape, "", "set %d has %d time steps, expected %d", i, n, ntime)
			}
			ntra += ntras[i]
		}
	case AlongTime:
		ntra = ntras[0]
		for i, n := range ntras {
			if n != ntra {
				return nil, newSetError(ErrShape, "", "set %d has %d trajectories, expected %d", i, n, ntra)
			}
			ntime += ntimes[i]
		}
	default:
		return nil, newSetError(ErrInvalidArgument, "", "unknown axis %d", axis)
	}
	t := NewTable(ntra, ntime)
	for k, name := range names {
		d := make([]float64, 0, ntra*ntime)
		if axis == AlongTrajectories {
			for _, s := range sets {
				d = append(d, s.t.Fields[k].Data...)
			}
		} else {
			for row := 0; row < ntra; row++ {
				for i, s := range sets {
					d = append(d, s.t.Fields[k].Data[row*ntimes[i]:(row+1)*ntimes[i]]...)
				}
			}
		}
		t.Fields = append(t.Fields, Field{Name: name, Kind: S.t.Fields[k].Kind, Data: d})
	}
	return t, nil
}

func sameFields(a, b *Set) *SetError {
	fa, fb := a.t.Fields, b.t.Fields
	if len(fa) != len(fb) {
		return newSetError(ErrFieldMismatch, "", "%d fields, expected %d", len(fb), len(fa))
	}
	for i := range fa {
		if fa[i].Name != fb[i].Name || fa[i].Kind != fb[i].Kind {
			return newSetError(ErrFieldMismatch, "", "field %d is %s (%s), expected %s (%s)", i, fb[i].Name, fb[i].Kind, fa[i].Name, fa[i].Kind)
		}
	}
	return nil
}
