/*
 * parquet.go, part of trajview.
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

//Package parquet exports sets of trajectories to Parquet tables, and reads them back.
//
//The table is in long format: one row per trajectory and time step, with the
//columns trajectory and step (both int32) followed by one column per field. Time fields
//are stored as timestamps, other fields as doubles with NaN stored as null. The start date
//of the set is kept in the schema metadata.
package parquet

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/dboateng/trajview"
	"github.com/sirupsen/logrus"
)

// Names of the index columns and of the metadata key with the start date.
const (
	TrajColumn = "trajectory"
	StepColumn = "step"
	StartKey   = "trajview.start"
)

// schemaFor returns the arrow schema of the long table for s.
func schemaFor(s *trajview.Set) *arrow.Schema {
	fields := []arrow.Field{
		{Name: TrajColumn, Type: arrow.PrimitiveTypes.Int32},
		{Name: StepColumn, Type: arrow.PrimitiveTypes.Int32},
	}
	for _, n := range s.FieldNames() {
		k, _ := s.Kind(n)
		if k == trajview.Time {
			fields = append(fields, arrow.Field{Name: n, Type: arrow.FixedWidthTypes.Timestamp_s, Nullable: true})
			continue
		}
		fields = append(fields, arrow.Field{Name: n, Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	}
	md := arrow.NewMetadata([]string{StartKey}, []string{s.StartDate().Format(time.RFC3339)})
	return arrow.NewSchema(fields, &md)
}

// record builds the long table for s.
func record(s *trajview.Set, schema *arrow.Schema, ntra, ntime int) arrow.Record {
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	tb := b.Field(0).(*array.Int32Builder)
	sb := b.Field(1).(*array.Int32Builder)
	for i := 0; i < ntra; i++ {
		for j := 0; j < ntime; j++ {
			tb.Append(int32(i))
			sb.Append(int32(j))
		}
	}
	for k, n := range s.FieldNames() {
		col, _ := s.Column(n)
		switch fb := b.Field(k + 2).(type) {
		case *array.TimestampBuilder:
			for _, v := range col {
				if math.IsNaN(v) {
					fb.AppendNull()
					continue
				}
				fb.Append(arrow.Timestamp(int64(math.Round(v))))
			}
		case *array.Float64Builder:
			for _, v := range col {
				if math.IsNaN(v) {
					fb.AppendNull()
					continue
				}
				fb.Append(v)
			}
		}
	}
	return b.NewRecord()
}

// Write writes the set to the file name as a snappy-compressed Parquet table.
func Write(s *trajview.Set, name string) error {
	ntra, ntime, err := s.Dims()
	if err != nil {
		return trajview.Decorate(err, "parquet.Write")
	}
	schema := schemaFor(s)
	rec := record(s, schema, ntra, ntime)
	defer rec.Release()

	f, err := os.Create(name)
	if err != nil {
		return newError(err, name, "Write", "%s", err.Error())
	}
	defer f.Close()
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	w, err := pqarrow.NewFileWriter(schema, f, props, arrowProps)
	if err != nil {
		return newError(err, name, "Write", "failed to create parquet writer: %s", err.Error())
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return newError(err, name, "Write", "failed to write table: %s", err.Error())
	}
	if err := w.Close(); err != nil {
		return newError(err, name, "Write", "%s", err.Error())
	}
	return nil
}

// Read loads a set written by Write.
func Read(name string) (*trajview.Set, error) {
	return ReadContext(context.Background(), name)
}

// ReadContext is Read with a context for the table read.
func ReadContext(ctx context.Context, name string) (*trajview.Set, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, newError(err, name, "Read", "%s", err.Error())
	}
	defer f.Close()
	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, newError(trajview.ErrMalformed, name, "Read", "failed to create parquet reader: %s", err.Error())
	}
	defer pf.Close()
	mem := memory.NewGoAllocator()
	ar, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, newError(trajview.ErrMalformed, name, "Read", "failed to create arrow reader: %s", err.Error())
	}
	table, err := ar.ReadTable(ctx)
	if err != nil {
		return nil, newError(err, name, "Read", "failed to read parquet data: %s", err.Error())
	}
	defer table.Release()
	s, err := fromTable(table, name)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// columnValues returns the values of a table column as float64, NaN for nulls,
// and the kind of field it maps to. Timestamps are converted to Unix seconds.
func columnValues(col *arrow.Column) ([]float64, trajview.Kind, error) {
	ret := make([]float64, 0, col.Len())
	kind := trajview.Float
	for _, chunk := range col.Data().Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			if chunk.IsNull(i) {
				ret = append(ret, math.NaN())
				continue
			}
			switch c := chunk.(type) {
			case *array.Float64:
				ret = append(ret, c.Value(i))
			case *array.Float32:
				ret = append(ret, float64(c.Value(i)))
			case *array.Int32:
				ret = append(ret, float64(c.Value(i)))
			case *array.Int64:
				ret = append(ret, float64(c.Value(i)))
			case *array.Timestamp:
				kind = trajview.Time
				unit := c.DataType().(*arrow.TimestampType).Unit
				ret = append(ret, trajview.Unix(c.Value(i).ToTime(unit)))
			default:
				return nil, kind, fmt.Errorf("unsupported column type %s", chunk.DataType())
			}
		}
	}
	if col.DataType().ID() == arrow.TIMESTAMP {
		kind = trajview.Time
	}
	return ret, kind, nil
}

func fromTable(table arrow.Table, name string) (*trajview.Set, error) {
	schema := table.Schema()
	ti := schema.FieldIndices(TrajColumn)
	si := schema.FieldIndices(StepColumn)
	if len(ti) == 0 || len(si) == 0 {
		return nil, newError(trajview.ErrMalformed, name, "Read", "no %s or %s column", TrajColumn, StepColumn)
	}
	trajs, _, err := columnValues(table.Column(ti[0]))
	if err != nil {
		return nil, newError(trajview.ErrMalformed, name, "Read", "%s", err.Error())
	}
	steps, _, err := columnValues(table.Column(si[0]))
	if err != nil {
		return nil, newError(trajview.ErrMalformed, name, "Read", "%s", err.Error())
	}
	ntra, ntime := 0, 0
	for i := range trajs {
		if math.IsNaN(trajs[i]) || math.IsNaN(steps[i]) || trajs[i] < 0 || steps[i] < 0 {
			return nil, newError(trajview.ErrMalformed, name, "Read", "invalid index in row %d", i)
		}
		ntra = max(ntra, int(trajs[i])+1)
		ntime = max(ntime, int(steps[i])+1)
	}
	if ntra*ntime != len(trajs) {
		return nil, newError(trajview.ErrMalformed, name, "Read", "%d rows for %d trajectories of %d time steps", len(trajs), ntra, ntime)
	}
	t := trajview.NewTable(ntra, ntime)
	for c := 0; c < int(table.NumCols()); c++ {
		if c == ti[0] || c == si[0] {
			continue
		}
		col := table.Column(c)
		vals, kind, err := columnValues(col)
		if err != nil {
			trajview.Log.WithFields(logrus.Fields{"file": name, "column": col.Name()}).Warnf("column skipped: %s", err)
			continue
		}
		data := make([]float64, len(vals))
		for i, v := range vals {
			data[int(trajs[i])*ntime+int(steps[i])] = v
		}
		if err := t.Add(col.Name(), kind, data); err != nil {
			return nil, newError(trajview.ErrMalformed, name, "Read", "%s", err.Error())
		}
	}
	s := trajview.NewSet(t)
	md := schema.Metadata()
	if i := md.FindKey(StartKey); i >= 0 {
		if st, err := time.Parse(time.RFC3339, md.Values()[i]); err == nil {
			s.SetStartDate(st.UTC())
		}
	}
	return s, nil
}
