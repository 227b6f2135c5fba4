// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command arrow-setop applies a set operation to list columns of an Arrow
// or Parquet file and prints the result column next to its inputs.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/compute"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/docopt/docopt-go"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/flozdra/arrow-setops/setops"
)

const usage = `Arrow set operations.
Usage:
  arrow-setop -h | --help
  arrow-setop --op=OP --columns=COLUMNS [--format=FORMAT] [--output=OUTPUT]
              [--name=NAME] [--batch-size=SIZE] [--verbose] <file>
Options:
  -h --help            Show this screen.
  --op=OP              Set operation: intersect, union or symdiff.
  --columns=COLUMNS    Comma delimited names of the list columns to combine.
  --format=FORMAT      Input format, arrow (file or stream) or parquet [default: arrow].
  --output=OUTPUT      Output format, text, json or arrow [default: text].
  --name=NAME          Name of the result column, defaults to the operation name.
  --batch-size=SIZE    Rows per record batch read from Parquet [default: 1024].
  --verbose            Log debug information to stderr.`

type config struct {
	Op        string
	Columns   string
	Format    string
	Output    string
	Name      string
	BatchSize int
	Verbose   bool
	File      string
}

func main() {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	var cfg config
	if err := opts.Bind(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, cfg.Verbose)
	if err := run(context.Background(), cfg, os.Stdout, logger); err != nil {
		level.Error(logger).Log("msg", "set operation failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

func run(ctx context.Context, cfg config, w io.Writer, logger log.Logger) error {
	mode, err := setops.ParseMode(cfg.Op)
	if err != nil {
		return err
	}
	columns := strings.Split(cfg.Columns, ",")
	for i := range columns {
		columns[i] = strings.TrimSpace(columns[i])
	}
	if cfg.Name == "" {
		cfg.Name = mode.String()
	}

	mem := memory.NewGoAllocator()
	ctx = compute.WithAllocator(ctx, mem)

	rdr, closer, err := openRecords(ctx, cfg, mem)
	if err != nil {
		return err
	}
	defer closer()
	defer rdr.Release()

	out, err := newOutput(cfg.Output, w, mem)
	if err != nil {
		return err
	}

	n := 0
	for rdr.Next() {
		n++
		rec, err := apply(ctx, mode, cfg.Name, columns, rdr.Record())
		if err != nil {
			return fmt.Errorf("record %d: %w", n, err)
		}
		level.Debug(logger).Log("msg", "applied set operation", "record", n, "rows", rec.NumRows(), "op", mode)
		err = out.write(n, rec)
		rec.Release()
		if err != nil {
			return err
		}
	}
	if err := rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	level.Info(logger).Log("msg", "done", "op", mode, "records", n)
	return out.close()
}

// apply appends the result of mode over the named columns to rec.
func apply(ctx context.Context, mode setops.Mode, name string, columns []string, rec arrow.Record) (arrow.Record, error) {
	schema := rec.Schema()
	args := make([]compute.Datum, 0, len(columns))
	defer func() {
		for _, a := range args {
			a.Release()
		}
	}()
	for _, c := range columns {
		idx := schema.FieldIndices(c)
		if len(idx) == 0 {
			return nil, fmt.Errorf("no column named %q", c)
		}
		args = append(args, compute.NewDatum(rec.Column(idx[0])))
	}

	res, err := setops.Exec(ctx, mode, args...)
	if err != nil {
		return nil, err
	}
	defer res.Release()
	result := res.(*compute.ArrayDatum).MakeArray()
	defer result.Release()

	fields := append(schema.Fields(), arrow.Field{Name: name, Type: result.DataType()})
	cols := append(rec.Columns()[:len(rec.Columns()):len(rec.Columns())], result)
	meta := schema.Metadata()
	return array.NewRecord(arrow.NewSchema(fields, &meta), cols, rec.NumRows()), nil
}

// openRecords reads the input as Parquet or as an Arrow IPC file, falling
// back to an IPC stream when the file magic is missing.
func openRecords(ctx context.Context, cfg config, mem memory.Allocator) (array.RecordReader, func(), error) {
	switch cfg.Format {
	case "parquet":
		pf, err := file.OpenParquetFile(cfg.File, false)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening parquet file: %w", err)
		}
		batch := int64(cfg.BatchSize)
		if batch <= 0 {
			batch = 1024
		}
		fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: batch}, mem)
		if err != nil {
			pf.Close()
			return nil, nil, err
		}
		rr, err := fr.GetRecordReader(ctx, nil, nil)
		if err != nil {
			pf.Close()
			return nil, nil, err
		}
		return rr, func() { pf.Close() }, nil
	case "arrow", "":
	default:
		return nil, nil, fmt.Errorf("unknown input format %q", cfg.Format)
	}

	f, err := os.Open(cfg.File)
	if err != nil {
		return nil, nil, err
	}

	hdr := make([]byte, len(ipc.Magic))
	if _, err := io.ReadFull(f, hdr); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("could not read file header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, nil, err
	}

	if !bytes.Equal(hdr, ipc.Magic) {
		r, err := ipc.NewReader(f, ipc.WithAllocator(mem))
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return r, func() { f.Close() }, nil
	}

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(mem))
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	recs := make([]arrow.Record, 0, r.NumRecords())
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			r.Close()
			f.Close()
			return nil, nil, err
		}
		rec.Retain()
		recs = append(recs, rec)
	}
	rr, err := array.NewRecordReader(r.Schema(), recs)
	for _, rec := range recs {
		rec.Release()
	}
	if err != nil {
		r.Close()
		f.Close()
		return nil, nil, err
	}
	return rr, func() { r.Close(); f.Close() }, nil
}
