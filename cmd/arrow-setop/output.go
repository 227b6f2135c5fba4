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

package main

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/goccy/go-json"
)

type output interface {
	write(n int, rec arrow.Record) error
	close() error
}

func newOutput(format string, w io.Writer, mem memory.Allocator) (output, error) {
	switch format {
	case "text", "":
		return textOutput{w: w}, nil
	case "json":
		return jsonOutput{enc: json.NewEncoder(w)}, nil
	case "arrow":
		return &arrowOutput{w: w, mem: mem}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

type textOutput struct{ w io.Writer }

func (o textOutput) write(n int, rec arrow.Record) error {
	if _, err := fmt.Fprintf(o.w, "record %d...\n", n); err != nil {
		return err
	}
	for i, col := range rec.Columns() {
		if _, err := fmt.Fprintf(o.w, "  col[%d] %q: %v\n", i, rec.ColumnName(i), col); err != nil {
			return err
		}
	}
	return nil
}

func (textOutput) close() error { return nil }

// jsonOutput writes one JSON object per row.
type jsonOutput struct{ enc *json.Encoder }

func (o jsonOutput) write(_ int, rec arrow.Record) error {
	for r := 0; r < int(rec.NumRows()); r++ {
		row := make(map[string]interface{}, rec.NumCols())
		for i, col := range rec.Columns() {
			row[rec.ColumnName(i)] = col.GetOneForMarshal(r)
		}
		if err := o.enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

func (jsonOutput) close() error { return nil }

// arrowOutput writes an Arrow IPC stream. The schema is taken from the first
// record.
type arrowOutput struct {
	w   io.Writer
	mem memory.Allocator
	ww  *ipc.Writer
}

func (o *arrowOutput) write(_ int, rec arrow.Record) error {
	if o.ww == nil {
		o.ww = ipc.NewWriter(o.w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(o.mem))
	}
	return o.ww.Write(rec)
}

func (o *arrowOutput) close() error {
	if o.ww == nil {
		return nil
	}
	return o.ww.Close()
}
