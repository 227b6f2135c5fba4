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

package setops

import (
	"context"
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/compute"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// resultBuilder collects the emitted elements of every row as positions
// into a source array, a null position standing for a null element.
type resultBuilder struct {
	indices *array.Int64Builder
	// offsets[r+1] is the number of elements emitted up to the end of row r.
	offsets []int64
}

func newResultBuilder(mem memory.Allocator, rows int) *resultBuilder {
	offsets := make([]int64, 1, rows+1)
	return &resultBuilder{indices: array.NewInt64Builder(mem), offsets: offsets}
}

func (b *resultBuilder) emit(pos int64) { b.indices.Append(pos) }
func (b *resultBuilder) emitNull()      { b.indices.AppendNull() }
func (b *resultBuilder) endRow()        { b.offsets = append(b.offsets, int64(b.indices.Len())) }
func (b *resultBuilder) len() int       { return b.indices.Len() }
func (b *resultBuilder) release()       { b.indices.Release() }

// finish takes the emitted elements from source and wraps them into a column
// of res.listType.
func (b *resultBuilder) finish(ctx context.Context, res *resolution, source arrow.Array) (arrow.Array, error) {
	indices := b.indices.NewInt64Array()
	defer indices.Release()

	taken, err := compute.TakeArray(ctx, source, indices)
	if err != nil {
		return nil, err
	}
	// structural values were hashed with every nested field nullable;
	// relabel them with the result type
	values, err := castValues(ctx, taken, res.elem)
	taken.Release()
	if err != nil {
		return nil, err
	}
	defer values.Release()

	return b.assemble(res, values)
}

func (b *resultBuilder) assemble(res *resolution, values arrow.Array) (arrow.Array, error) {
	var offsets *memory.Buffer
	if res.large {
		offsets = memory.NewBufferBytes(arrow.Int64Traits.CastToBytes(b.offsets))
	} else {
		if last := b.offsets[len(b.offsets)-1]; last > math.MaxInt32 {
			return nil, contractError("%d elements do not fit a list column, use large_list arguments", last)
		}
		offs32 := make([]int32, len(b.offsets))
		for i, o := range b.offsets {
			offs32[i] = int32(o)
		}
		offsets = memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(offs32))
	}

	data := array.NewData(res.listType, len(b.offsets)-1, []*memory.Buffer{nil, offsets},
		[]arrow.ArrayData{values.Data()}, 0, 0)
	defer data.Release()
	return array.MakeFromData(data), nil
}

// emptyResult returns rows empty lists of res.listType.
func emptyResult(res *resolution, rows int) (arrow.Array, error) {
	b := &resultBuilder{offsets: make([]int64, rows+1)}
	values := array.NewNull(0)
	defer values.Release()
	return b.assemble(res, values)
}
