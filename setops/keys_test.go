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
	"math"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatKey(t *testing.T) {
	assert.Equal(t, floatKey(0), floatKey(math.Copysign(0, -1)))
	assert.Equal(t, floatKey(math.NaN()), floatKey(-math.NaN()))
	assert.Equal(t, floatKey(math.NaN()), floatKey(math.Float64frombits(0x7ff8000000000001)))
	assert.NotEqual(t, floatKey(1), floatKey(-1))
	assert.NotEqual(t, floatKey(math.Inf(1)), floatKey(math.NaN()))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		dt   arrow.DataType
		want elemKind
	}{
		{arrow.FixedWidthTypes.Boolean, kindNarrowInt},
		{arrow.PrimitiveTypes.Uint32, kindNarrowInt},
		{arrow.PrimitiveTypes.Int64, kindWideInt},
		{arrow.FixedWidthTypes.Float16, kindFloat},
		{&arrow.Decimal256Type{Precision: 40, Scale: 2}, kindDecimal},
		{arrow.FixedWidthTypes.Timestamp_us, kindDateLike},
		{arrow.BinaryTypes.LargeBinary, kindString},
		{&arrow.FixedSizeBinaryType{ByteWidth: 16}, kindFixedString},
		{arrow.StructOf(arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int8}), kindSerialized},
		{arrow.ListOf(arrow.PrimitiveTypes.Int8), kindSerialized},
	}

	for _, tt := range tests {
		t.Run(tt.dt.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, kindOf(tt.dt))
		})
	}
}

func TestKeyExtractorsRejectMismatchedArrays(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	strs, _, err := array.FromJSON(mem, arrow.BinaryTypes.String, strings.NewReader(`["a"]`))
	require.NoError(t, err)
	defer strs.Release()
	ints, _, err := array.FromJSON(mem, arrow.PrimitiveTypes.Int32, strings.NewReader(`[1]`))
	require.NoError(t, err)
	defer ints.Release()

	_, err = fixedWidthKeys(strs)
	assert.ErrorIs(t, err, ErrInternalContract)
	_, err = binaryKeys(ints)
	assert.ErrorIs(t, err, ErrInternalContract)
	_, err = decimal128Keys(ints)
	assert.ErrorIs(t, err, ErrInternalContract)
	_, err = decimal256Keys(ints)
	assert.ErrorIs(t, err, ErrInternalContract)
}

func TestArenaKeys(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dt := arrow.StructOf(
		arrow.Field{Name: "a", Type: arrow.ListOf(arrow.PrimitiveTypes.Int16), Nullable: true},
		arrow.Field{Name: "b", Type: arrow.BinaryTypes.String, Nullable: true})
	arr, _, err := array.FromJSON(mem, dt, strings.NewReader(`[
		{"a": [1, 2], "b": "x"},
		{"a": [1], "b": "2x"},
		{"a": [1, 2], "b": "x"},
		{"a": null, "b": "x"},
		{"a": [], "b": "x"},
		{"a": [null], "b": "x"},
		{"a": [1, 2], "b": null}
	]`))
	require.NoError(t, err)
	defer arr.Release()

	ar := &arena{}
	key, err := ar.keys(arr)
	require.NoError(t, err)

	keys := make([]string, arr.Len())
	for i := range keys {
		keys[i] = key(i)
	}

	assert.Equal(t, keys[0], keys[2])
	seen := map[string]int{}
	for i, k := range keys {
		if i == 2 {
			continue
		}
		if j, ok := seen[k]; ok {
			t.Errorf("elements %d and %d share key %q", j, i, k)
		}
		seen[k] = i
	}

	ar.reset()
	assert.Empty(t, ar.buf)
	assert.Equal(t, keys[0], key(0))
}
