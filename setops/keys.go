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
	"unsafe"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/decimal256"
	"golang.org/x/exp/constraints"
)

// canonicalNaN is the key of every NaN, whatever its payload.
var canonicalNaN = math.Float64bits(math.NaN())

// floatKey maps equal floats to equal keys: both zeros share a key, and so
// do all NaNs.
func floatKey(v float64) uint64 {
	switch {
	case v == 0:
		return 0
	case v != v:
		return canonicalNaN
	}
	return math.Float64bits(v)
}

func intKeys[T constraints.Integer](vals []T) func(int) uint64 {
	return func(i int) uint64 { return uint64(vals[i]) }
}

func floatKeys[T constraints.Float](vals []T) func(int) uint64 {
	return func(i int) uint64 { return floatKey(float64(vals[i])) }
}

// fixedWidthKeys returns the key extractor of an integer, boolean, floating
// point or date-like array. Keys are only comparable between arrays of the
// same type.
func fixedWidthKeys(arr arrow.Array) (func(int) uint64, error) {
	switch arr := arr.(type) {
	case *array.Boolean:
		return func(i int) uint64 {
			if arr.Value(i) {
				return 1
			}
			return 0
		}, nil
	case *array.Int8:
		return intKeys(arr.Int8Values()), nil
	case *array.Uint8:
		return intKeys(arr.Uint8Values()), nil
	case *array.Int16:
		return intKeys(arr.Int16Values()), nil
	case *array.Uint16:
		return intKeys(arr.Uint16Values()), nil
	case *array.Int32:
		return intKeys(arr.Int32Values()), nil
	case *array.Uint32:
		return intKeys(arr.Uint32Values()), nil
	case *array.Int64:
		return intKeys(arr.Int64Values()), nil
	case *array.Uint64:
		return intKeys(arr.Uint64Values()), nil
	case *array.Float16:
		vals := arr.Values()
		return func(i int) uint64 { return floatKey(float64(vals[i].Float32())) }, nil
	case *array.Float32:
		return floatKeys(arr.Float32Values()), nil
	case *array.Float64:
		return floatKeys(arr.Float64Values()), nil
	case *array.Date32:
		return intKeys(arr.Date32Values()), nil
	case *array.Date64:
		return intKeys(arr.Date64Values()), nil
	case *array.Time32:
		return intKeys(arr.Time32Values()), nil
	case *array.Time64:
		return intKeys(arr.Time64Values()), nil
	case *array.Timestamp:
		return intKeys(arr.TimestampValues()), nil
	case *array.Duration:
		return intKeys(arr.DurationValues()), nil
	}
	return nil, contractError("%T does not hold fixed width values of type %s", arr, arr.DataType())
}

func decimal128Keys(arr arrow.Array) (func(int) decimal128.Num, error) {
	if arr, ok := arr.(*array.Decimal128); ok {
		vals := arr.Values()
		return func(i int) decimal128.Num { return vals[i] }, nil
	}
	return nil, contractError("%T does not hold decimal128 values", arr)
}

func decimal256Keys(arr arrow.Array) (func(int) decimal256.Num, error) {
	if arr, ok := arr.(*array.Decimal256); ok {
		vals := arr.Values()
		return func(i int) decimal256.Num { return vals[i] }, nil
	}
	return nil, contractError("%T does not hold decimal256 values", arr)
}

// bytesKey views b as a string without copying. b must outlive the key.
func bytesKey(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// binaryKeys returns a key extractor aliasing the value bytes of a string,
// binary or fixed size binary array.
func binaryKeys(arr arrow.Array) (func(int) string, error) {
	switch arr := arr.(type) {
	case *array.String:
		return arr.Value, nil
	case *array.LargeString:
		return arr.Value, nil
	case *array.Binary:
		return arr.ValueString, nil
	case *array.LargeBinary:
		return arr.ValueString, nil
	case *array.FixedSizeBinary:
		return func(i int) string { return bytesKey(arr.Value(i)) }, nil
	}
	return nil, contractError("%T does not hold binary values of type %s", arr, arr.DataType())
}

func keysOf[K comparable](views []view, extract func(arrow.Array) (func(int) K, error)) ([]func(int) K, error) {
	keys := make([]func(int) K, len(views))
	for i := range views {
		var err error
		if keys[i], err = extract(views[i].values); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// execute runs the set operation with the key strategy of the hashed type.
func execute(mode Mode, u *unpacked, dt arrow.DataType, out *resultBuilder) error {
	switch kindOf(dt) {
	case kindNarrowInt, kindWideInt, kindFloat, kindDateLike:
		keys, err := keysOf(u.views, fixedWidthKeys)
		if err != nil {
			return err
		}
		run(mode, u, keys, nil, out)
	case kindDecimal:
		if dt.ID() == arrow.DECIMAL256 {
			keys, err := keysOf(u.views, decimal256Keys)
			if err != nil {
				return err
			}
			run(mode, u, keys, nil, out)
			break
		}
		keys, err := keysOf(u.views, decimal128Keys)
		if err != nil {
			return err
		}
		run(mode, u, keys, nil, out)
	case kindString, kindFixedString:
		keys, err := keysOf(u.views, binaryKeys)
		if err != nil {
			return err
		}
		run(mode, u, keys, nil, out)
	default:
		ar := &arena{}
		keys, err := keysOf(u.views, ar.keys)
		if err != nil {
			return err
		}
		run(mode, u, keys, ar.reset, out)
	}
	return nil
}
