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
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/compute"
	"github.com/flozdra/arrow-setops/internal/debug"
)

// castValues casts arr to dt, returning a new reference. Values already of
// type dt are returned as is. Struct and list values are cast child by
// child and rebuilt on top of the original validity and offset buffers,
// which keeps nested nulls intact. Leaves use compute.CastArray without
// overflow or truncation checks; callers mask the values that changed.
func castValues(ctx context.Context, arr arrow.Array, dt arrow.DataType) (arrow.Array, error) {
	if arrow.TypeEqual(arr.DataType(), dt) {
		arr.Retain()
		return arr, nil
	}

	if arr.DataType().ID() == arrow.NULL {
		return array.MakeArrayOfNull(compute.GetAllocator(ctx), dt, arr.Len()), nil
	}

	if children, ok := childTypes(arr.DataType(), dt); ok {
		return castChildren(ctx, arr, dt, children)
	}

	return compute.CastArray(ctx, arr, compute.UnsafeCastOptions(dt))
}

// childTypes returns the child types of to when a value of type from can be
// cast to it child by child.
func childTypes(from, to arrow.DataType) ([]arrow.DataType, bool) {
	if from.ID() != to.ID() {
		return nil, false
	}

	switch to := to.(type) {
	case *arrow.StructType:
		if from.(*arrow.StructType).NumFields() != to.NumFields() {
			return nil, false
		}
		out := make([]arrow.DataType, to.NumFields())
		for i := range out {
			out[i] = to.Field(i).Type
		}
		return out, true
	case *arrow.ListType:
		return []arrow.DataType{to.Elem()}, true
	case *arrow.LargeListType:
		return []arrow.DataType{to.Elem()}, true
	case *arrow.FixedSizeListType:
		if from.(*arrow.FixedSizeListType).Len() != to.Len() {
			return nil, false
		}
		return []arrow.DataType{to.Elem()}, true
	}
	return nil, false
}

func castChildren(ctx context.Context, arr arrow.Array, dt arrow.DataType, types []arrow.DataType) (arrow.Array, error) {
	data := arr.Data()
	children := data.Children()
	if len(children) != len(types) {
		return nil, contractError("%s array has %d children, expected %d", arr.DataType(), len(children), len(types))
	}

	cast := make([]arrow.ArrayData, len(children))
	defer func() {
		for _, c := range cast {
			if c != nil {
				c.Release()
			}
		}
	}()

	for i, child := range children {
		in := array.MakeFromData(child)
		out, err := castValues(ctx, in, types[i])
		in.Release()
		if err != nil {
			return nil, err
		}
		cast[i] = out.Data()
		cast[i].Retain()
		out.Release()
	}

	out := array.NewData(dt, data.Len(), data.Buffers(), cast, data.NullN(), data.Offset())
	defer out.Release()
	return array.MakeFromData(out), nil
}

// castArguments casts the element values of every argument to the type the
// resolution hashes on.
func castArguments(ctx context.Context, res *resolution, values []arrow.Array) ([]arrow.Array, error) {
	target := res.target()
	out := make([]arrow.Array, len(values))
	for i, v := range values {
		cast, err := castValues(ctx, v, target)
		if err != nil {
			releaseArrays(out)
			return nil, fmt.Errorf("setops: cast of argument %d from %s to %s: %w", i, v.DataType(), target, err)
		}
		out[i] = cast
		debug.Log("msg", "cast argument", "arg", i, "from", v.DataType(), "to", target)
	}
	return out, nil
}

// comparisonType returns a type both a and b can be cast to without loss,
// used to detect values a cast between them altered.
func comparisonType(a, b arrow.DataType) arrow.DataType {
	if dt, err := supertypeOf.unify([]arrow.DataType{a, b}); err == nil {
		return dt
	}

	switch {
	case arrow.IsFloating(a.ID()) || arrow.IsFloating(b.ID()):
		return arrow.PrimitiveTypes.Float64
	case arrow.IsInteger(a.ID()) && arrow.IsInteger(b.ID()):
		// wide enough for both int64 and uint64
		return &arrow.Decimal128Type{Precision: 20, Scale: 0}
	}
	return arrow.PrimitiveTypes.Int64
}

func releaseArrays(arrs []arrow.Array) {
	for _, a := range arrs {
		if a != nil {
			a.Release()
		}
	}
}
