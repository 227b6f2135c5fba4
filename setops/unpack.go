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
	"github.com/apache/arrow/go/v17/arrow/scalar"
)

// argument is a single call argument with its list structure exposed.
type argument struct {
	constant bool
	// list is the list column, nil for a constant.
	list array.ListLike
	// values are the element values before any cast. For a constant they
	// are the elements of its only list.
	values arrow.Array
}

func (a *argument) release() {
	if a.list != nil {
		a.list.Release()
	}
	if a.values != nil {
		a.values.Release()
	}
}

func releaseArguments(args []argument) {
	for i := range args {
		args[i].release()
	}
}

func datumKindError(mode Mode, idx int, d compute.Datum) error {
	return fmt.Errorf("%w: argument %d for function %s must be an array or a scalar, got %s",
		ErrArgumentType, idx, mode, d.Kind())
}

func datumType(mode Mode, idx int, d compute.Datum) (arrow.DataType, error) {
	if d, ok := d.(compute.ArrayLikeDatum); ok {
		return d.Type(), nil
	}
	return nil, datumKindError(mode, idx, d)
}

// unwrap exposes the list structure of d. Chunked columns are concatenated.
func unwrap(ctx context.Context, mode Mode, idx int, d compute.Datum) (argument, error) {
	mem := compute.GetAllocator(ctx)

	var arr arrow.Array
	switch d := d.(type) {
	case *compute.ScalarDatum:
		sc, ok := d.Value.(scalar.ListScalar)
		if _, _, isList := listElem(d.Type()); !ok || !isList {
			return argument{}, argumentTypeError(mode, idx, d.Type())
		}
		var values arrow.Array
		if sc.IsValid() && sc.GetList() != nil {
			values = sc.GetList()
			values.Retain()
		} else {
			elem, _, _ := listElem(d.Type())
			values = array.MakeArrayOfNull(mem, elem.Type, 0)
		}
		return argument{constant: true, values: values}, nil
	case *compute.ArrayDatum:
		arr = d.MakeArray()
	case *compute.ChunkedDatum:
		chunks := d.Value.Chunks()
		if len(chunks) == 0 {
			arr = array.MakeArrayOfNull(mem, d.Type(), 0)
			break
		}
		var err error
		if arr, err = array.Concatenate(chunks, mem); err != nil {
			return argument{}, err
		}
	default:
		return argument{}, datumKindError(mode, idx, d)
	}

	list, ok := arr.(array.ListLike)
	if _, _, isList := listElem(arr.DataType()); !ok || !isList {
		arr.Release()
		return argument{}, argumentTypeError(mode, idx, arr.DataType())
	}
	values := list.ListValues()
	values.Retain()
	return argument{list: list, values: values}, nil
}

func unwrapArguments(ctx context.Context, mode Mode, datums []compute.Datum) ([]argument, error) {
	args := make([]argument, 0, len(datums))
	for i, d := range datums {
		arg, err := unwrap(ctx, mode, i, d)
		if err != nil {
			releaseArguments(args)
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// baseRows returns the number of rows of the call: the common length of the
// non-constant arguments, or 1 when every argument is constant.
func baseRows(args []argument) (rows int, constant bool, err error) {
	rows = -1
	for i := range args {
		if args[i].constant {
			continue
		}
		n := args[i].list.Len()
		switch {
		case rows < 0:
			rows = n
		case n != rows:
			return 0, false, contractError("argument %d has %d rows, expected %d", i, n, rows)
		}
	}
	if rows < 0 {
		return 1, true, nil
	}
	return rows, false, nil
}

// view is the per-argument state the counting engine iterates over.
type view struct {
	constant bool
	list     array.ListLike
	// values are the cast element values.
	values   arrow.Array
	hasNulls bool
	// overflow marks elements whose cast value differs from the original,
	// nil when the cast cannot alter values.
	overflow *array.Boolean
	// base is the position of values[0] in the emission source.
	base int64
}

// bounds returns the element range of row. Null rows are empty.
func (v *view) bounds(row int) (int64, int64) {
	if v.constant {
		return 0, int64(v.values.Len())
	}
	if v.list.IsNull(row) {
		return 0, 0
	}
	return v.list.ValueOffsets(row)
}

func (v *view) isNull(i int64) bool { return v.hasNulls && v.values.IsNull(int(i)) }

// overflowed reports whether element i was altered by the cast. A null in
// the mask means the original or the cast value was null, which the null
// check already handles.
func (v *view) overflowed(i int64) bool {
	return v.overflow != nil && v.overflow.IsValid(int(i)) && v.overflow.Value(int(i))
}

type unpacked struct {
	views    []view
	rows     int
	constant bool
}

func (u *unpacked) release() {
	for i := range u.views {
		if u.views[i].overflow != nil {
			u.views[i].overflow.Release()
		}
	}
}

// unpack builds the views over the arguments and their cast values. cast
// stays owned by the caller.
func unpack(ctx context.Context, args []argument, cast []arrow.Array) (*unpacked, error) {
	rows, constant, err := baseRows(args)
	if err != nil {
		return nil, err
	}

	u := &unpacked{views: make([]view, len(args)), rows: rows, constant: constant}
	var base int64
	for i := range args {
		v := &u.views[i]
		v.constant, v.list, v.values, v.base = args[i].constant, args[i].list, cast[i], base
		v.hasNulls = cast[i].NullN() > 0
		base += int64(cast[i].Len())

		if cast[i].Len() != args[i].values.Len() {
			u.release()
			return nil, contractError("argument %d has %d values after cast, expected %d", i, cast[i].Len(), args[i].values.Len())
		}
		if v.overflow, err = overflowMask(ctx, args[i].values, cast[i]); err != nil {
			u.release()
			return nil, err
		}
	}
	return u, nil
}

// overflowMask compares the values before and after a cast between integer
// or date-like types. It returns nil when no such cast took place.
func overflowMask(ctx context.Context, initial, cast arrow.Array) (*array.Boolean, error) {
	from, to := initial.DataType(), cast.DataType()
	if arrow.TypeEqual(from, to) || from.ID() == arrow.NULL || !(isIntegerLike(from) || isIntegerLike(to)) {
		return nil, nil
	}

	// widening casts preserve every value
	if dt, err := supertypeOf.unify([]arrow.DataType{from, to}); err == nil && arrow.TypeEqual(dt, to) {
		return nil, nil
	}

	cmp := comparisonType(from, to)
	lhs, err := castValues(ctx, initial, cmp)
	if err != nil {
		return nil, err
	}
	defer lhs.Release()
	rhs, err := castValues(ctx, cast, cmp)
	if err != nil {
		return nil, err
	}
	defer rhs.Release()

	ld, rd := compute.NewDatum(lhs), compute.NewDatum(rhs)
	defer ld.Release()
	defer rd.Release()
	out, err := compute.CallFunction(ctx, "not_equal", nil, ld, rd)
	if err != nil {
		return nil, fmt.Errorf("setops: comparing %s with %s: %w", from, to, err)
	}
	defer out.Release()

	arr := out.(*compute.ArrayDatum).MakeArray()
	mask, ok := arr.(*array.Boolean)
	if !ok {
		arr.Release()
		return nil, contractError("not_equal returned %s", arr.DataType())
	}
	return mask, nil
}
