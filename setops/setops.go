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
	"github.com/flozdra/arrow-setops/internal/debug"
)

// Exec applies mode to args row by row. Every argument is a list or
// large_list column (an array or chunked array datum) or a constant list
// (a scalar datum). Non-constant arguments must all have the same length.
//
// The result is an array datum of the type ResolveType returns, or a scalar
// datum when every argument is a scalar. Memory is allocated from the
// allocator of ctx, see compute.WithAllocator.
func Exec(ctx context.Context, mode Mode, args ...compute.Datum) (compute.Datum, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: function %s requires at least one argument", ErrArgumentCount, mode)
	}

	types := make([]arrow.DataType, len(args))
	for i, a := range args {
		var err error
		if types[i], err = datumType(mode, i, a); err != nil {
			return nil, err
		}
	}
	res, err := resolve(mode, types)
	if err != nil {
		return nil, err
	}

	inputs, err := unwrapArguments(ctx, mode, args)
	if err != nil {
		return nil, err
	}
	defer releaseArguments(inputs)

	rows, constant, err := baseRows(inputs)
	if err != nil {
		return nil, err
	}

	var out arrow.Array
	if res.nothing() {
		out, err = emptyResult(res, rows)
	} else {
		out, err = execArguments(ctx, res, inputs)
	}
	if err != nil {
		return nil, err
	}
	defer out.Release()

	if constant {
		sc, err := scalar.GetScalar(out, 0)
		if err != nil {
			return nil, err
		}
		return compute.NewDatum(sc), nil
	}
	return compute.NewDatum(out), nil
}

func execArguments(ctx context.Context, res *resolution, inputs []argument) (arrow.Array, error) {
	initial := make([]arrow.Array, len(inputs))
	for i := range inputs {
		initial[i] = inputs[i].values
	}
	cast, err := castArguments(ctx, res, initial)
	if err != nil {
		return nil, err
	}
	defer releaseArrays(cast)

	u, err := unpack(ctx, inputs, cast)
	if err != nil {
		return nil, err
	}
	defer u.release()

	source, err := emissionSource(ctx, res.mode, cast)
	if err != nil {
		return nil, err
	}
	defer source.Release()

	out := newResultBuilder(compute.GetAllocator(ctx), u.rows)
	defer out.release()

	target := res.target()
	debug.Log("msg", "executing", "mode", res.mode, "type", target, "kind", kindOf(target), "args", len(inputs), "rows", u.rows)
	if err := execute(res.mode, u, target, out); err != nil {
		return nil, err
	}
	return out.finish(ctx, res, source)
}

// emissionSource returns the array the emitted positions index into: the
// cast values of every argument back to back. An intersection only emits
// from its first argument.
func emissionSource(ctx context.Context, mode Mode, cast []arrow.Array) (arrow.Array, error) {
	if mode == ModeIntersect || len(cast) == 1 {
		cast[0].Retain()
		return cast[0], nil
	}
	return array.Concatenate(cast, compute.GetAllocator(ctx))
}

// Intersect is Exec with ModeIntersect.
func Intersect(ctx context.Context, args ...compute.Datum) (compute.Datum, error) {
	return Exec(ctx, ModeIntersect, args...)
}

// Union is Exec with ModeUnion.
func Union(ctx context.Context, args ...compute.Datum) (compute.Datum, error) {
	return Exec(ctx, ModeUnion, args...)
}

// SymmetricDifference is Exec with ModeSymmetricDifference.
func SymmetricDifference(ctx context.Context, args ...compute.Datum) (compute.Datum, error) {
	return Exec(ctx, ModeSymmetricDifference, args...)
}

// ExecArrays is Exec for list arrays of equal length.
func ExecArrays(ctx context.Context, mode Mode, arrs ...arrow.Array) (arrow.Array, error) {
	args := make([]compute.Datum, len(arrs))
	for i, a := range arrs {
		args[i] = compute.NewDatum(a)
		defer args[i].Release()
	}

	out, err := Exec(ctx, mode, args...)
	if err != nil {
		return nil, err
	}
	defer out.Release()
	return out.(*compute.ArrayDatum).MakeArray(), nil
}
