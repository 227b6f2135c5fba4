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
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/compute"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSetOperations(t *testing.T) {
	reg := compute.NewRegistry()
	require.NoError(t, RegisterSetOperations(reg))

	for _, mode := range []Mode{ModeIntersect, ModeUnion, ModeSymmetricDifference} {
		fn, ok := reg.GetFunction(mode.String())
		require.Truef(t, ok, "%s not registered", mode)
		assert.Equal(t, compute.FuncScalar, fn.Kind())
		assert.True(t, fn.Arity().IsVarArgs)
		assert.NotEmpty(t, fn.Doc().Summary)
	}

	err := RegisterSetOperations(reg)
	assert.ErrorIs(t, err, arrow.ErrInvalid)
	assert.ErrorContains(t, err, "already registered")
}

func TestCallRegisteredFunction(t *testing.T) {
	reg := compute.GetFunctionRegistry()
	if _, ok := reg.GetFunction(ModeUnion.String()); !ok {
		require.NoError(t, RegisterSetOperations(reg))
	}

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)
	ctx := compute.WithAllocator(context.Background(), mem)

	dt := arrow.ListOf(arrow.PrimitiveTypes.Uint32)
	a, _, err := array.FromJSON(mem, dt, strings.NewReader(`[[1, 2], [7]]`))
	require.NoError(t, err)
	defer a.Release()
	b, _, err := array.FromJSON(mem, dt, strings.NewReader(`[[2, 3], [7]]`))
	require.NoError(t, err)
	defer b.Release()

	da, db := compute.NewDatum(a), compute.NewDatum(b)
	defer da.Release()
	defer db.Release()

	tests := []struct {
		name string
		want string
	}{
		{"array_intersect", `[[2], [7]]`},
		{"array_union", `[[1, 2, 3], [7]]`},
		{"array_symmetric_difference", `[[1, 3], []]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := compute.CallFunction(ctx, tt.name, nil, da, db)
			require.NoError(t, err)
			defer out.Release()

			got := out.(*compute.ArrayDatum).MakeArray()
			defer got.Release()
			want, _, err := array.FromJSON(mem, got.DataType(), strings.NewReader(tt.want))
			require.NoError(t, err)
			defer want.Release()
			assert.Truef(t, array.Equal(want, got), "got=%s, want=%s", got, want)
		})
	}
}
