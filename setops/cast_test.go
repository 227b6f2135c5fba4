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
	"github.com/stretchr/testify/suite"
)

type CastSuite struct {
	suite.Suite

	mem *memory.CheckedAllocator
	ctx context.Context
}

func (c *CastSuite) SetupTest() {
	c.mem = memory.NewCheckedAllocator(memory.NewGoAllocator())
	c.ctx = compute.WithAllocator(context.Background(), c.mem)
}

func (c *CastSuite) TearDownTest() {
	c.mem.AssertSize(c.T(), 0)
}

func (c *CastSuite) arrayOf(dt arrow.DataType, data string) arrow.Array {
	arr, _, err := array.FromJSON(c.mem, dt, strings.NewReader(data))
	c.Require().NoError(err)
	return arr
}

func (c *CastSuite) checkCast(from, to arrow.DataType, data, want string) {
	in := c.arrayOf(from, data)
	defer in.Release()

	out, err := castValues(c.ctx, in, to)
	c.Require().NoError(err)
	defer out.Release()
	c.Truef(arrow.TypeEqual(to, out.DataType()), "got %s, want %s", out.DataType(), to)

	expected := c.arrayOf(to, want)
	defer expected.Release()
	c.Truef(array.Equal(expected, out), "got=%s, want=%s", out, expected)
}

func (c *CastSuite) TestSameType() {
	in := c.arrayOf(arrow.PrimitiveTypes.Int8, `[1, null]`)
	defer in.Release()

	out, err := castValues(c.ctx, in, arrow.PrimitiveTypes.Int8)
	c.Require().NoError(err)
	defer out.Release()
	c.Same(in.Data(), out.Data())
}

func (c *CastSuite) TestPrimitive() {
	c.checkCast(arrow.PrimitiveTypes.Uint8, arrow.PrimitiveTypes.Int16, `[1, 255, null]`, `[1, 255, null]`)
	// overflow and truncation are allowed, callers mask them
	c.checkCast(arrow.PrimitiveTypes.Int64, arrow.PrimitiveTypes.Int8, `[256, 1]`, `[0, 1]`)
	c.checkCast(arrow.PrimitiveTypes.Float64, arrow.PrimitiveTypes.Int32, `[1.5, 2]`, `[1, 2]`)
	c.checkCast(arrow.BinaryTypes.String, arrow.BinaryTypes.LargeString, `["a", null]`, `["a", null]`)
}

func (c *CastSuite) TestNull() {
	c.checkCast(arrow.Null, arrow.BinaryTypes.String, `[null, null]`, `[null, null]`)
}

func (c *CastSuite) TestStruct() {
	from := arrow.StructOf(
		arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int8},
		arrow.Field{Name: "b", Type: arrow.Null, Nullable: true})
	to := arrow.StructOf(
		arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		arrow.Field{Name: "b", Type: arrow.BinaryTypes.String, Nullable: true})

	c.checkCast(from, to, `[{"a": 1, "b": null}, null, {"a": -3, "b": null}]`,
		`[{"a": 1, "b": null}, null, {"a": -3, "b": null}]`)
}

func (c *CastSuite) TestSlicedStruct() {
	from := arrow.StructOf(arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int8})
	to := arrow.StructOf(arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int64})

	full := c.arrayOf(from, `[{"a": 1}, {"a": 2}, {"a": 3}]`)
	defer full.Release()
	sliced := array.NewSlice(full, 1, 3)
	defer sliced.Release()

	out, err := castValues(c.ctx, sliced, to)
	c.Require().NoError(err)
	defer out.Release()

	expected := c.arrayOf(to, `[{"a": 2}, {"a": 3}]`)
	defer expected.Release()
	c.Truef(array.Equal(expected, out), "got=%s, want=%s", out, expected)
}

func (c *CastSuite) TestNestedList() {
	c.checkCast(arrow.ListOf(arrow.PrimitiveTypes.Int8), arrow.ListOf(arrow.PrimitiveTypes.Int64),
		`[[1, 2], null, []]`, `[[1, 2], null, []]`)
	c.checkCast(arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Uint8), arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Uint16),
		`[[1, 2], null]`, `[[1, 2], null]`)
}

func (c *CastSuite) TestComparisonType() {
	tests := []struct {
		a, b, want arrow.DataType
	}{
		{arrow.PrimitiveTypes.Int64, arrow.PrimitiveTypes.Int8, arrow.PrimitiveTypes.Int64},
		{arrow.PrimitiveTypes.Uint64, arrow.PrimitiveTypes.Int64, &arrow.Decimal128Type{Precision: 20}},
		{arrow.PrimitiveTypes.Float64, arrow.PrimitiveTypes.Int64, arrow.PrimitiveTypes.Float64},
	}
	for _, tt := range tests {
		got := comparisonType(tt.a, tt.b)
		c.Truef(arrow.TypeEqual(tt.want, got), "comparisonType(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
	}
}

func TestCast(t *testing.T) {
	suite.Run(t, new(CastSuite))
}
