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
	"github.com/apache/arrow/go/v17/arrow/compute"
)

var (
	intersectDoc = compute.FunctionDoc{
		Summary: "Elements present in every list argument",
		Description: ("For each row, return the distinct elements contained in every\n" +
			"list argument, in the order of the first argument. A null element\n" +
			"is kept if every argument contains a null. Constant arguments apply\n" +
			"to every row."),
		ArgNames: []string{"lists"},
	}
	unionDoc = compute.FunctionDoc{
		Summary: "Elements present in any list argument",
		Description: ("For each row, return the distinct elements contained in at least\n" +
			"one list argument, in order of first appearance. A single null\n" +
			"element is kept if any argument contains a null."),
		ArgNames: []string{"lists"},
	}
	symmetricDifferenceDoc = compute.FunctionDoc{
		Summary: "Elements present in some but not all list arguments",
		Description: ("For each row, return the distinct elements contained in at least\n" +
			"one list argument but not in all of them, in order of first\n" +
			"appearance. A single null element is kept if some but not all\n" +
			"arguments contain a null."),
		ArgNames: []string{"lists"},
	}
)

// setOpFunction exposes a set operation through a compute.FunctionRegistry.
// It has no kernels: type resolution depends on every argument at once, so
// Execute bypasses kernel dispatch.
type setOpFunction struct {
	compute.ScalarFunction

	mode Mode
}

func newSetOpFunction(mode Mode, doc compute.FunctionDoc) *setOpFunction {
	return &setOpFunction{
		ScalarFunction: *compute.NewScalarFunction(mode.String(), compute.VarArgs(1), doc),
		mode:           mode,
	}
}

func (fn *setOpFunction) Execute(ctx context.Context, _ compute.FunctionOptions, args ...compute.Datum) (compute.Datum, error) {
	return Exec(ctx, fn.mode, args...)
}

// RegisterSetOperations adds array_intersect, array_union and
// array_symmetric_difference to reg, so that they can be called with
// compute.CallFunction. It fails if one of the names is already taken.
func RegisterSetOperations(reg compute.FunctionRegistry) error {
	fns := []*setOpFunction{
		newSetOpFunction(ModeIntersect, intersectDoc),
		newSetOpFunction(ModeUnion, unionDoc),
		newSetOpFunction(ModeSymmetricDifference, symmetricDifferenceDoc),
	}
	for _, fn := range fns {
		if err := fn.Validate(); err != nil {
			return err
		}
		if ok := reg.AddFunction(fn, false); !ok {
			return fmt.Errorf("%w: function %s is already registered", arrow.ErrInvalid, fn.Name())
		}
	}
	return nil
}
