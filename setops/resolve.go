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
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
)

// resolution is the outcome of type resolution for one call.
type resolution struct {
	mode Mode
	// listType is the type of the result column.
	listType arrow.DataType
	// elem is the result element type, arrow.Null when the result can only
	// hold empty lists.
	elem     arrow.DataType
	nullable bool
	// withNulls is elem with every nested field nullable wherever some
	// argument had it nullable. Structural values are cast to it so that
	// no nested null is lost before comparison.
	withNulls arrow.DataType
	large     bool
}

func (r *resolution) nothing() bool { return r.elem.ID() == arrow.NULL }

// target is the type argument values are cast to before hashing.
func (r *resolution) target() arrow.DataType {
	if isPrimitive(r.elem) {
		return r.elem
	}
	return r.withNulls
}

func resolve(mode Mode, types []arrow.DataType) (*resolution, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: function %s requires at least one argument", ErrArgumentCount, mode)
	}

	elems := make([]arrow.DataType, 0, len(types))
	var (
		decimal, nonDecimal         arrow.DataType
		nothing, large, anyNullable bool
	)
	allNullable := true
	for i, dt := range types {
		field, isLarge, ok := listElem(dt)
		if !ok {
			return nil, argumentTypeError(mode, i, dt)
		}
		large = large || isLarge
		anyNullable = anyNullable || field.Nullable
		allNullable = allNullable && field.Nullable

		if field.Type.ID() == arrow.NULL {
			// an empty or all-null argument intersects to nothing and
			// contributes nothing to a union
			nothing = nothing || mode == ModeIntersect
			continue
		}
		elems = append(elems, field.Type)

		if mode == ModeUnion {
			if arrow.IsDecimal(field.Type.ID()) {
				decimal = field.Type
			} else {
				nonDecimal = field.Type
			}
			if decimal != nil && nonDecimal != nil {
				return nil, fmt.Errorf("%w: function %s cannot combine %s and %s",
					ErrArgumentType, mode, nonDecimal, decimal)
			}
		}
	}

	res := &resolution{mode: mode, large: large, nullable: anyNullable}
	if mode == ModeIntersect {
		res.nullable = allNullable
	}

	var err error
	switch {
	case nothing || len(elems) == 0:
		res.elem, res.withNulls, res.nullable = arrow.Null, arrow.Null, true
	case mode == ModeIntersect:
		if res.elem, err = subtypeOf.unify(elems); err != nil {
			return nil, err
		}
		if res.withNulls, err = subtypeWithNulls.unify(elems); err != nil {
			return nil, err
		}
	default:
		if res.elem, err = supertypeOf.unify(elems); err != nil {
			return nil, err
		}
		res.withNulls = res.elem
	}
	if res.elem.ID() == arrow.NULL {
		res.nullable = true
	}

	res.listType = listOf(arrow.Field{Name: "item", Type: res.elem, Nullable: res.nullable}, large)
	return res, nil
}

// ResolveType returns the type of the column mode produces for arguments of
// the given types, or an error wrapping ErrArgumentCount or ErrArgumentType
// if the call is invalid.
func ResolveType(mode Mode, types ...arrow.DataType) (arrow.DataType, error) {
	res, err := resolve(mode, types)
	if err != nil {
		return nil, err
	}
	return res.listType, nil
}
