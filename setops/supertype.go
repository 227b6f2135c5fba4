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
	"github.com/apache/arrow/go/v17/arrow"
)

// unifier computes a single type for a set of related types: the least
// common supertype, or with subtype set the most specific common subtype.
//
// Arrow keeps nullability on fields, so for nested types the unifier also
// decides whether a child field is nullable: with nullsOr a child is
// nullable if it is nullable in any input, otherwise only if it is nullable
// in every input.
type unifier struct {
	subtype bool
	nullsOr bool
}

var (
	supertypeOf = unifier{nullsOr: true}
	subtypeOf   = unifier{subtype: true}
	// subtypeWithNulls is the nulls-preserving variant of subtypeOf.
	subtypeWithNulls = unifier{subtype: true, nullsOr: true}
)

func (u unifier) what() string {
	if u.subtype {
		return "common subtype"
	}
	return "supertype"
}

func (u unifier) nullable(flags []bool) bool {
	for _, f := range flags {
		if f == u.nullsOr {
			return u.nullsOr
		}
	}
	return !u.nullsOr
}

func (u unifier) unify(types []arrow.DataType) (arrow.DataType, error) {
	nonNull := make([]arrow.DataType, 0, len(types))
	for _, t := range types {
		if t.ID() == arrow.NULL {
			if u.subtype {
				return arrow.Null, nil
			}
			continue
		}
		nonNull = append(nonNull, t)
	}
	if len(nonNull) == 0 {
		return arrow.Null, nil
	}
	types = nonNull

	identical := true
	for _, t := range types[1:] {
		if !arrow.TypeEqual(types[0], t) {
			identical = false
			break
		}
	}
	if identical {
		return types[0], nil
	}

	var numeric, temporal, binary, nested int
	for _, t := range types {
		switch id := t.ID(); {
		case arrow.IsInteger(id), arrow.IsFloating(id), arrow.IsDecimal(id):
			numeric++
		case isTemporal(id):
			temporal++
		case isBaseBinary(id):
			binary++
		case isNested(id):
			nested++
		}
	}

	switch n := len(types); n {
	case numeric:
		return u.numeric(types)
	case temporal:
		return u.temporal(types)
	case binary:
		return u.binary(types), nil
	case nested:
		return u.nested(types)
	}
	return nil, noCommonTypeError(u.what(), types)
}

func minWidth(cur, bits int) int {
	if cur == 0 || bits < cur {
		return bits
	}
	return cur
}

func (u unifier) numeric(types []arrow.DataType) (arrow.DataType, error) {
	var (
		maxSigned, maxUnsigned, maxFloat int
		minSigned, minUnsigned, minFloat int
		decimals                         []arrow.DataType
	)

	for _, t := range types {
		bits := bitWidth(t)
		switch id := t.ID(); {
		case arrow.IsSignedInteger(id):
			maxSigned, minSigned = max(maxSigned, bits), minWidth(minSigned, bits)
		case arrow.IsUnsignedInteger(id):
			maxUnsigned, minUnsigned = max(maxUnsigned, bits), minWidth(minUnsigned, bits)
		case arrow.IsFloating(id):
			maxFloat, minFloat = max(maxFloat, bits), minWidth(minFloat, bits)
		default:
			decimals = append(decimals, t)
		}
	}

	if u.subtype {
		switch {
		case minSigned > 0 || minUnsigned > 0:
			// the intersection of a signed and an unsigned range is
			// [0, min(max signed, max unsigned)]
			switch {
			case minUnsigned == 0:
				return signedInt(minSigned), nil
			case minSigned == 0, minUnsigned < minSigned:
				return unsignedInt(minUnsigned), nil
			default:
				return signedInt(minSigned), nil
			}
		case minFloat > 0:
			return floating(minFloat), nil
		default:
			return decimalSupertype(decimals, 0, 0, types)
		}
	}

	if len(decimals) > 0 {
		if maxFloat > 0 {
			return nil, noCommonTypeError(u.what(), types)
		}
		return decimalSupertype(decimals, maxSigned, maxUnsigned, types)
	}

	if maxFloat > 0 {
		need := max(maxFloat, 2*max(maxSigned, maxUnsigned))
		if need > 64 {
			// no floating point type represents every 64-bit integer
			return nil, noCommonTypeError(u.what(), types)
		}
		return floating(need), nil
	}

	switch {
	case maxUnsigned == 0:
		return signedInt(maxSigned), nil
	case maxSigned == 0:
		return unsignedInt(maxUnsigned), nil
	case maxUnsigned < maxSigned:
		return signedInt(maxSigned), nil
	case 2*maxUnsigned > 64:
		return nil, noCommonTypeError(u.what(), types)
	default:
		return signedInt(2 * maxUnsigned), nil
	}
}

func integerDigits(bits int, signed bool) int32 {
	switch bits {
	case 8:
		return 3
	case 16:
		return 5
	case 32:
		return 10
	}
	if signed {
		return 19
	}
	return 20
}

func decimalSupertype(decimals []arrow.DataType, signedBits, unsignedBits int, all []arrow.DataType) (arrow.DataType, error) {
	var (
		scale, digits int32
		wide          bool
	)
	for _, t := range decimals {
		var p, s int32
		switch t := t.(type) {
		case *arrow.Decimal128Type:
			p, s = t.Precision, t.Scale
		case *arrow.Decimal256Type:
			p, s, wide = t.Precision, t.Scale, true
		}
		scale, digits = max(scale, s), max(digits, p-s)
	}
	if signedBits > 0 {
		digits = max(digits, integerDigits(signedBits, true))
	}
	if unsignedBits > 0 {
		digits = max(digits, integerDigits(unsignedBits, false))
	}

	precision := digits + scale
	switch {
	case precision <= 38 && !wide:
		return &arrow.Decimal128Type{Precision: precision, Scale: scale}, nil
	case precision <= 76:
		return &arrow.Decimal256Type{Precision: precision, Scale: scale}, nil
	}
	return nil, noCommonTypeError("supertype", all)
}

func timeUnitOf(dt arrow.DataType) arrow.TimeUnit {
	switch dt := dt.(type) {
	case *arrow.TimestampType:
		return dt.Unit
	case *arrow.Time32Type:
		return dt.Unit
	case *arrow.Time64Type:
		return dt.Unit
	case *arrow.DurationType:
		return dt.Unit
	case *arrow.Date64Type:
		return arrow.Millisecond
	}
	return arrow.Second
}

func (u unifier) temporal(types []arrow.DataType) (arrow.DataType, error) {
	var (
		date32s, date64s, timestamps, times, durations int
		unit                                           arrow.TimeUnit
		unitSet                                        bool
		zone                                           string
	)

	for _, t := range types {
		switch t.ID() {
		case arrow.DATE32:
			date32s++
			continue
		case arrow.DATE64:
			date64s++
			continue
		case arrow.TIMESTAMP:
			tz := t.(*arrow.TimestampType).TimeZone
			if timestamps > 0 && tz != zone {
				return nil, noCommonTypeError(u.what(), types)
			}
			zone = tz
			timestamps++
		case arrow.TIME32, arrow.TIME64:
			times++
		case arrow.DURATION:
			durations++
		}

		tu := timeUnitOf(t)
		switch {
		case !unitSet:
			unit, unitSet = tu, true
		case u.subtype && tu < unit, !u.subtype && tu > unit:
			unit = tu
		}
	}

	n := len(types)
	switch {
	case times == n:
		if unit <= arrow.Millisecond {
			return &arrow.Time32Type{Unit: unit}, nil
		}
		return &arrow.Time64Type{Unit: unit}, nil
	case durations == n:
		return &arrow.DurationType{Unit: unit}, nil
	case date32s+date64s+timestamps == n:
		dates := date32s + date64s
		switch {
		case u.subtype && date32s > 0, !u.subtype && timestamps == 0 && date64s == 0:
			return arrow.FixedWidthTypes.Date32, nil
		case u.subtype && dates > 0, !u.subtype && timestamps == 0:
			return arrow.FixedWidthTypes.Date64, nil
		}
		return &arrow.TimestampType{Unit: unit, TimeZone: zone}, nil
	}
	return nil, noCommonTypeError(u.what(), types)
}

func (u unifier) binary(types []arrow.DataType) arrow.DataType {
	var anyBinary, anyLarge bool
	allLarge := true
	for _, t := range types {
		switch t.ID() {
		case arrow.BINARY:
			anyBinary, allLarge = true, false
		case arrow.LARGE_BINARY:
			anyBinary, anyLarge = true, true
		case arrow.STRING:
			allLarge = false
		case arrow.LARGE_STRING:
			anyLarge = true
		}
	}

	large := anyLarge
	if u.subtype {
		large = allLarge
	}
	switch {
	case anyBinary && large:
		return arrow.BinaryTypes.LargeBinary
	case anyBinary:
		return arrow.BinaryTypes.Binary
	case large:
		return arrow.BinaryTypes.LargeString
	}
	return arrow.BinaryTypes.String
}

func (u unifier) nested(types []arrow.DataType) (arrow.DataType, error) {
	switch first := types[0].(type) {
	case *arrow.StructType:
		nfields := first.NumFields()
		for _, t := range types[1:] {
			st, ok := t.(*arrow.StructType)
			if !ok || st.NumFields() != nfields {
				return nil, noCommonTypeError(u.what(), types)
			}
			for i := 0; i < nfields; i++ {
				if st.Field(i).Name != first.Field(i).Name {
					return nil, noCommonTypeError(u.what(), types)
				}
			}
		}

		fields := make([]arrow.Field, nfields)
		for i := range fields {
			children := make([]arrow.DataType, len(types))
			flags := make([]bool, len(types))
			for j, t := range types {
				f := t.(*arrow.StructType).Field(i)
				children[j], flags[j] = f.Type, f.Nullable
			}
			child, err := u.unify(children)
			if err != nil {
				return nil, err
			}
			fields[i] = arrow.Field{Name: first.Field(i).Name, Type: child, Nullable: u.nullable(flags) || child.ID() == arrow.NULL}
		}
		return arrow.StructOf(fields...), nil

	case *arrow.ListType, *arrow.LargeListType:
		elems := make([]arrow.DataType, len(types))
		flags := make([]bool, len(types))
		anyLarge, allLarge := false, true
		for i, t := range types {
			elem, large, ok := listElem(t)
			if !ok {
				return nil, noCommonTypeError(u.what(), types)
			}
			elems[i], flags[i] = elem.Type, elem.Nullable
			anyLarge, allLarge = anyLarge || large, allLarge && large
		}
		child, err := u.unify(elems)
		if err != nil {
			return nil, err
		}
		large := anyLarge
		if u.subtype {
			large = allLarge
		}
		name, _, _ := listElem(types[0])
		return listOf(arrow.Field{Name: name.Name, Type: child, Nullable: u.nullable(flags) || child.ID() == arrow.NULL}, large), nil

	case *arrow.FixedSizeListType:
		elems := make([]arrow.DataType, len(types))
		flags := make([]bool, len(types))
		for i, t := range types {
			fsl, ok := t.(*arrow.FixedSizeListType)
			if !ok || fsl.Len() != first.Len() {
				return nil, noCommonTypeError(u.what(), types)
			}
			elems[i], flags[i] = fsl.Elem(), fsl.ElemField().Nullable
		}
		child, err := u.unify(elems)
		if err != nil {
			return nil, err
		}
		return arrow.FixedSizeListOfField(first.Len(), arrow.Field{
			Name: first.ElemField().Name, Type: child, Nullable: u.nullable(flags) || child.ID() == arrow.NULL}), nil
	}
	return nil, noCommonTypeError(u.what(), types)
}
