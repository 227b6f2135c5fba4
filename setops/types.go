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

// elemKind is the closed set of key extraction strategies. Every element
// type maps to exactly one kind.
type elemKind int8

const (
	kindNarrowInt elemKind = iota
	kindWideInt
	kindFloat
	kindDecimal
	kindDateLike
	kindString
	kindFixedString
	kindSerialized
)

func (k elemKind) String() string {
	switch k {
	case kindNarrowInt:
		return "narrow-int"
	case kindWideInt:
		return "wide-int"
	case kindFloat:
		return "float"
	case kindDecimal:
		return "decimal"
	case kindDateLike:
		return "date-like"
	case kindString:
		return "string"
	case kindFixedString:
		return "fixed-string"
	default:
		return "serialized"
	}
}

func kindOf(dt arrow.DataType) elemKind {
	switch dt.ID() {
	case arrow.BOOL, arrow.INT8, arrow.UINT8, arrow.INT16, arrow.UINT16, arrow.INT32, arrow.UINT32:
		return kindNarrowInt
	case arrow.INT64, arrow.UINT64:
		return kindWideInt
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return kindFloat
	case arrow.DECIMAL128, arrow.DECIMAL256:
		return kindDecimal
	case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP, arrow.TIME32, arrow.TIME64, arrow.DURATION:
		return kindDateLike
	case arrow.STRING, arrow.LARGE_STRING, arrow.BINARY, arrow.LARGE_BINARY:
		return kindString
	case arrow.FIXED_SIZE_BINARY:
		return kindFixedString
	default:
		return kindSerialized
	}
}

// isPrimitive reports whether values of dt are cast directly to the resolved
// element type, as opposed to the nulls-preserving variant used for
// structural types.
func isPrimitive(dt arrow.DataType) bool { return kindOf(dt) != kindSerialized }

// isIntegerLike reports whether a cast to or from dt can silently alter a
// value in a way that has to be masked: integers and every date/time type.
func isIntegerLike(dt arrow.DataType) bool {
	return arrow.IsInteger(dt.ID()) || kindOf(dt) == kindDateLike
}

func isTemporal(id arrow.Type) bool {
	switch id {
	case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP, arrow.TIME32, arrow.TIME64, arrow.DURATION:
		return true
	}
	return false
}

func isBaseBinary(id arrow.Type) bool {
	switch id {
	case arrow.STRING, arrow.LARGE_STRING, arrow.BINARY, arrow.LARGE_BINARY:
		return true
	}
	return false
}

func isNested(id arrow.Type) bool {
	switch id {
	case arrow.STRUCT, arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		return true
	}
	return false
}

func bitWidth(dt arrow.DataType) int {
	if fw, ok := dt.(arrow.FixedWidthDataType); ok {
		return fw.BitWidth()
	}
	return 0
}

func signedInt(bits int) arrow.DataType {
	switch {
	case bits <= 8:
		return arrow.PrimitiveTypes.Int8
	case bits <= 16:
		return arrow.PrimitiveTypes.Int16
	case bits <= 32:
		return arrow.PrimitiveTypes.Int32
	default:
		return arrow.PrimitiveTypes.Int64
	}
}

func unsignedInt(bits int) arrow.DataType {
	switch {
	case bits <= 8:
		return arrow.PrimitiveTypes.Uint8
	case bits <= 16:
		return arrow.PrimitiveTypes.Uint16
	case bits <= 32:
		return arrow.PrimitiveTypes.Uint32
	default:
		return arrow.PrimitiveTypes.Uint64
	}
}

func floating(bits int) arrow.DataType {
	switch {
	case bits <= 16:
		return arrow.FixedWidthTypes.Float16
	case bits <= 32:
		return arrow.PrimitiveTypes.Float32
	default:
		return arrow.PrimitiveTypes.Float64
	}
}

// listElem returns the element field of a list or large_list type.
func listElem(dt arrow.DataType) (elem arrow.Field, large, ok bool) {
	switch dt := dt.(type) {
	case *arrow.ListType:
		return dt.ElemField(), false, true
	case *arrow.LargeListType:
		return dt.ElemField(), true, true
	}
	return arrow.Field{}, false, false
}

func listOf(elem arrow.Field, large bool) arrow.DataType {
	if large {
		return arrow.LargeListOfField(elem)
	}
	return arrow.ListOfField(elem)
}
