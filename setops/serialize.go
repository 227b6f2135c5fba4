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
	"encoding/binary"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
)

// encoder appends a self-delimiting encoding of element i to dst. Two
// elements of the same type have equal encodings if and only if they are
// equal, nested nulls included.
type encoder func(dst []byte, i int) []byte

// arena holds the encodings of the structural values of the current row.
// Keys alias the arena, so it must only be reset once the counting map no
// longer references them.
type arena struct {
	buf []byte
}

func (a *arena) reset() { a.buf = a.buf[:0] }

// keys returns a key extractor encoding the elements of arr into the arena.
func (a *arena) keys(arr arrow.Array) (func(int) string, error) {
	enc, err := newEncoder(arr)
	if err != nil {
		return nil, err
	}
	return func(i int) string {
		start := len(a.buf)
		a.buf = enc(a.buf, i)
		return bytesKey(a.buf[start:])
	}, nil
}

func appendLength(dst []byte, n int) []byte { return binary.AppendUvarint(dst, uint64(n)) }

func newEncoder(arr arrow.Array) (encoder, error) {
	enc, err := newValueEncoder(arr)
	if err != nil {
		return nil, err
	}
	return func(dst []byte, i int) []byte {
		if arr.IsNull(i) {
			return append(dst, 0)
		}
		return enc(append(dst, 1), i)
	}, nil
}

// newValueEncoder returns the encoder of the non-null elements of arr.
func newValueEncoder(arr arrow.Array) (encoder, error) {
	switch arr := arr.(type) {
	case *array.Null:
		return func(dst []byte, _ int) []byte { return dst }, nil
	case *array.Struct:
		fields := make([]encoder, arr.NumField())
		for j := range fields {
			var err error
			if fields[j], err = newEncoder(arr.Field(j)); err != nil {
				return nil, err
			}
		}
		return func(dst []byte, i int) []byte {
			for _, f := range fields {
				dst = f(dst, i)
			}
			return dst
		}, nil
	case array.ListLike:
		elems, err := newEncoder(arr.ListValues())
		if err != nil {
			return nil, err
		}
		return func(dst []byte, i int) []byte {
			start, end := arr.ValueOffsets(i)
			dst = appendLength(dst, int(end-start))
			for k := start; k < end; k++ {
				dst = elems(dst, int(k))
			}
			return dst
		}, nil
	}

	switch kindOf(arr.DataType()) {
	case kindNarrowInt, kindWideInt, kindFloat, kindDateLike:
		key, err := fixedWidthKeys(arr)
		if err != nil {
			return nil, err
		}
		return func(dst []byte, i int) []byte { return binary.LittleEndian.AppendUint64(dst, key(i)) }, nil
	case kindDecimal:
		if arr.DataType().ID() == arrow.DECIMAL256 {
			key, err := decimal256Keys(arr)
			if err != nil {
				return nil, err
			}
			return func(dst []byte, i int) []byte {
				for _, w := range key(i).Array() {
					dst = binary.LittleEndian.AppendUint64(dst, w)
				}
				return dst
			}, nil
		}
		key, err := decimal128Keys(arr)
		if err != nil {
			return nil, err
		}
		return func(dst []byte, i int) []byte {
			n := key(i)
			dst = binary.LittleEndian.AppendUint64(dst, n.LowBits())
			return binary.LittleEndian.AppendUint64(dst, uint64(n.HighBits()))
		}, nil
	case kindString, kindFixedString:
		key, err := binaryKeys(arr)
		if err != nil {
			return nil, err
		}
		return func(dst []byte, i int) []byte {
			k := key(i)
			return append(appendLength(dst, len(k)), k...)
		}, nil
	}

	// dictionaries, unions and the like compare by their rendering
	return func(dst []byte, i int) []byte {
		s := arr.ValueStr(i)
		return append(appendLength(dst, len(s)), s...)
	}, nil
}
