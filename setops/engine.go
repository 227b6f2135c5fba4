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
	"github.com/flozdra/arrow-setops/internal/debug"
	"github.com/flozdra/arrow-setops/internal/hashing"
)

// initialCapacity is the number of distinct keys of a row the counting map
// holds before growing.
const initialCapacity = 64

// run executes mode row by row. keys[a] extracts the key of an element of
// argument a; resetRow, when set, is called at the start of every row once
// the keys of the previous row are no longer referenced.
func run[K comparable](mode Mode, u *unpacked, keys []func(int) K, resetRow func(), out *resultBuilder) {
	debug.Assert(len(keys) == len(u.views), "one key extractor per argument")

	nargs := len(u.views)
	counts := hashing.NewCountingMap[K](initialCapacity)
	for row := 0; row < u.rows; row++ {
		counts.Reset()
		if resetRow != nil {
			resetRow()
		}

		allHaveNulls, nullCount := true, 0
		for a := range u.views {
			v, key := &u.views[a], keys[a]
			lo, hi := v.bounds(row)
			hasNull := false
			for i := lo; i < hi; i++ {
				switch {
				case v.isNull(i):
					hasNull = true
				case v.overflowed(i):
				default:
					counts.Add(key(int(i)), a, v.base+i)
				}
			}
			if hasNull {
				nullCount++
			} else {
				allHaveNulls = false
			}
		}

		switch mode {
		case ModeUnion:
			emitCounted(counts, out, func(c int32) bool { return c >= 1 })
			if nullCount > 0 {
				out.emitNull()
			}
		case ModeSymmetricDifference:
			emitCounted(counts, out, func(c int32) bool { return c >= 1 && c < int32(nargs) })
			if nullCount > 0 && nullCount < nargs {
				out.emitNull()
			}
		case ModeIntersect:
			// rescan the first argument so the result keeps its order
			v, key := &u.views[0], keys[0]
			lo, hi := v.bounds(row)
			nullAdded := false
			for i := lo; i < hi; i++ {
				switch {
				case v.isNull(i):
					if allHaveNulls && !nullAdded {
						out.emitNull()
						nullAdded = true
					}
				case v.overflowed(i):
				default:
					k := key(int(i))
					if c, ok := counts.Count(k); ok && c == int32(nargs) {
						out.emit(v.base + i)
						counts.Consume(k)
					}
				}
			}
		}
		out.endRow()
	}
	debug.Log("msg", "set operation done", "mode", mode, "rows", u.rows, "emitted", out.len())
}

// emitCounted emits, in first appearance order, every key whose count
// satisfies keep.
func emitCounted[K comparable](counts *hashing.CountingMap[K], out *resultBuilder, keep func(int32) bool) {
	entries := counts.Entries()
	for i := range entries {
		if keep(entries[i].Count) {
			out.emit(entries[i].First)
			entries[i].Count = hashing.Consumed
		}
	}
}
