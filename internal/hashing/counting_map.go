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

// Package hashing provides the per-row counting map used by the set
// operation kernels.
package hashing

import (
	"github.com/dolthub/swiss"
)

// Consumed is the count stored for a key once it has been emitted. It is
// outside of [0, N] for any number of arguments N, so a consumed key never
// satisfies an emission predicate again.
const Consumed int32 = -1

// Entry is the counting state kept for a single distinct key.
type Entry[K comparable] struct {
	Key K
	// Count is the number of distinct arguments that contained Key, or
	// Consumed once the key has been emitted.
	Count int32
	// First is the position of the first occurrence of Key, as given to Add.
	First int64

	lastArg int32
}

// CountingMap counts, for every distinct key, how many distinct arguments
// contain it. It is meant to be reset between rows rather than reallocated:
// the swiss table and the entry slice keep their capacity across Reset calls.
//
// Entries are kept in first-insertion order.
type CountingMap[K comparable] struct {
	index   *swiss.Map[K, int32]
	entries []Entry[K]
}

// NewCountingMap returns a map with room for capacity keys before it grows.
func NewCountingMap[K comparable](capacity int) *CountingMap[K] {
	if capacity < 1 {
		capacity = 1
	}
	return &CountingMap[K]{
		index:   swiss.NewMap[K, int32](uint32(capacity)),
		entries: make([]Entry[K], 0, capacity),
	}
}

// Reset removes every key. When the previous row only touched a small part
// of the table the keys are deleted one by one, otherwise the whole table is
// cleared.
func (m *CountingMap[K]) Reset() {
	if len(m.entries) == 0 {
		return
	}
	if len(m.entries)*8 < m.index.Capacity() {
		for i := range m.entries {
			m.index.Delete(m.entries[i].Key)
		}
	} else {
		m.index.Clear()
	}
	m.entries = m.entries[:0]
}

// Add records that argument arg contains key at position pos. The count of a
// key is incremented at most once per argument, however many times the
// argument repeats the key.
func (m *CountingMap[K]) Add(key K, arg int, pos int64) {
	idx, ok := m.index.Get(key)
	if !ok {
		m.index.Put(key, int32(len(m.entries)))
		m.entries = append(m.entries, Entry[K]{Key: key, Count: 1, First: pos, lastArg: int32(arg)})
		return
	}

	e := &m.entries[idx]
	if e.Count == Consumed || e.lastArg == int32(arg) {
		return
	}
	e.lastArg = int32(arg)
	e.Count++
}

// Count returns the count of key and whether it is present.
func (m *CountingMap[K]) Count(key K) (int32, bool) {
	idx, ok := m.index.Get(key)
	if !ok {
		return 0, false
	}
	return m.entries[idx].Count, true
}

// Consume marks key as emitted.
func (m *CountingMap[K]) Consume(key K) {
	if idx, ok := m.index.Get(key); ok {
		m.entries[idx].Count = Consumed
	}
}

// Len returns the number of distinct keys.
func (m *CountingMap[K]) Len() int { return len(m.entries) }

// Entries returns the entries in first-insertion order. The slice is only
// valid until the next call to Reset or Add; callers may modify Count in
// place.
func (m *CountingMap[K]) Entries() []Entry[K] { return m.entries }
