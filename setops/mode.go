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
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
)

// Mode selects the set operation and its emission policy.
type Mode int8

const (
	// ModeIntersect keeps the elements present in every argument, in the
	// order of the first argument.
	ModeIntersect Mode = iota
	// ModeUnion keeps the elements present in at least one argument.
	ModeUnion
	// ModeSymmetricDifference keeps the elements present in some but not
	// all of the arguments.
	ModeSymmetricDifference
)

var modeNames = [...]string{
	ModeIntersect:           "array_intersect",
	ModeUnion:               "array_union",
	ModeSymmetricDifference: "array_symmetric_difference",
}

// String returns the name the mode is registered under.
func (m Mode) String() string {
	if int(m) < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int8(m))
	}
	return modeNames[m]
}

// ParseMode parses a mode from its registered name, its short name
// (intersect, union, symdiff, symmetric_difference) or its camel case
// name (arrayIntersect, arrayUnion, arraySymmetricDifference).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "array_intersect", "intersect", "arrayintersect":
		return ModeIntersect, nil
	case "array_union", "union", "arrayunion":
		return ModeUnion, nil
	case "array_symmetric_difference", "symmetric_difference", "symdiff", "arraysymmetricdifference":
		return ModeSymmetricDifference, nil
	}
	return 0, fmt.Errorf("%w: unknown set operation %q", arrow.ErrInvalid, s)
}
