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
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
)

var (
	// ErrArgumentCount is returned when a set operation is called without
	// arguments.
	ErrArgumentCount = fmt.Errorf("%w: wrong number of arguments", arrow.ErrInvalid)
	// ErrArgumentType is returned when an argument is not a list, or when no
	// common element type exists for the arguments.
	ErrArgumentType = fmt.Errorf("%w: illegal type of argument", arrow.ErrType)
	// ErrInternalContract signals input that validly typed callers cannot
	// produce: mismatched row counts, or a column whose concrete layout does
	// not match its declared type.
	ErrInternalContract = errors.New("setops: internal contract violation")
)

func argumentTypeError(mode Mode, idx int, dt arrow.DataType) error {
	return fmt.Errorf("%w: argument %d for function %s must be a list but it has type %s",
		ErrArgumentType, idx, mode, dt)
}

func noCommonTypeError(kind string, types []arrow.DataType) error {
	return fmt.Errorf("%w: there is no %s for types %s",
		ErrArgumentType, kind, arrow.TypesToString(types))
}

func contractError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInternalContract}, args...)...)
}
