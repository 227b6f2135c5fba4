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
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"array_intersect", ModeIntersect},
		{"intersect", ModeIntersect},
		{"arrayIntersect", ModeIntersect},
		{" Union ", ModeUnion},
		{"arrayUnion", ModeUnion},
		{"symdiff", ModeSymmetricDifference},
		{"symmetric_difference", ModeSymmetricDifference},
		{"arraySymmetricDifference", ModeSymmetricDifference},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMode("except")
	assert.ErrorIs(t, err, arrow.ErrInvalid)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "array_intersect", ModeIntersect.String())
	assert.Equal(t, "array_union", ModeUnion.String())
	assert.Equal(t, "array_symmetric_difference", ModeSymmetricDifference.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
