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

// Package setops implements set operations over Arrow list columns:
// intersection, union and symmetric difference of the arrays found in the
// same row of N list arguments.
//
// Arguments may have different but related element types. A common element
// type is resolved first (the most specific common subtype for Intersect,
// the least common supertype otherwise), every argument is cast to it, and
// the rows are processed with a per-row counting map:
//
//	intersect([1, 2], [1, 3], [1, 4])            -> [1]
//	union([-2, 1], [10, 1], [-2], [])            -> [-2, 1, 10]
//	symmetric_difference([1, 2], [1, 2], [1, 3]) -> [2, 3]
//
// Values altered by a narrowing cast are never reported as matching, so
// intersect([256], list<int8>[0]) is empty even though 256 wraps to 0 as an
// int8.
//
// Symmetric difference here returns the elements that are not present in
// all arguments, not the n-ary "odd number of inputs" definition.
//
// Arguments may be constant (a list scalar broadcast to every row). The
// allocator used for all intermediate and output buffers is taken from the
// context, see compute.WithAllocator.
package setops
