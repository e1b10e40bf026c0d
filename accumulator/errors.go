// Copyright 2025 CardinalHQ, Inc
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package accumulator

import "errors"

// These are logic errors, not transient failures.  They indicate a
// construction or scheduling bug in the caller, and callers should
// treat them as fatal for the affected computation rather than retry.
var (
	// ErrTypeMismatch is returned when merging accumulators of
	// differing concrete types.
	ErrTypeMismatch = errors.New("accumulator type mismatch")

	// ErrLengthMismatch is returned when merging compound
	// accumulators with differing child counts.
	ErrLengthMismatch = errors.New("compound accumulator length mismatch")

	// ErrDeserializedType is returned when a deserialized payload
	// reconstructs to a type other than the one the caller expected.
	ErrDeserializedType = errors.New("deserialized accumulator type mismatch")

	// ErrEmptyInput is returned by Merge when the input sequence
	// yields no accumulators.
	ErrEmptyInput = errors.New("no accumulators to merge")

	// ErrUnknownKind is returned when a serialized envelope names a
	// kind with no registered factory.
	ErrUnknownKind = errors.New("unknown accumulator kind")
)
