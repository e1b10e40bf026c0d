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

import (
	"iter"
	"slices"
)

// Merge folds a sequence of same-kind accumulators into its first
// element and returns it.  The remaining elements are consumed and
// must not be reused.  The fold is single-pass, so the sequence may be
// produced lazily.  An empty sequence returns ErrEmptyInput.
func Merge(accumulators iter.Seq[Accumulator]) (Accumulator, error) {
	var merged Accumulator
	for a := range accumulators {
		if merged == nil {
			merged = a
			continue
		}
		if err := merged.AddAccumulator(a); err != nil {
			return nil, err
		}
	}
	if merged == nil {
		return nil, ErrEmptyInput
	}
	return merged, nil
}

// MergeSlice is Merge over an in-memory slice.
func MergeSlice(accumulators []Accumulator) (Accumulator, error) {
	return Merge(slices.Values(accumulators))
}
