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

// Kind identifies a concrete accumulator implementation.  Two
// accumulators can only be merged when their kinds match, so the kind
// acts as the merge-compatibility discriminant and as the tag in the
// serialized envelope.
type Kind string

const (
	KindCount         Kind = "count"
	KindSum           Kind = "sum"
	KindMean          Kind = "mean"
	KindVariance      Kind = "variance"
	KindHistogram     Kind = "histogram"
	KindDistinctCount Kind = "distinctcount"
	KindCompound      Kind = "compound"
)

// MetricValue is one named, finalized metric.  Compound accumulators
// return the values of all their children in construction order, so
// callers can correlate positions to metrics.
type MetricValue struct {
	Name  string
	Value float64
}

// Accumulator is partial aggregation state over a subset of input
// values.  An accumulator absorbs values one at a time, absorbs the
// state of other accumulators of the same kind, and finally produces
// its metrics.  AddAccumulator consumes its operand: the merged-in
// accumulator must not be used again by the caller.
//
// Implementations do not synchronize.  Each instance is owned by one
// worker at a time; crossing a process boundary goes through
// Serialize/Deserialize.
type Accumulator interface {
	// Kind returns the merge-compatibility discriminant.
	Kind() Kind

	// AddValue incorporates one input value.  The accepted value
	// domain is implementation defined.
	AddValue(value any) error

	// AddAccumulator merges other into the receiver and consumes
	// other.  Merging an accumulator of a different concrete type
	// returns an error wrapping ErrTypeMismatch.  AddAccumulator is
	// associative: any merge-tree grouping yields the same final
	// metrics.
	AddAccumulator(other Accumulator) error

	// ComputeMetrics returns the finalized metrics for the current
	// state.  It does not mutate the accumulator.
	ComputeMetrics() ([]MetricValue, error)

	// MarshalState and UnmarshalState encode and decode the internal
	// state.  They are the per-kind halves of Serialize and
	// Deserialize, which add the kind/version envelope.
	MarshalState() ([]byte, error)
	UnmarshalState(data []byte) error
}
