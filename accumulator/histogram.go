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
	"fmt"
	"slices"
	"sort"
	"strconv"
)

// defaultQuantiles are reported when the caller does not configure any.
var defaultQuantiles = []float64{0.5, 0.95, 0.99}

// Histogram buckets values by fixed upper bounds and estimates
// quantiles from the bucket counts.  Values above the last bound land
// in an overflow bucket.  Two histograms merge only when their bounds
// and configured quantiles are identical.
type Histogram struct {
	bounds    []float64
	quantiles []float64
	counts    []int64
	count     int64
	sum       float64
}

var _ Accumulator = (*Histogram)(nil)

// NewHistogram builds a histogram over the given bucket upper bounds,
// reporting the given quantile ranks.  Bounds must be strictly
// ascending and ranks must be in (0, 1).
func NewHistogram(bounds []float64, quantiles ...float64) (*Histogram, error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("histogram requires at least one bucket bound")
	}
	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			return nil, fmt.Errorf("histogram bounds must be strictly ascending, got %v", bounds)
		}
	}
	if len(quantiles) == 0 {
		quantiles = defaultQuantiles
	}
	for _, q := range quantiles {
		if q <= 0 || q >= 1 {
			return nil, fmt.Errorf("quantile rank %g out of range (0, 1)", q)
		}
	}
	return &Histogram{
		bounds:    slices.Clone(bounds),
		quantiles: slices.Clone(quantiles),
		counts:    make([]int64, len(bounds)+1),
	}, nil
}

func (h *Histogram) Kind() Kind {
	return KindHistogram
}

func (h *Histogram) AddValue(value any) error {
	if len(h.counts) == 0 {
		return fmt.Errorf("histogram has no configured buckets")
	}
	v, err := toFloat(value)
	if err != nil {
		return err
	}
	h.counts[sort.SearchFloat64s(h.bounds, v)]++
	h.count++
	h.sum += v
	return nil
}

func (h *Histogram) AddAccumulator(other Accumulator) error {
	o, ok := other.(*Histogram)
	if !ok {
		return fmt.Errorf("%w: cannot merge %s into %s", ErrTypeMismatch, other.Kind(), h.Kind())
	}
	if !slices.Equal(h.bounds, o.bounds) || !slices.Equal(h.quantiles, o.quantiles) {
		return fmt.Errorf("%w: histogram shapes differ (%v vs %v)", ErrTypeMismatch, h.bounds, o.bounds)
	}
	for i, c := range o.counts {
		h.counts[i] += c
	}
	h.count += o.count
	h.sum += o.sum
	return nil
}

// ComputeMetrics reports count, sum, and one estimate per configured
// quantile rank.  The estimate is the upper bound of the bucket
// containing the rank; the overflow bucket is clamped to the last
// bound.
func (h *Histogram) ComputeMetrics() ([]MetricValue, error) {
	metrics := []MetricValue{
		{Name: "count", Value: float64(h.count)},
		{Name: "sum", Value: h.sum},
	}
	for _, q := range h.quantiles {
		name := "p" + strconv.FormatFloat(q*100, 'f', -1, 64)
		metrics = append(metrics, MetricValue{Name: name, Value: h.quantile(q)})
	}
	return metrics, nil
}

func (h *Histogram) quantile(rank float64) float64 {
	if h.count == 0 {
		return 0
	}
	target := int64(rank * float64(h.count))
	var seen int64
	for i, c := range h.counts {
		seen += c
		if seen > target {
			if i >= len(h.bounds) {
				break
			}
			return h.bounds[i]
		}
	}
	return h.bounds[len(h.bounds)-1]
}

type histogramState struct {
	Bounds    []float64 `json:"bounds"`
	Quantiles []float64 `json:"quantiles"`
	Counts    []int64   `json:"counts"`
	Count     int64     `json:"count"`
	Sum       float64   `json:"sum"`
}

func (h *Histogram) MarshalState() ([]byte, error) {
	return json.Marshal(&histogramState{
		Bounds:    h.bounds,
		Quantiles: h.quantiles,
		Counts:    h.counts,
		Count:     h.count,
		Sum:       h.sum,
	})
}

func (h *Histogram) UnmarshalState(data []byte) error {
	var state histogramState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	if len(state.Counts) != len(state.Bounds)+1 {
		return fmt.Errorf("histogram state has %d counts for %d bounds", len(state.Counts), len(state.Bounds))
	}
	h.bounds = state.Bounds
	h.quantiles = state.Quantiles
	h.counts = state.Counts
	h.count = state.Count
	h.sum = state.Sum
	return nil
}
