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

import "fmt"

// Variance tracks population variance with Welford's online update.
// Merging combines the two running states exactly, so any merge-tree
// grouping yields the same result.
type Variance struct {
	count int64
	mean  float64
	m2    float64
}

var _ Accumulator = (*Variance)(nil)

func NewVariance() *Variance {
	return &Variance{}
}

func (v *Variance) Kind() Kind {
	return KindVariance
}

func (v *Variance) AddValue(value any) error {
	x, err := toFloat(value)
	if err != nil {
		return err
	}
	v.count++
	delta := x - v.mean
	v.mean += delta / float64(v.count)
	v.m2 += delta * (x - v.mean)
	return nil
}

func (v *Variance) AddAccumulator(other Accumulator) error {
	o, ok := other.(*Variance)
	if !ok {
		return fmt.Errorf("%w: cannot merge %s into %s", ErrTypeMismatch, other.Kind(), v.Kind())
	}
	if o.count == 0 {
		return nil
	}
	if v.count == 0 {
		v.count, v.mean, v.m2 = o.count, o.mean, o.m2
		return nil
	}
	total := v.count + o.count
	delta := o.mean - v.mean
	v.m2 += o.m2 + delta*delta*float64(v.count)*float64(o.count)/float64(total)
	v.mean += delta * float64(o.count) / float64(total)
	v.count = total
	return nil
}

func (v *Variance) ComputeMetrics() ([]MetricValue, error) {
	variance := float64(0)
	if v.count > 0 {
		variance = v.m2 / float64(v.count)
	}
	return []MetricValue{{Name: "variance", Value: variance}}, nil
}

type varianceState struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"m2"`
}

func (v *Variance) MarshalState() ([]byte, error) {
	return json.Marshal(&varianceState{Count: v.count, Mean: v.mean, M2: v.m2})
}

func (v *Variance) UnmarshalState(data []byte) error {
	var state varianceState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	v.count = state.Count
	v.mean = state.Mean
	v.m2 = state.M2
	return nil
}
