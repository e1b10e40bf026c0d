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

// Mean tracks count and sum, reporting the arithmetic mean.  An empty
// mean reports 0.
type Mean struct {
	count int64
	sum   float64
}

var _ Accumulator = (*Mean)(nil)

func NewMean() *Mean {
	return &Mean{}
}

func (m *Mean) Kind() Kind {
	return KindMean
}

func (m *Mean) AddValue(value any) error {
	v, err := toFloat(value)
	if err != nil {
		return err
	}
	m.count++
	m.sum += v
	return nil
}

func (m *Mean) AddAccumulator(other Accumulator) error {
	o, ok := other.(*Mean)
	if !ok {
		return fmt.Errorf("%w: cannot merge %s into %s", ErrTypeMismatch, other.Kind(), m.Kind())
	}
	m.count += o.count
	m.sum += o.sum
	return nil
}

func (m *Mean) ComputeMetrics() ([]MetricValue, error) {
	mean := float64(0)
	if m.count > 0 {
		mean = m.sum / float64(m.count)
	}
	return []MetricValue{{Name: "mean", Value: mean}}, nil
}

type meanState struct {
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
}

func (m *Mean) MarshalState() ([]byte, error) {
	return json.Marshal(&meanState{Count: m.count, Sum: m.sum})
}

func (m *Mean) UnmarshalState(data []byte) error {
	var state meanState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	m.count = state.Count
	m.sum = state.Sum
	return nil
}
