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

// Sum sums numeric values.
type Sum struct {
	sum float64
}

var _ Accumulator = (*Sum)(nil)

func NewSum() *Sum {
	return &Sum{}
}

func (s *Sum) Kind() Kind {
	return KindSum
}

func (s *Sum) AddValue(value any) error {
	v, err := toFloat(value)
	if err != nil {
		return err
	}
	s.sum += v
	return nil
}

func (s *Sum) AddAccumulator(other Accumulator) error {
	o, ok := other.(*Sum)
	if !ok {
		return fmt.Errorf("%w: cannot merge %s into %s", ErrTypeMismatch, other.Kind(), s.Kind())
	}
	s.sum += o.sum
	return nil
}

func (s *Sum) ComputeMetrics() ([]MetricValue, error) {
	return []MetricValue{{Name: "sum", Value: s.sum}}, nil
}

type sumState struct {
	Sum float64 `json:"sum"`
}

func (s *Sum) MarshalState() ([]byte, error) {
	return json.Marshal(&sumState{Sum: s.sum})
}

func (s *Sum) UnmarshalState(data []byte) error {
	var state sumState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	s.sum = state.Sum
	return nil
}
