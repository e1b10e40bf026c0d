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

// Count counts records.  The value itself is ignored, so any value
// domain is accepted.
type Count struct {
	count int64
}

var _ Accumulator = (*Count)(nil)

func NewCount() *Count {
	return &Count{}
}

func (c *Count) Kind() Kind {
	return KindCount
}

func (c *Count) AddValue(_ any) error {
	c.count++
	return nil
}

func (c *Count) AddAccumulator(other Accumulator) error {
	o, ok := other.(*Count)
	if !ok {
		return fmt.Errorf("%w: cannot merge %s into %s", ErrTypeMismatch, other.Kind(), c.Kind())
	}
	c.count += o.count
	return nil
}

func (c *Count) ComputeMetrics() ([]MetricValue, error) {
	return []MetricValue{{Name: "count", Value: float64(c.count)}}, nil
}

type countState struct {
	Count int64 `json:"count"`
}

func (c *Count) MarshalState() ([]byte, error) {
	return json.Marshal(&countState{Count: c.count})
}

func (c *Count) UnmarshalState(data []byte) error {
	var state countState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	c.count = state.Count
	return nil
}
