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

	"github.com/apache/datasketches-go/hll"
)

// DistinctCount estimates the number of distinct values seen using an
// HLL sketch.  Values are folded in by their string form.
type DistinctCount struct {
	sketch hll.HllSketch
}

var _ Accumulator = (*DistinctCount)(nil)

func NewDistinctCount() (*DistinctCount, error) {
	sketch, err := hll.NewHllSketchWithDefault()
	if err != nil {
		return nil, err
	}
	return &DistinctCount{sketch: sketch}, nil
}

func (d *DistinctCount) Kind() Kind {
	return KindDistinctCount
}

func (d *DistinctCount) AddValue(value any) error {
	if d.sketch == nil {
		sketch, err := hll.NewHllSketchWithDefault()
		if err != nil {
			return err
		}
		d.sketch = sketch
	}
	return d.sketch.UpdateString(toString(value))
}

func (d *DistinctCount) AddAccumulator(other Accumulator) error {
	o, ok := other.(*DistinctCount)
	if !ok {
		return fmt.Errorf("%w: cannot merge %s into %s", ErrTypeMismatch, other.Kind(), d.Kind())
	}
	if o.sketch == nil {
		return nil
	}
	if d.sketch == nil {
		d.sketch = o.sketch
		return nil
	}
	union, err := hll.NewUnionWithDefault()
	if err != nil {
		return err
	}
	if err := union.UpdateSketch(d.sketch); err != nil {
		return err
	}
	if err := union.UpdateSketch(o.sketch); err != nil {
		return err
	}
	merged, err := union.GetResult(hll.TgtHllTypeDefault)
	if err != nil {
		return err
	}
	d.sketch = merged
	return nil
}

func (d *DistinctCount) ComputeMetrics() ([]MetricValue, error) {
	if d.sketch == nil {
		return []MetricValue{{Name: "distinct", Value: 0}}, nil
	}
	estimate, err := d.sketch.GetEstimate()
	if err != nil {
		return nil, err
	}
	return []MetricValue{{Name: "distinct", Value: estimate}}, nil
}

type distinctState struct {
	Sketch []byte `json:"sketch"`
}

func (d *DistinctCount) MarshalState() ([]byte, error) {
	state := distinctState{}
	if d.sketch != nil {
		b, err := d.sketch.ToCompactSlice()
		if err != nil {
			return nil, err
		}
		state.Sketch = b
	}
	return json.Marshal(&state)
}

func (d *DistinctCount) UnmarshalState(data []byte) error {
	var state distinctState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	if len(state.Sketch) == 0 {
		d.sketch = nil
		return nil
	}
	sketch, err := hll.NewHllSketchFromSlice(state.Sketch, true)
	if err != nil {
		return err
	}
	d.sketch = sketch
	return nil
}
