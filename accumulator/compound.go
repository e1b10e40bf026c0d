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

	"github.com/hashicorp/go-multierror"
	jsoniter "github.com/json-iterator/go"
)

// Compound computes multiple metrics over the same values by
// delegating every operation to an ordered, fixed-length set of child
// accumulators.  Position is significant: position i must hold the
// same child kind across every compound that is ever merged together.
type Compound struct {
	children []Accumulator
}

var _ Accumulator = (*Compound)(nil)

// NewCompound builds a compound over the given children.  The compound
// owns its children; callers must not retain them.
func NewCompound(children ...Accumulator) *Compound {
	return &Compound{children: children}
}

func (c *Compound) Kind() Kind {
	return KindCompound
}

// Len returns the number of child accumulators.
func (c *Compound) Len() int {
	return len(c.children)
}

// AddValue feeds the value to every child in construction order.  A
// child that does not accept the value's domain reports its own error;
// all child errors are aggregated and the remaining children still see
// the value.
func (c *Compound) AddValue(value any) error {
	var errs *multierror.Error
	for _, child := range c.children {
		errs = multierror.Append(errs, child.AddValue(value))
	}
	return errs.ErrorOrNil()
}

// AddAccumulator merges another compound into the receiver
// element-wise.  Both the child count and the per-position child kinds
// are validated before any child is mutated; the first mismatch found
// is reported.  A same-kind incompatibility (such as histograms with
// different bounds) only surfaces from the failing child during the
// element-wise merge.
func (c *Compound) AddAccumulator(other Accumulator) error {
	o, ok := other.(*Compound)
	if !ok {
		return fmt.Errorf("%w: cannot merge %s into %s", ErrTypeMismatch, other.Kind(), c.Kind())
	}
	if len(o.children) != len(c.children) {
		return fmt.Errorf("%w: expected %d children, received %d", ErrLengthMismatch, len(c.children), len(o.children))
	}
	for i, child := range c.children {
		if child.Kind() != o.children[i].Kind() {
			return fmt.Errorf("%w: child %d is %s, received %s", ErrTypeMismatch, i, child.Kind(), o.children[i].Kind())
		}
	}
	for i, child := range c.children {
		if err := child.AddAccumulator(o.children[i]); err != nil {
			return err
		}
	}
	return nil
}

// ComputeMetrics returns every child's metrics concatenated in
// construction order.
func (c *Compound) ComputeMetrics() ([]MetricValue, error) {
	metrics := make([]MetricValue, 0, len(c.children))
	for _, child := range c.children {
		mv, err := child.ComputeMetrics()
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, mv...)
	}
	return metrics, nil
}

type compoundState struct {
	Children []jsoniter.RawMessage `json:"children"`
}

// MarshalState nests each child's full envelope so the compound's wire
// form is self-describing at every level.
func (c *Compound) MarshalState() ([]byte, error) {
	state := compoundState{Children: make([]jsoniter.RawMessage, 0, len(c.children))}
	for _, child := range c.children {
		b, err := Serialize(child)
		if err != nil {
			return nil, err
		}
		state.Children = append(state.Children, b)
	}
	return json.Marshal(&state)
}

func (c *Compound) UnmarshalState(data []byte) error {
	var state compoundState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	children := make([]Accumulator, 0, len(state.Children))
	for _, raw := range state.Children {
		child, err := Deserialize(raw)
		if err != nil {
			return err
		}
		children = append(children, child)
	}
	c.children = children
	return nil
}
