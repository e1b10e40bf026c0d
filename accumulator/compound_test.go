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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompound_AddValue(t *testing.T) {
	c := NewCompound(NewCount(), NewSum())
	assert.NoError(t, c.AddValue(5))
	assert.NoError(t, c.AddValue(3))

	metrics, err := c.ComputeMetrics()
	require.NoError(t, err)
	assert.Equal(t, []MetricValue{
		{Name: "count", Value: 2},
		{Name: "sum", Value: 8},
	}, metrics)
}

func TestCompound_AddValue_childErrorsAggregate(t *testing.T) {
	c := NewCompound(NewSum(), NewCount())
	err := c.AddValue("not a number")
	assert.Error(t, err)

	// The count child still saw the value.
	metrics, cerr := c.ComputeMetrics()
	require.NoError(t, cerr)
	assert.Equal(t, float64(1), metrics[1].Value)
}

func TestCompound_AddAccumulator(t *testing.T) {
	ca1 := NewCompound(NewCount(), NewSum())
	require.NoError(t, ca1.AddValue(5))
	require.NoError(t, ca1.AddValue(3))

	ca2 := NewCompound(NewCount(), NewSum())
	for _, v := range []int{1, 0, 0} {
		require.NoError(t, ca2.AddValue(v))
	}

	require.NoError(t, ca1.AddAccumulator(ca2))
	metrics, err := ca1.ComputeMetrics()
	require.NoError(t, err)
	assert.Equal(t, []MetricValue{
		{Name: "count", Value: 5},
		{Name: "sum", Value: 9},
	}, metrics)
}

func TestCompound_AddAccumulator_lengthMismatch(t *testing.T) {
	ca1 := NewCompound(NewCount(), NewSum())
	ca2 := NewCompound(NewCount(), NewSum(), NewMean())

	err := ca1.AddAccumulator(ca2)
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Contains(t, err.Error(), "expected 2")
	assert.Contains(t, err.Error(), "received 3")
}

func TestCompound_AddAccumulator_childKindMismatch(t *testing.T) {
	ca1 := NewCompound(NewCount(), NewSum())
	ca2 := NewCompound(NewCount(), NewMean())

	err := ca1.AddAccumulator(ca2)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "child 1")
	assert.Contains(t, err.Error(), "sum")
	assert.Contains(t, err.Error(), "mean")
}

func TestCompound_AddAccumulator_failedMergeLeavesStateIntact(t *testing.T) {
	ca1 := NewCompound(NewCount(), NewSum())
	require.NoError(t, ca1.AddValue(5))

	ca2 := NewCompound(NewMean(), NewSum())
	require.NoError(t, ca2.AddValue(7))

	assert.ErrorIs(t, ca1.AddAccumulator(ca2), ErrTypeMismatch)

	metrics, err := ca1.ComputeMetrics()
	require.NoError(t, err)
	assert.Equal(t, []MetricValue{
		{Name: "count", Value: 1},
		{Name: "sum", Value: 5},
	}, metrics)
}

func TestCompound_AddAccumulator_sameKindShapeMismatch(t *testing.T) {
	// Kind-level validation passes, so the mismatch surfaces from the
	// histogram child during the element-wise merge.
	h1, err := NewHistogram([]float64{1, 5})
	require.NoError(t, err)
	h2, err := NewHistogram([]float64{1, 10})
	require.NoError(t, err)

	ca1 := NewCompound(NewCount(), h1)
	ca2 := NewCompound(NewCount(), h2)
	assert.ErrorIs(t, ca1.AddAccumulator(ca2), ErrTypeMismatch)
}

func TestCompound_AddAccumulator_nonCompound(t *testing.T) {
	ca := NewCompound(NewCount())
	assert.ErrorIs(t, ca.AddAccumulator(NewCount()), ErrTypeMismatch)
}

func TestCompound_orderPreserved(t *testing.T) {
	tests := []struct {
		name     string
		children []Accumulator
		want     []string
	}{
		{
			"count then sum",
			[]Accumulator{NewCount(), NewSum()},
			[]string{"count", "sum"},
		},
		{
			"sum then count",
			[]Accumulator{NewSum(), NewCount()},
			[]string{"sum", "count"},
		},
		{
			"mean between counts",
			[]Accumulator{NewCount(), NewMean(), NewCount()},
			[]string{"count", "mean", "count"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCompound(tt.children...)
			require.NoError(t, c.AddValue(1))
			metrics, err := c.ComputeMetrics()
			require.NoError(t, err)
			names := make([]string, 0, len(metrics))
			for _, m := range metrics {
				names = append(names, m.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
