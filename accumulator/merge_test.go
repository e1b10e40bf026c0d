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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumOf(t *testing.T, values ...float64) *Sum {
	t.Helper()
	s := NewSum()
	for _, v := range values {
		require.NoError(t, s.AddValue(v))
	}
	return s
}

func metricsOf(t *testing.T, a Accumulator) []MetricValue {
	t.Helper()
	metrics, err := a.ComputeMetrics()
	require.NoError(t, err)
	return metrics
}

func TestMerge_identity(t *testing.T) {
	a := sumOf(t, 1, 2, 3)
	merged, err := MergeSlice([]Accumulator{a})
	require.NoError(t, err)
	assert.Same(t, a, merged.(*Sum))
	assert.Equal(t, []MetricValue{{Name: "sum", Value: 6}}, metricsOf(t, merged))
}

func TestMerge_empty(t *testing.T) {
	_, err := MergeSlice(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestMerge_typeMismatch(t *testing.T) {
	_, err := MergeSlice([]Accumulator{NewCount(), NewSum()})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "count")
	assert.Contains(t, err.Error(), "sum")
}

func TestMerge_associativity(t *testing.T) {
	build := func() (a, b, c Accumulator) {
		return sumOf(t, 1, 2), sumOf(t, 3), sumOf(t, 4, 5)
	}

	a1, b1, c1 := build()
	left, err := MergeSlice([]Accumulator{a1, b1})
	require.NoError(t, err)
	left, err = MergeSlice([]Accumulator{left, c1})
	require.NoError(t, err)

	a2, b2, c2 := build()
	right, err := MergeSlice([]Accumulator{b2, c2})
	require.NoError(t, err)
	right, err = MergeSlice([]Accumulator{a2, right})
	require.NoError(t, err)

	assert.Equal(t, metricsOf(t, left), metricsOf(t, right))
}

func TestMerge_valueMergeEquivalence(t *testing.T) {
	values := []float64{4, 8, 15, 16, 23, 42}

	direct := NewVariance()
	for _, v := range values {
		require.NoError(t, direct.AddValue(v))
	}

	singles := make([]Accumulator, 0, len(values))
	for _, v := range values {
		one := NewVariance()
		require.NoError(t, one.AddValue(v))
		singles = append(singles, one)
	}
	merged, err := MergeSlice(singles)
	require.NoError(t, err)

	want := metricsOf(t, direct)
	got := metricsOf(t, merged)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.InDelta(t, want[i].Value, got[i].Value, 1e-9)
	}
}

func TestMerge_lazySequence(t *testing.T) {
	lazy := func(yield func(Accumulator) bool) {
		for _, v := range []float64{10, 20, 30} {
			if !yield(sumOf(t, v)) {
				return
			}
		}
	}
	merged, err := Merge(iter.Seq[Accumulator](lazy))
	require.NoError(t, err)
	assert.Equal(t, []MetricValue{{Name: "sum", Value: 60}}, metricsOf(t, merged))
}

func TestMerge_compounds(t *testing.T) {
	parts := make([]Accumulator, 0, 3)
	for _, vs := range [][]float64{{1, 2}, {3}, {4, 5, 6}} {
		part := NewCompound(NewCount(), NewSum())
		for _, v := range vs {
			require.NoError(t, part.AddValue(v))
		}
		parts = append(parts, part)
	}

	merged, err := MergeSlice(parts)
	require.NoError(t, err)
	assert.Equal(t, []MetricValue{
		{Name: "count", Value: 6},
		{Name: "sum", Value: 21},
	}, metricsOf(t, merged))
}
