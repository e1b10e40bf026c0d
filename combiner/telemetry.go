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

package combiner

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type combinerTelemetry struct {
	exportCtx context.Context

	valuesRecorded   metric.Int64Counter
	partialsAbsorbed metric.Int64Counter
	keysFlushed      metric.Int64Counter
}

func newCombinerTelemetry() (*combinerTelemetry, error) {
	meter := otel.Meter("github.com/cardinalhq/aggkit/combiner")

	ct := &combinerTelemetry{
		exportCtx: context.Background(),
	}

	counter, err := meter.Int64Counter(
		"aggkit.combiner.values.recorded",
		metric.WithDescription("The total number of values folded into accumulators"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	ct.valuesRecorded = counter

	counter, err = meter.Int64Counter(
		"aggkit.combiner.partials.absorbed",
		metric.WithDescription("The total number of serialized partials merged in"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	ct.partialsAbsorbed = counter

	counter, err = meter.Int64Counter(
		"aggkit.combiner.keys.flushed",
		metric.WithDescription("The total number of per-key results produced by flushes"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	ct.keysFlushed = counter

	return ct, nil
}

func (ct *combinerTelemetry) recordValue() {
	ct.valuesRecorded.Add(ct.exportCtx, 1)
}

func (ct *combinerTelemetry) recordPartial() {
	ct.partialsAbsorbed.Add(ct.exportCtx, 1)
}

func (ct *combinerTelemetry) recordFlush(keys int) {
	ct.keysFlushed.Add(ct.exportCtx, int64(keys))
}
