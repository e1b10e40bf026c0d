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
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/cardinalhq/aggkit/accumulator"
)

type TimeFunc func() time.Time

// Factory builds the empty accumulator used for a newly seen key.
// Every key in one combiner gets the same shape, so partials for the
// same key always merge cleanly.
type Factory func() (accumulator.Accumulator, error)

// Result is the finalized output for one key in one closed window.
type Result struct {
	Key       Key
	StartTime time.Time
	Metrics   []accumulator.MetricValue
}

type entry struct {
	key Key
	acc accumulator.Accumulator
}

// Combiner folds a stream of keyed values into per-key accumulators,
// bucketed by time window.  It also absorbs serialized partials
// shipped from other workers, merging them into the local state for
// the same key.  Closed windows are drained with Flush.
//
// The combiner serializes access internally; the accumulators it owns
// are never shared outside of it.
type Combiner struct {
	mu       sync.Mutex
	factory  Factory
	interval time.Duration
	timefunc TimeFunc
	logger   *zap.Logger

	telemetry *combinerTelemetry
	windows   map[int64]map[uint64]*entry
}

func NewCombiner(factory Factory, options ...CombinerOption) (*Combiner, error) {
	if factory == nil {
		return nil, errors.New("combiner requires an accumulator factory")
	}
	c := &Combiner{
		factory:  factory,
		interval: time.Minute,
		timefunc: time.Now,
		logger:   zap.NewNop(),
		windows:  map[int64]map[uint64]*entry{},
	}
	for _, opt := range options {
		opt.apply(c)
	}
	if c.interval <= 0 {
		return nil, errors.New("combiner interval must be positive")
	}
	telemetry, err := newCombinerTelemetry()
	if err != nil {
		return nil, err
	}
	c.telemetry = telemetry
	return c, nil
}

func (c *Combiner) intervalForTime(ts time.Time) int64 {
	return ts.UnixNano() / int64(c.interval)
}

func (c *Combiner) timeForInterval(interval int64) time.Time {
	return time.Unix(0, 0).Add(c.interval * time.Duration(interval))
}

func (c *Combiner) entryFor(key Key, ts time.Time) (*entry, error) {
	interval := c.intervalForTime(ts)
	window, ok := c.windows[interval]
	if !ok {
		window = map[uint64]*entry{}
		c.windows[interval] = window
	}
	hash := key.Hash()
	e, ok := window[hash]
	if !ok {
		acc, err := c.factory()
		if err != nil {
			return nil, err
		}
		e = &entry{key: key, acc: acc}
		window[hash] = e
	}
	return e, nil
}

// Record folds one value into the accumulator for key in the current
// window.
func (c *Combiner) Record(key Key, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.entryFor(key, c.timefunc())
	if err != nil {
		return err
	}
	if err := e.acc.AddValue(value); err != nil {
		return err
	}
	c.telemetry.recordValue()
	return nil
}

// Absorb merges a serialized partial, produced by another worker's
// accumulator for the same key, into the local state.  The payload's
// shape must match what the factory builds; a mismatch is a wiring
// bug, reported as is.
func (c *Combiner) Absorb(key Key, payload []byte) error {
	partial, err := accumulator.Deserialize(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.entryFor(key, c.timefunc())
	if err != nil {
		return err
	}
	if err := e.acc.AddAccumulator(partial); err != nil {
		c.logger.Error("failed to absorb partial",
			zap.String("key", key.Name),
			zap.Error(err))
		return err
	}
	c.telemetry.recordPartial()
	return nil
}

// Flush finalizes and removes every window that closed before now,
// returning one result per key.  Results with a failing finalize are
// dropped and their errors aggregated, without blocking the rest of
// the batch.
func (c *Combiner) Flush(now time.Time) ([]Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushBefore(c.intervalForTime(now))
}

// FlushAll finalizes and removes every window regardless of age,
// typically at shutdown.
func (c *Combiner) FlushAll() ([]Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var maxInterval int64
	for interval := range c.windows {
		if interval >= maxInterval {
			maxInterval = interval + 1
		}
	}
	return c.flushBefore(maxInterval)
}

func (c *Combiner) flushBefore(cutoff int64) ([]Result, error) {
	var results []Result
	var errs *multierror.Error
	for interval, window := range c.windows {
		if interval >= cutoff {
			continue
		}
		start := c.timeForInterval(interval)
		for _, e := range window {
			metrics, err := e.acc.ComputeMetrics()
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			results = append(results, Result{
				Key:       e.key,
				StartTime: start,
				Metrics:   metrics,
			})
		}
		delete(c.windows, interval)
	}
	if len(results) > 0 {
		c.logger.Debug("flushed aggregation windows", zap.Int("results", len(results)))
		c.telemetry.recordFlush(len(results))
	}
	return results, errs.ErrorOrNil()
}
