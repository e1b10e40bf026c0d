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
	"time"

	"go.uber.org/zap"
)

type CombinerOption interface {
	apply(*Combiner)
}

type combinerOptionFunc func(*Combiner)

func (f combinerOptionFunc) apply(c *Combiner) {
	f(c)
}

// WithInterval sets the width of the aggregation window.
func WithInterval(interval time.Duration) CombinerOption {
	return combinerOptionFunc(func(c *Combiner) {
		c.interval = interval
	})
}

// WithTimeFunc overrides the clock, mostly for tests.
func WithTimeFunc(timefunc TimeFunc) CombinerOption {
	return combinerOptionFunc(func(c *Combiner) {
		c.timefunc = timefunc
	})
}

func WithLogger(logger *zap.Logger) CombinerOption {
	return combinerOptionFunc(func(c *Combiner) {
		c.logger = logger
	})
}
