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
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cardinalhq/aggkit/accumulator"
)

// Duration wraps time.Duration so yaml documents can use forms like
// "30s" or "5m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config declares the metrics computed per key and the window width,
// so combiner construction can be driven by configuration instead of
// code.
type Config struct {
	Interval Duration       `json:"interval,omitempty" yaml:"interval,omitempty"`
	Metrics  []MetricConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

type MetricConfig struct {
	Kind      string    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Buckets   []float64 `json:"buckets,omitempty" yaml:"buckets,omitempty"`
	Quantiles []float64 `json:"quantiles,omitempty" yaml:"quantiles,omitempty"`
}

// ParseConfig decodes and validates a yaml config document.
func ParseConfig(data []byte) (*Config, error) {
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", time.Duration(c.Interval))
	}
	if len(c.Metrics) == 0 {
		return fmt.Errorf("at least one metric is required")
	}
	for i, mc := range c.Metrics {
		if err := mc.validate(); err != nil {
			return fmt.Errorf("metric %d: %w", i, err)
		}
	}
	return nil
}

func (mc MetricConfig) validate() error {
	switch accumulator.Kind(mc.Kind) {
	case accumulator.KindHistogram:
		if len(mc.Buckets) == 0 {
			return fmt.Errorf("histogram requires buckets")
		}
	case accumulator.KindCount, accumulator.KindSum, accumulator.KindMean,
		accumulator.KindVariance, accumulator.KindDistinctCount:
		if len(mc.Buckets) != 0 || len(mc.Quantiles) != 0 {
			return fmt.Errorf("buckets and quantiles only apply to %s, not %s", accumulator.KindHistogram, mc.Kind)
		}
	default:
		return fmt.Errorf("unknown metric kind %q", mc.Kind)
	}
	return nil
}

func (mc MetricConfig) build() (accumulator.Accumulator, error) {
	switch accumulator.Kind(mc.Kind) {
	case accumulator.KindCount:
		return accumulator.NewCount(), nil
	case accumulator.KindSum:
		return accumulator.NewSum(), nil
	case accumulator.KindMean:
		return accumulator.NewMean(), nil
	case accumulator.KindVariance:
		return accumulator.NewVariance(), nil
	case accumulator.KindHistogram:
		return accumulator.NewHistogram(mc.Buckets, mc.Quantiles...)
	case accumulator.KindDistinctCount:
		return accumulator.NewDistinctCount()
	default:
		return nil, fmt.Errorf("unknown metric kind %q", mc.Kind)
	}
}

// Factory returns an accumulator factory producing one compound with
// the configured metrics, in declaration order.
func (c *Config) Factory() Factory {
	return func() (accumulator.Accumulator, error) {
		children := make([]accumulator.Accumulator, 0, len(c.Metrics))
		for _, mc := range c.Metrics {
			child, err := mc.build()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return accumulator.NewCompound(children...), nil
	}
}

// Options returns the combiner options implied by the config.
func (c *Config) Options() []CombinerOption {
	var options []CombinerOption
	if c.Interval > 0 {
		options = append(options, WithInterval(time.Duration(c.Interval)))
	}
	return options
}
