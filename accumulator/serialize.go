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

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// codecVersion is bumped whenever any state encoding changes shape.
const codecVersion = 1

// envelope is the wire form of a serialized accumulator: a tagged,
// versioned record wrapping the kind-specific state.
type envelope struct {
	Kind    Kind                `json:"kind"`
	Version uint32              `json:"version"`
	State   jsoniter.RawMessage `json:"state"`
}

// factories maps each registered kind to a constructor for an empty
// accumulator of that kind, used to rebuild instances from envelopes.
var factories = map[Kind]func() Accumulator{
	KindCount:         func() Accumulator { return NewCount() },
	KindSum:           func() Accumulator { return NewSum() },
	KindMean:          func() Accumulator { return NewMean() },
	KindVariance:      func() Accumulator { return NewVariance() },
	KindHistogram:     func() Accumulator { return &Histogram{} },
	KindDistinctCount: func() Accumulator { return &DistinctCount{} },
	KindCompound:      func() Accumulator { return &Compound{} },
}

// New returns an empty accumulator of the given kind.
func New(kind Kind) (Accumulator, error) {
	factory, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return factory(), nil
}

// Serialize encodes the accumulator's full state into a self-describing
// byte form.  Serializing does not mutate the accumulator.
func Serialize(a Accumulator) ([]byte, error) {
	state, err := a.MarshalState()
	if err != nil {
		return nil, err
	}
	return json.Marshal(&envelope{
		Kind:    a.Kind(),
		Version: codecVersion,
		State:   state,
	})
}

// Deserialize reconstructs an accumulator from bytes produced by
// Serialize.
func Deserialize(data []byte) (Accumulator, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding accumulator envelope: %w", err)
	}
	if env.Version != codecVersion {
		return nil, fmt.Errorf("unsupported accumulator codec version %d", env.Version)
	}
	a, err := New(env.Kind)
	if err != nil {
		return nil, err
	}
	if err := a.UnmarshalState(env.State); err != nil {
		return nil, fmt.Errorf("decoding %s state: %w", env.Kind, err)
	}
	return a, nil
}

// DeserializeAs reconstructs an accumulator and verifies it has the
// concrete type the caller expects, returning an error wrapping
// ErrDeserializedType otherwise.
func DeserializeAs[T Accumulator](data []byte) (T, error) {
	var zero T
	a, err := Deserialize(data)
	if err != nil {
		return zero, err
	}
	t, ok := a.(T)
	if !ok {
		return zero, fmt.Errorf("%w: payload holds %q", ErrDeserializedType, a.Kind())
	}
	return t, nil
}
