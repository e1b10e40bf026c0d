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
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Key identifies one partition of the input: a name plus its tag set.
// All values recorded under equal keys fold into the same accumulator.
type Key struct {
	Name string
	Tags map[string]string
}

// Hash returns a stable hash of the key.  Tag order does not matter;
// tags are folded in sorted order.
func (k Key) Hash() uint64 {
	s := k.Name

	var sortedKeys []string
	for tag := range k.Tags {
		sortedKeys = append(sortedKeys, tag)
	}
	sort.Strings(sortedKeys)

	for _, tag := range sortedKeys {
		s += ":" + tag + "=" + k.Tags[tag]
	}
	return xxhash.Sum64String(s)
}
