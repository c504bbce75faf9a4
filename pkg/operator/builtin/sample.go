/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package builtin

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/spaolacci/murmur3"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
)

// Strategy decides which tuples a sample keeps.
type Strategy interface {
	Keep(t *record.Tuple) bool
}

// StrategyFunc adapts a function to a Strategy.
type StrategyFunc func(t *record.Tuple) bool

func (f StrategyFunc) Keep(t *record.Tuple) bool {
	return f(t)
}

// Bernoulli keeps every tuple independently with probability P.
type Bernoulli struct {
	P    float64
	rand *rand.Rand
}

// NewBernoulli returns a Bernoulli sampling strategy seeded with seed.
func NewBernoulli(p float64, seed int64) (*Bernoulli, error) {
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("probability must be in [0, 1], got %v", p)
	}
	return &Bernoulli{P: p, rand: rand.New(rand.NewSource(seed))}, nil
}

func (b *Bernoulli) Keep(*record.Tuple) bool {
	return b.rand.Float64() < b.P
}

// KeyHash keeps the tuples whose key attribute hashes into the first Keep of Buckets buckets, so every tuple of a
// key is either kept or dropped.
type KeyHash struct {
	attr    int
	keep    uint32
	buckets uint32
}

// NewKeyHash returns a key hash sampling strategy over the named attribute of schema.
func NewKeyHash(schema *record.Schema, attribute string, keep, buckets uint32) (*KeyHash, error) {
	i, ok := schema.IndexOf(attribute)
	if !ok {
		return nil, fmt.Errorf("unknown attribute %q", attribute)
	}
	if buckets == 0 || keep > buckets {
		return nil, fmt.Errorf("keep %d of %d buckets is invalid", keep, buckets)
	}
	return &KeyHash{attr: i, keep: keep, buckets: buckets}, nil
}

func (k *KeyHash) Keep(t *record.Tuple) bool {
	h := murmur3.Sum32([]byte(fmt.Sprint(t.Value(k.attr))))
	return h%k.buckets < k.keep
}

// Sample forwards the tuples its strategy keeps.
type Sample struct {
	operator.Base
	strategy Strategy
}

// NewSample returns a sample over tuples of schema.
func NewSample(schema *record.Schema, strategy Strategy) (*Sample, error) {
	if strategy == nil {
		return nil, operator.ConfigurationErr{Operator: "sample", Message: "a strategy is required"}
	}
	return &Sample{Base: operator.NewBase(schema), strategy: strategy}, nil
}

func (s *Sample) ProcessTuple(ctx context.Context, _ int, t *record.Tuple, out operator.Emitter) error {
	if !s.strategy.Keep(t) {
		return nil
	}
	return out.Emit(ctx, t)
}
