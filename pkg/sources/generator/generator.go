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

// Package generator implements a source operator producing tuples from a function.
package generator

import (
	"context"
	"time"

	"github.com/numaproj/segflow/pkg/metrics"
	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/shared/logging"
)

// GenerateFunc returns the values of the n-th tuple, n starting at 0, or false once exhausted. An error fails
// the source.
type GenerateFunc func(n int64) ([]any, bool, error)

// Generator is a source emitting the tuples of a GenerateFunc, followed by an EOS once exhausted.
type Generator struct {
	operator.Base
	next       GenerateFunc
	n          int64
	last       time.Time
	watermarks *watermarker
	labels     map[string]string
	opts       *options
}

var _ operator.Producer = (*Generator)(nil)

// NewGenerator returns a generator of tuples of schema.
func NewGenerator(schema *record.Schema, next GenerateFunc, opts ...Option) (*Generator, error) {
	o := &options{name: "generator", batchSize: 1}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, operator.ConfigurationErr{Operator: "generator", Message: err.Error()}
		}
	}
	if next == nil {
		return nil, operator.ConfigurationErr{Operator: o.name, Message: "a generator function is required"}
	}
	if o.punctuateEvery > 0 && !schema.HasProgressing() {
		return nil, operator.ConfigurationErr{Operator: o.name, Message: "interval punctuation requires a progressing attribute"}
	}
	if o.logger == nil {
		o.logger = logging.NewLogger()
	}
	o.logger = o.logger.With("operator", o.name)
	return &Generator{
		Base:       operator.Base{Output: schema},
		next:       next,
		watermarks: newWatermarker(o.punctuateEvery),
		labels:     map[string]string{metrics.LabelPipeline: o.pipeline, metrics.LabelOperator: o.name},
		opts:       o,
	}, nil
}

// Produce emits up to one batch of tuples. It reports done once the function is exhausted or the limit is
// reached.
func (g *Generator) Produce(ctx context.Context, out operator.Emitter) (bool, error) {
	if g.opts.interval > 0 && !g.last.IsZero() && time.Since(g.last) < g.opts.interval {
		return false, nil
	}
	g.last = time.Now()
	generatorTickCount.With(g.labels).Inc()
	for i := 0; i < g.opts.batchSize; i++ {
		if g.opts.limit > 0 && g.n >= g.opts.limit {
			return g.exhausted()
		}
		values, ok, err := g.next(g.n)
		if err != nil {
			return false, err
		}
		if !ok {
			return g.exhausted()
		}
		t, err := record.NewTuple(g.Output, values...)
		if err != nil {
			return false, err
		}
		g.n++
		due, err := g.watermarks.observe(t)
		if err != nil {
			return false, err
		}
		if err := out.Emit(ctx, t); err != nil {
			return false, err
		}
		generatorReadCount.With(g.labels).Inc()
		if due {
			if err := g.watermarks.punctuate(ctx, out); err != nil {
				return false, err
			}
			generatorPunctuationCount.With(g.labels).Inc()
		}
	}
	return false, nil
}

// Generated returns the number of tuples produced so far.
func (g *Generator) Generated() int64 {
	return g.n
}

func (g *Generator) exhausted() (bool, error) {
	g.opts.logger.Infow("Generator exhausted", "tuples", g.n)
	return true, nil
}
