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

package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/operator/builtin"
	"github.com/numaproj/segflow/pkg/reduce"
	"github.com/numaproj/segflow/pkg/reduce/aggregate"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/shared/expr"
	"github.com/numaproj/segflow/pkg/sinks/blackhole"
	"github.com/numaproj/segflow/pkg/sinks/logger"
	"github.com/numaproj/segflow/pkg/sources/generator"
	"github.com/numaproj/segflow/pkg/window"
	"github.com/numaproj/segflow/pkg/window/strategy/count"
	"github.com/numaproj/segflow/pkg/window/strategy/frame"
	"github.com/numaproj/segflow/pkg/window/strategy/sliding"
)

// GeneratorConfig configures a generator of generator.SequenceSchema tuples.
type GeneratorConfig struct {
	// Count is the number of tuples, unbounded when 0
	Count int64    `mapstructure:"count"`
	Keys  []string `mapstructure:"keys"`
	// Value is an expression of the tuple ordinal n, n itself when empty
	Value          string        `mapstructure:"value"`
	PunctuateEvery int64         `mapstructure:"punctuateEvery"`
	BatchSize      int           `mapstructure:"batchSize"`
	Interval       time.Duration `mapstructure:"interval"`
}

type FilterConfig struct {
	Expression string `mapstructure:"expression"`
}

type PriorityConfig struct {
	X int64 `mapstructure:"x"`
	Y int64 `mapstructure:"y"`
}

type SampleConfig struct {
	Probability float64 `mapstructure:"probability"`
	Seed        int64   `mapstructure:"seed"`
	// KeyBy switches to key hash sampling, keeping Keep of Buckets buckets
	KeyBy   string `mapstructure:"keyBy"`
	Keep    uint32 `mapstructure:"keep"`
	Buckets uint32 `mapstructure:"buckets"`
}

type CountConfig struct {
	Size int64 `mapstructure:"size"`
	// Slide defaults to Size, i.e. tumbling segments
	Slide int64 `mapstructure:"slide"`
}

type SlidingConfig struct {
	Size  float64  `mapstructure:"size"`
	Slide float64  `mapstructure:"slide"`
	Start *float64 `mapstructure:"start"`
}

type FrameConfig struct {
	Predicate string `mapstructure:"predicate"`
	Adjacent  bool   `mapstructure:"adjacent"`
	Inclusive bool   `mapstructure:"inclusive"`
}

// WriterConfig configures a writer aggregating Attribute into Store, one entry per GroupBy value.
type WriterConfig struct {
	Store     string `mapstructure:"store"`
	Aggregate string `mapstructure:"aggregate"`
	Attribute string `mapstructure:"attribute"`
	// GroupBy names the attribute keying the entries of a segment, one entry per segment when empty
	GroupBy     string `mapstructure:"groupBy"`
	ID          string `mapstructure:"id"`
	PassThrough bool   `mapstructure:"passThrough"`
}

// ReaderConfig configures a reader emitting the aggregates of Store as aggregate.ResultSchema tuples.
type ReaderConfig struct {
	Store     string `mapstructure:"store"`
	CacheSize int    `mapstructure:"cacheSize"`
}

type LoggerConfig struct {
	Controls bool `mapstructure:"controls"`
}

type empty struct{}

// DefaultRegistry returns a registry of the builtin operators.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for tag, f := range map[string]Factory{
		"generator": Typed(buildGenerator),
		"cat":       Typed(buildCat),
		"filter":    Typed(buildFilter),
		"priority":  Typed(buildPriority),
		"sample":    Typed(buildSample),
		"count":     Typed(buildCount),
		"sliding":   Typed(buildSliding),
		"frame":     Typed(buildFrame),
		"writer":    Typed(buildWriter),
		"reader":    Typed(buildReader),
		"logger":    Typed(buildLogger),
		"blackhole": Typed(buildBlackhole),
	} {
		_ = r.Register(tag, f)
	}
	return r
}

func invalid(env Env, format string, args ...any) error {
	return operator.ConfigurationErr{Operator: env.Vertex, Message: fmt.Sprintf(format, args...)}
}

func buildGenerator(_ context.Context, env Env, c GeneratorConfig) (operator.Operator, error) {
	if len(env.Inputs) != 0 {
		return nil, invalid(env, "a generator has no inputs")
	}
	var value generator.ValueFunc
	if c.Value != "" {
		f, err := expr.CompileFormula(c.Value, map[string]interface{}{"n": int64(0)})
		if err != nil {
			return nil, invalid(env, "%s", err)
		}
		value = func(n int64) (float64, error) {
			return f.Eval(map[string]interface{}{"n": n})
		}
	}
	opts := []generator.Option{
		generator.WithName(env.Vertex),
		generator.WithPipelineName(env.Pipeline),
		generator.WithLimit(c.Count),
		generator.WithInterval(c.Interval),
		generator.WithLogger(env.Logger),
	}
	if c.BatchSize > 0 {
		opts = append(opts, generator.WithBatchSize(c.BatchSize))
	}
	if c.PunctuateEvery > 0 {
		opts = append(opts, generator.WithIntervalPunctuation(c.PunctuateEvery))
	}
	return generator.NewGenerator(generator.SequenceSchema, generator.Sequence(c.Keys, value), opts...)
}

func buildCat(_ context.Context, env Env, _ empty) (operator.Operator, error) {
	return builtin.NewCat(env.Inputs...)
}

func buildFilter(_ context.Context, env Env, c FilterConfig) (operator.Operator, error) {
	input, err := env.Input()
	if err != nil {
		return nil, err
	}
	p, err := expr.Compile(c.Expression)
	if err != nil {
		return nil, invalid(env, "%s", err)
	}
	return builtin.NewFilter(input, p)
}

func buildPriority(_ context.Context, env Env, c PriorityConfig) (operator.Operator, error) {
	input, err := env.Input()
	if err != nil {
		return nil, err
	}
	if c.X == 0 {
		c.X = 1
	}
	return builtin.NewPriority(input, record.Priority{X: c.X, Y: c.Y})
}

func buildSample(_ context.Context, env Env, c SampleConfig) (operator.Operator, error) {
	input, err := env.Input()
	if err != nil {
		return nil, err
	}
	var strategy builtin.Strategy
	if c.KeyBy != "" {
		strategy, err = builtin.NewKeyHash(input, c.KeyBy, c.Keep, c.Buckets)
	} else {
		strategy, err = builtin.NewBernoulli(c.Probability, c.Seed)
	}
	if err != nil {
		return nil, invalid(env, "%s", err)
	}
	return builtin.NewSample(input, strategy)
}

func buildCount(_ context.Context, env Env, c CountConfig) (operator.Operator, error) {
	input, err := env.Input()
	if err != nil {
		return nil, err
	}
	if c.Slide == 0 {
		c.Slide = c.Size
	}
	a, err := count.NewCount(c.Size, c.Slide)
	if err != nil {
		return nil, err
	}
	return window.NewSegmenter(input, a), nil
}

func buildSliding(_ context.Context, env Env, c SlidingConfig) (operator.Operator, error) {
	input, err := env.Input()
	if err != nil {
		return nil, err
	}
	if c.Slide == 0 {
		c.Slide = c.Size
	}
	var opts []sliding.Option
	if c.Start != nil {
		opts = append(opts, sliding.WithStart(*c.Start))
	}
	a, err := sliding.NewSliding(input, c.Size, c.Slide, opts...)
	if err != nil {
		return nil, err
	}
	return window.NewSegmenter(input, a), nil
}

func buildFrame(_ context.Context, env Env, c FrameConfig) (operator.Operator, error) {
	input, err := env.Input()
	if err != nil {
		return nil, err
	}
	p, err := expr.Compile(c.Predicate)
	if err != nil {
		return nil, invalid(env, "%s", err)
	}
	var opts []frame.Option
	if c.Adjacent {
		opts = append(opts, frame.WithAdjacent())
	}
	if c.Inclusive {
		opts = append(opts, frame.WithInclusive())
	}
	a, err := frame.NewFrame(input, p, opts...)
	if err != nil {
		return nil, err
	}
	return window.NewSegmenter(input, a), nil
}

func buildWriter(_ context.Context, env Env, c WriterConfig) (operator.Operator, error) {
	input, err := env.Input()
	if err != nil {
		return nil, err
	}
	store, err := env.Stores.Lookup(c.Store)
	if err != nil {
		return nil, invalid(env, "%s", err)
	}
	if c.Aggregate == "" {
		c.Aggregate = "count"
	}
	factory, err := aggregate.ByName(c.Aggregate)
	if err != nil {
		return nil, invalid(env, "%s", err)
	}
	if c.Attribute == "" {
		if !input.HasProgressing() {
			return nil, invalid(env, "an attribute to aggregate is required")
		}
		c.Attribute = input.Attribute(input.Progressing()).Name
	}
	if _, ok := input.IndexOf(c.Attribute); !ok {
		return nil, invalid(env, "unknown attribute %q", c.Attribute)
	}
	var opts []reduce.WriterOption
	if c.GroupBy != "" {
		if _, ok := input.IndexOf(c.GroupBy); !ok {
			return nil, invalid(env, "unknown attribute %q", c.GroupBy)
		}
		opts = append(opts, reduce.WithEntryKeyFunc(reduce.AttributeKey(c.GroupBy)))
	}
	if c.ID != "" {
		opts = append(opts, reduce.WithWriterID(c.ID))
	}
	if c.PassThrough {
		opts = append(opts, reduce.WithPassThrough())
	}
	return reduce.NewWriter(input, store, aggregate.Update(c.Attribute, factory), opts...)
}

func buildReader(_ context.Context, env Env, c ReaderConfig) (operator.Operator, error) {
	input, err := env.Input()
	if err != nil {
		return nil, err
	}
	store, err := env.Stores.Lookup(c.Store)
	if err != nil {
		return nil, invalid(env, "%s", err)
	}
	var opts []reduce.ReaderOption
	if c.CacheSize > 0 {
		opts = append(opts, reduce.WithCacheSize(c.CacheSize))
	}
	return reduce.NewReader(input, aggregate.ResultSchema, store, aggregate.Results, opts...)
}

func buildLogger(_ context.Context, env Env, c LoggerConfig) (operator.Operator, error) {
	input, err := env.Input()
	if err != nil {
		return nil, err
	}
	opts := []logger.Option{logger.WithLogger(env.Logger), logger.WithPipelineName(env.Pipeline)}
	if c.Controls {
		opts = append(opts, logger.WithControls())
	}
	return logger.NewToLog(env.Vertex, input, opts...)
}

func buildBlackhole(ctx context.Context, env Env, _ empty) (operator.Operator, error) {
	input, err := env.Input()
	if err != nil {
		return nil, err
	}
	return blackhole.NewBlackhole(ctx, env.Vertex, env.Pipeline, input), nil
}
