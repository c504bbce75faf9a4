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
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/segstore"
	"github.com/numaproj/segflow/pkg/shared/logging"
	"github.com/numaproj/segflow/pkg/stream"
)

// Pipeline is a built pipeline: one runtime per vertex and one stream per edge.
type Pipeline struct {
	name     string
	stores   *segstore.Registry
	runtimes []*operator.Runtime
	byName   map[string]*operator.Runtime
	streams  []*stream.Channel
	log      *zap.SugaredLogger
}

// Build validates spec, creates its stores, then builds the operators with the factories of registry in
// dependency order and wires them.
func Build(ctx context.Context, spec *PipelineSpec, registry *Registry, opts ...operator.Option) (*Pipeline, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	order, err := spec.order()
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx).With("pipeline", spec.Name)
	ctx = logging.WithLogger(ctx, log)

	p := &Pipeline{
		name:   spec.Name,
		stores: segstore.NewRegistry(ctx),
		byName: make(map[string]*operator.Runtime, len(order)),
		log:    log,
	}
	for _, st := range spec.Stores {
		var storeOpts []segstore.Option
		if st.HistorySize > 0 {
			storeOpts = append(storeOpts, segstore.WithHistorySize(st.HistorySize))
		}
		if _, err := p.stores.Register(ctx, st.Name, storeOpts...); err != nil {
			return nil, err
		}
	}

	runtimeOpts := []operator.Option{operator.WithPipelineName(spec.Name), operator.WithLogger(log)}
	if spec.PageSize > 0 {
		runtimeOpts = append(runtimeOpts, operator.WithPageSize(spec.PageSize))
	}
	runtimeOpts = append(runtimeOpts, opts...)
	schemas := make(map[string]*record.Schema, len(order))
	for _, v := range order {
		factory, err := registry.Lookup(v.Type)
		if err != nil {
			return nil, SpecErr{Vertex: v.Name, Message: err.Error()}
		}
		env := Env{
			Pipeline: spec.Name,
			Vertex:   v.Name,
			Stores:   p.stores,
			Logger:   log.With("vertex", v.Name),
		}
		for _, in := range v.Inputs {
			env.Inputs = append(env.Inputs, schemas[in])
		}
		cfg, err := spec.config(v)
		if err != nil {
			return nil, err
		}
		op, err := factory(ctx, env, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build vertex %q, %w", v.Name, err)
		}
		if op.OutputSchema() == nil {
			return nil, SpecErr{Vertex: v.Name, Message: "the operator has no output schema"}
		}
		schemas[v.Name] = op.OutputSchema()
		r, err := operator.New(v.Name, op, runtimeOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to build vertex %q, %w", v.Name, err)
		}
		for _, in := range v.Inputs {
			ch := stream.NewChannel(in+"->"+v.Name, spec.ChannelCapacity)
			if err := p.byName[in].AddOutput(ch); err != nil {
				return nil, err
			}
			if err := r.AddInput(ch); err != nil {
				return nil, err
			}
			p.streams = append(p.streams, ch)
		}
		p.runtimes = append(p.runtimes, r)
		p.byName[v.Name] = r
	}
	log.Infow("Built pipeline", zap.Int("vertices", len(p.runtimes)), zap.Int("streams", len(p.streams)), zap.Strings("stores", p.stores.Names()))
	return p, nil
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Runtime returns the runtime of vertex name.
func (p *Pipeline) Runtime(name string) (*operator.Runtime, bool) {
	r, ok := p.byName[name]
	return r, ok
}

// Stores returns the store registry of the pipeline.
func (p *Pipeline) Stores() *segstore.Registry {
	return p.stores
}

// Streams returns the streams of the pipeline, in creation order.
func (p *Pipeline) Streams() []*stream.Channel {
	return p.streams
}

// Run runs every runtime until all terminated. The first failure cancels the others, the returned error
// combines the failures that were not caused by that cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	var lock sync.Mutex
	var failures, cancellations error
	for _, r := range p.runtimes {
		r := r
		g.Go(func() error {
			err := r.Run(gctx)
			if err != nil {
				lock.Lock()
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					cancellations = multierr.Append(cancellations, err)
				} else {
					failures = multierr.Append(failures, err)
				}
				lock.Unlock()
			}
			return err
		})
	}
	_ = g.Wait()
	for _, s := range p.stores.Stats() {
		p.log.Infow("Store statistics", zap.Stringer("stats", s))
	}
	if failures != nil {
		p.log.Errorw("Pipeline failed", zap.Error(failures))
		return failures
	}
	if cancellations != nil {
		return cancellations
	}
	p.log.Info("Pipeline terminated")
	return nil
}

// Stop stops every runtime, Run then returns nil.
func (p *Pipeline) Stop() {
	p.log.Info("Stopping pipeline")
	for _, r := range p.runtimes {
		r.Stop()
	}
}
