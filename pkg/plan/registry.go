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
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/segstore"
)

// Env is what a factory gets to build the operator of a vertex.
type Env struct {
	Pipeline string
	Vertex   string
	// Inputs are the output schemas of the input vertices, in port order
	Inputs []*record.Schema
	Stores *segstore.Registry
	Logger *zap.SugaredLogger
}

// Input returns the schema of the only input of the vertex.
func (e Env) Input() (*record.Schema, error) {
	if len(e.Inputs) != 1 {
		return nil, operator.ConfigurationErr{Operator: e.Vertex, Message: fmt.Sprintf("expected exactly one input, got %d", len(e.Inputs))}
	}
	return e.Inputs[0], nil
}

// Factory builds the operator of a vertex from its raw configuration.
type Factory func(ctx context.Context, env Env, config map[string]any) (operator.Operator, error)

// Registry maps vertex types to factories.
type Registry struct {
	lock      sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds the factory of type tag. Tags are registered once.
func (r *Registry) Register(tag string, f Factory) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.factories[tag]; ok {
		return fmt.Errorf("a factory is already registered for type %q", tag)
	}
	r.factories[tag] = f
	return nil
}

// Lookup returns the factory of type tag.
func (r *Registry) Lookup(tag string) (Factory, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f, ok := r.factories[tag]
	if !ok {
		return nil, UnknownFactoryErr{Type: tag}
	}
	return f, nil
}

// Types returns the registered tags, sorted.
func (r *Registry) Types() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Decode fills out, a pointer to a config struct, from a raw vertex configuration. Unknown keys are rejected
// and strings are accepted for durations and numbers.
func Decode(config map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(config)
}

// Typed adapts a factory of a typed config, decoded with Decode, into a Factory.
func Typed[C any](build func(ctx context.Context, env Env, config C) (operator.Operator, error)) Factory {
	return func(ctx context.Context, env Env, raw map[string]any) (operator.Operator, error) {
		var config C
		if err := Decode(raw, &config); err != nil {
			return nil, operator.ConfigurationErr{Operator: env.Vertex, Message: err.Error()}
		}
		return build(ctx, env, config)
	}
}
