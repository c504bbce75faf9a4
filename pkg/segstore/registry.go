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

package segstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/numaproj/segflow/pkg/shared/logging"
)

// Registry holds the stores of a pipeline by name. Operators receive the registry, or the store, at construction.
type Registry struct {
	stores map[string]*Store
	log    *zap.SugaredLogger
	sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry(ctx context.Context) *Registry {
	return &Registry{
		stores: make(map[string]*Store),
		log:    logging.FromContext(ctx),
	}
}

// Register creates a store and registers it under name.
func (r *Registry) Register(ctx context.Context, name string, opts ...Option) (*Store, error) {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.stores[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateStore, name)
	}
	opts = append([]Option{WithLogger(logging.FromContext(ctx))}, opts...)
	s, err := NewStore(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create store %q, %w", name, err)
	}
	r.stores[name] = s
	r.log.Infow("Registered store", zap.String("store", name), zap.Int("historySize", s.opts.historySize))
	return s, nil
}

// Lookup returns the store registered under name.
func (r *Registry) Lookup(name string) (*Store, error) {
	r.RLock()
	defer r.RUnlock()
	s, ok := r.stores[name]
	if !ok {
		return nil, UnknownStoreErr{Name: name}
	}
	return s, nil
}

// Deregister removes name from the registry, it returns whether it was registered. Operators holding the store
// keep using it.
func (r *Registry) Deregister(name string) bool {
	r.Lock()
	defer r.Unlock()
	_, ok := r.stores[name]
	delete(r.stores, name)
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns a snapshot of every registered store, sorted by name.
func (r *Registry) Stats() []Stats {
	names := r.Names()
	out := make([]Stats, 0, len(names))
	for _, name := range names {
		if s, err := r.Lookup(name); err == nil {
			out = append(out, s.Stats())
		}
	}
	return out
}
