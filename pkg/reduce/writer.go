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

package reduce

import (
	"context"

	"go.uber.org/zap"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/segstore"
	"github.com/numaproj/segflow/pkg/shared/logging"
)

// Writer applies tuples to a segmented store.
type Writer struct {
	operator.Base
	store  *segstore.Store
	update segstore.UpdateFunc
	opts   *writerOptions
	log    *zap.SugaredLogger
}

var _ operator.Operator = (*Writer)(nil)

// NewWriter returns a writer over tuples of schema and registers it with store. Writers of a store must all be
// constructed before any of them runs.
func NewWriter(schema *record.Schema, store *segstore.Store, update segstore.UpdateFunc, opts ...WriterOption) (*Writer, error) {
	if store == nil || update == nil {
		return nil, operator.ConfigurationErr{Operator: "writer", Message: "a store and an update function are required"}
	}
	o := defaultWriterOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, operator.ConfigurationErr{Operator: "writer", Message: err.Error()}
		}
	}
	store.RegisterWriter(o.id)
	return &Writer{
		Base:   operator.NewBase(schema),
		store:  store,
		update: update,
		opts:   o,
		log:    logging.NewLogger().With("store", store.Name(), "writer", o.id),
	}, nil
}

// ID returns the writer identity registered with the store.
func (w *Writer) ID() string {
	return w.opts.id
}

func (w *Writer) ProcessTuple(ctx context.Context, _ int, t *record.Tuple, out operator.Emitter) error {
	if err := w.store.Process(t, w.opts.keys(t), w.opts.entryKey(t), w.update); err != nil {
		return err
	}
	tuplesWritten.WithLabelValues(w.store.Name()).Inc()
	if w.opts.passThrough {
		return out.Emit(ctx, t)
	}
	return nil
}

// ForwardControl closes the segments named by Window punctuations, then forwards every control message.
func (w *Writer) ForwardControl(ctx context.Context, _ int, c record.Element, out operator.Emitter) error {
	if p, ok := c.(*record.Punctuation); ok && p.Type == record.Window {
		for _, key := range w.opts.punctKeys(p) {
			if err := w.store.CloseSegment(key); err != nil {
				return err
			}
			segmentsClosed.WithLabelValues(w.store.Name()).Inc()
		}
	}
	return out.EmitControl(ctx, c)
}

func (w *Writer) HandleEOS(context.Context, operator.Emitter) error {
	w.log.Infow("Writer reached end of stream", zap.Stringer("stats", w.store.Stats()))
	return w.store.SetEOS(w.opts.id)
}
