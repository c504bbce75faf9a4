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
	"errors"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/segstore"
	"github.com/numaproj/segflow/pkg/shared/logging"
)

// ResultFunc turns the finalized content of a segment into output tuples.
type ResultFunc func(key any, r *segstore.SegmentReader) ([]*record.Tuple, error)

// JoinFunc joins a tuple with the finalized segments its keys name, in key order.
type JoinFunc func(t *record.Tuple, readers []*segstore.SegmentReader) ([]*record.Tuple, error)

// Reader emits the finalized content of segments.
//
// On a Window punctuation the segments named by the punctuation are emitted through the ResultFunc, followed by
// the punctuation itself. With WithLookup every tuple is joined with the segments named by its keys instead of
// being forwarded.
type Reader struct {
	operator.Base
	store  *segstore.Store
	result ResultFunc
	cache  *lru.Cache[any, *segstore.SegmentReader]
	opts   *readerOptions
	log    *zap.SugaredLogger
}

var _ operator.Operator = (*Reader)(nil)

// NewReader returns a reader of store over tuples of input, emitting tuples of output. result may be nil for a
// reader only used for lookups.
func NewReader(input, output *record.Schema, store *segstore.Store, result ResultFunc, opts ...ReaderOption) (*Reader, error) {
	if store == nil {
		return nil, operator.ConfigurationErr{Operator: "reader", Message: "a store is required"}
	}
	o := defaultReaderOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, operator.ConfigurationErr{Operator: "reader", Message: err.Error()}
		}
	}
	if result == nil && o.join == nil {
		return nil, operator.ConfigurationErr{Operator: "reader", Message: "either a result function or a lookup is required"}
	}
	cache, err := lru.New[any, *segstore.SegmentReader](o.cacheSize)
	if err != nil {
		return nil, operator.ConfigurationErr{Operator: "reader", Message: err.Error()}
	}
	return &Reader{
		Base:   operator.Base{Inputs: []*record.Schema{input}, Output: output},
		store:  store,
		result: result,
		cache:  cache,
		opts:   o,
		log:    logging.NewLogger().With("store", store.Name()),
	}, nil
}

// readers returns the readers of every key, or operator.ErrNotReady if one of them is not closed yet. Nothing
// is emitted before every segment is available, so that a retried element does not emit twice.
func (r *Reader) readers(keys []any) ([]*segstore.SegmentReader, error) {
	out := make([]*segstore.SegmentReader, 0, len(keys))
	for _, key := range keys {
		if key == nil || !reflect.TypeOf(key).Comparable() {
			return nil, segstore.InvalidKeyErr{Store: r.store.Name(), Key: key}
		}
		if sr, ok := r.cache.Get(key); ok {
			readerCacheHits.WithLabelValues(r.store.Name()).Inc()
			out = append(out, sr)
			continue
		}
		sr, err := r.store.TryGetSegmentReader(key)
		if errors.Is(err, segstore.ErrNotReady) {
			readerNotReady.WithLabelValues(r.store.Name()).Inc()
			return nil, operator.ErrNotReady
		}
		if err != nil {
			return nil, err
		}
		r.cache.Add(key, sr)
		out = append(out, sr)
	}
	return out, nil
}

func (r *Reader) ProcessTuple(ctx context.Context, _ int, t *record.Tuple, out operator.Emitter) error {
	if r.opts.join == nil {
		return out.Emit(ctx, t)
	}
	readers, err := r.readers(r.opts.lookupKeys(t))
	if err != nil {
		return err
	}
	joined, err := r.opts.join(t, readers)
	if err != nil {
		return err
	}
	for _, j := range joined {
		if err := out.Emit(ctx, j); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) ForwardControl(ctx context.Context, _ int, c record.Element, out operator.Emitter) error {
	p, ok := c.(*record.Punctuation)
	if !ok || p.Type != record.Window || r.result == nil {
		return out.EmitControl(ctx, c)
	}
	keys := r.opts.punctKeys(p)
	readers, err := r.readers(keys)
	if err != nil {
		return err
	}
	for i, sr := range readers {
		results, err := r.result(keys[i], sr)
		if err != nil {
			return err
		}
		for _, t := range results {
			if err := out.Emit(ctx, t); err != nil {
				return err
			}
		}
		segmentsEmitted.WithLabelValues(r.store.Name()).Inc()
		r.log.Debugw("Emitted segment", zap.Any("segment", keys[i]), zap.Int("tuples", len(results)))
	}
	return out.EmitControl(ctx, c)
}
