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
	"reflect"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/numaproj/segflow/pkg/metrics"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/shared/queue"
)

// Store is one named segmented store. It is safe for concurrent use.
type Store struct {
	name string
	// lock guards the segment maps, history, writers and notify
	lock   sync.RWMutex
	open   map[any]*segment
	closed map[any]*segment
	// history holds segment keys in creation order
	history *queue.OverflowQueue[any]
	// evicted holds the keys of closed segments dropped from history, they are never created again
	evicted map[any]struct{}
	writers map[string]bool
	// remaining is the number of registered writers that did not signal end of stream
	remaining int
	finished  bool
	// notify is closed, and replaced, whenever a segment closes or a writer finishes
	notify  chan struct{}
	blocked *atomic.Int32
	opts    *options
	log     *zap.SugaredLogger
}

// Stats is a snapshot of a store, to diagnose readers waiting on segments nobody closes.
type Stats struct {
	Name             string
	Open             int
	Closed           int
	Writers          int
	RemainingWriters int
	BlockedReaders   int
	History          int
	Evicted          int
	Finished         bool
}

func (s Stats) String() string {
	return fmt.Sprintf("store:%s open:%d closed:%d writers:%d remainingWriters:%d blockedReaders:%d history:%d evicted:%d finished:%t",
		s.Name, s.Open, s.Closed, s.Writers, s.RemainingWriters, s.BlockedReaders, s.History, s.Evicted, s.Finished)
}

// NewStore returns a store that is not registered anywhere. Use Registry.Register to share it by name.
func NewStore(name string, opts ...Option) (*Store, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return &Store{
		name:    name,
		open:    make(map[any]*segment),
		closed:  make(map[any]*segment),
		history: queue.New[any](0),
		evicted: make(map[any]struct{}),
		writers: make(map[string]bool),
		notify:  make(chan struct{}),
		blocked: atomic.NewInt32(0),
		opts:    o,
		log:     o.logger.With("store", name),
	}, nil
}

// Name returns the registered name.
func (s *Store) Name() string {
	return s.name
}

func (s *Store) labels() prometheus.Labels {
	return prometheus.Labels{metrics.LabelStore: s.name}
}

func (s *Store) checkKey(key any) error {
	if key == nil || !reflect.TypeOf(key).Comparable() {
		return InvalidKeyErr{Store: s.name, Key: key}
	}
	return nil
}

// RegisterWriter adds a writer and resets the end of stream countdown to the number of writers that did not finish.
// Registering the same writer twice has no effect.
func (s *Store) RegisterWriter(id string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.writers[id]; ok {
		return
	}
	if len(s.open)+len(s.closed) > 0 {
		s.log.Warnw("Writer registered after segments were created, their closing does not wait for it", zap.String("writer", id))
	}
	s.writers[id] = false
	s.remaining = 0
	for _, done := range s.writers {
		if !done {
			s.remaining++
		}
	}
	s.finished = false
	s.log.Infow("Registered writer", zap.String("writer", id), zap.Int("writers", len(s.writers)))
}

// Process applies update to the entry entryKey of every segment in keys, creating open segments on the fly.
// Writes to closed or evicted segments are dropped.
func (s *Store) Process(t *record.Tuple, keys []any, entryKey any, update UpdateFunc) error {
	if err := s.checkKey(entryKey); err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.checkKey(key); err != nil {
			return err
		}
		seg := s.segmentForWrite(key)
		if seg != nil {
			applied, err := seg.apply(entryKey, t, update)
			if err != nil {
				return fmt.Errorf("failed to update entry %v of segment %v, %w", entryKey, key, err)
			}
			if applied {
				entriesWritten.With(s.labels()).Inc()
				continue
			}
		}
		lateWrites.With(s.labels()).Inc()
		s.log.Warnw("Dropping write to a closed segment", zap.Any("segment", key), zap.Any("entry", entryKey))
	}
	return nil
}

// segmentForWrite returns the open segment of key, creating it if needed, or nil if key is closed, evicted or the
// store finished.
func (s *Store) segmentForWrite(key any) *segment {
	s.lock.RLock()
	seg, ok := s.open[key]
	s.lock.RUnlock()
	if ok {
		return seg
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if seg, ok := s.open[key]; ok {
		return seg
	}
	if s.isClosed(key) || s.finished {
		return nil
	}
	return s.create(key)
}

// isClosed reports whether key is closed, retained or evicted. Callers hold the lock.
func (s *Store) isClosed(key any) bool {
	if _, ok := s.closed[key]; ok {
		return true
	}
	_, ok := s.evicted[key]
	return ok
}

// create adds an open segment waiting for the close of every writer that did not finish. Callers hold the write
// lock.
func (s *Store) create(key any) *segment {
	seg := newSegment(key, s.remaining)
	s.open[key] = seg
	s.history.Append(key)
	openSegments.With(s.labels()).Inc()
	return seg
}

// CloseSegment records that one writer closed key. The segment closes once every writer did. Closing a key that
// was never written creates it first.
func (s *Store) CloseSegment(key any) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.isClosed(key) {
		s.log.Warnw("Segment closed more often than there are writers", zap.Any("segment", key))
		return nil
	}
	seg, ok := s.open[key]
	if !ok {
		if s.finished {
			s.log.Warnw("Ignoring close of an unknown segment after all writers finished", zap.Any("segment", key))
			return nil
		}
		s.log.Infow("Closing a segment that was never written, creating it", zap.Any("segment", key))
		seg = s.create(key)
	}
	if seg.pending > 0 {
		seg.pending--
	}
	if seg.pending == 0 {
		s.finalize(seg)
		s.broadcast()
	}
	return nil
}

// finalize moves seg from open to closed and evicts the oldest closed segments past the history size. Callers hold
// the write lock.
func (s *Store) finalize(seg *segment) {
	seg.close()
	delete(s.open, seg.key)
	s.closed[seg.key] = seg
	openSegments.With(s.labels()).Dec()
	closedSegments.With(s.labels()).Inc()
	s.log.Debugw("Closed segment", zap.Any("segment", seg.key))

	// keys of segments still open are rotated to the back, the loop ends since more segments are closed than
	// retained
	for len(s.closed) > s.opts.historySize {
		key, ok := s.history.PopFront()
		if !ok {
			return
		}
		if _, isClosed := s.closed[key]; isClosed {
			delete(s.closed, key)
			s.evicted[key] = struct{}{}
			closedSegments.With(s.labels()).Dec()
			evictions.With(prometheus.Labels{metrics.LabelStore: s.name, metrics.LabelReason: "history"}).Inc()
			continue
		}
		if _, isOpen := s.open[key]; isOpen {
			s.history.Append(key)
		}
		evictions.With(prometheus.Labels{metrics.LabelStore: s.name, metrics.LabelReason: "out_of_order"}).Inc()
		s.log.Warnw("Oldest segment in history is not closed, segments are not closed in creation order", zap.Any("segment", key))
	}
}

// broadcast wakes every blocked reader. Callers hold the write lock.
func (s *Store) broadcast() {
	close(s.notify)
	s.notify = make(chan struct{})
}

// lookup returns the reader of key if closed, and whether the key is unknown: evicted, or with no writer left to
// create it.
func (s *Store) lookup(key any) (*SegmentReader, bool, chan struct{}) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if seg, ok := s.closed[key]; ok {
		return &SegmentReader{seg: seg}, false, s.notify
	}
	if _, ok := s.open[key]; ok {
		return nil, false, s.notify
	}
	if _, ok := s.evicted[key]; ok {
		return nil, true, s.notify
	}
	return nil, s.remaining == 0, s.notify
}

// GetSegmentReader returns the reader of a closed segment, waiting until the segment closes. It fails with
// UnknownSegmentErr when the key was evicted from history, or is neither open nor closed and every writer finished.
func (s *Store) GetSegmentReader(ctx context.Context, key any) (*SegmentReader, error) {
	if err := s.checkKey(key); err != nil {
		return nil, err
	}
	for {
		r, unknown, notify := s.lookup(key)
		if r != nil {
			return r, nil
		}
		if unknown {
			return nil, UnknownSegmentErr{Store: s.name, Key: key}
		}
		s.blocked.Inc()
		blockedReaders.With(s.labels()).Inc()
		select {
		case <-ctx.Done():
			s.blocked.Dec()
			blockedReaders.With(s.labels()).Dec()
			return nil, fmt.Errorf("interrupted while waiting for segment %v of store %s, %w", key, s.name, ctx.Err())
		case <-notify:
		}
		s.blocked.Dec()
		blockedReaders.With(s.labels()).Dec()
	}
}

// TryGetSegmentReader returns the reader of a closed segment, or ErrNotReady if the segment is open or may still
// be created.
func (s *Store) TryGetSegmentReader(key any) (*SegmentReader, error) {
	if err := s.checkKey(key); err != nil {
		return nil, err
	}
	r, unknown, _ := s.lookup(key)
	if r != nil {
		return r, nil
	}
	if unknown {
		return nil, UnknownSegmentErr{Store: s.name, Key: key}
	}
	return nil, ErrNotReady
}

// SetEOS records that writer id finished. When the last writer finishes every open segment is closed, in
// creation order. Repeated calls for the same writer have no effect.
func (s *Store) SetEOS(id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	done, ok := s.writers[id]
	if !ok {
		return UnknownWriterErr{Store: s.name, Writer: id}
	}
	if done {
		return nil
	}
	s.writers[id] = true
	s.remaining--
	s.log.Infow("Writer finished", zap.String("writer", id), zap.Int("remaining", s.remaining))
	if s.remaining > 0 {
		return nil
	}
	s.finished = true
	for _, key := range s.history.Items() {
		if seg, ok := s.open[key]; ok {
			s.finalize(seg)
		}
	}
	s.broadcast()
	s.log.Infow("All writers finished", zap.Int("closed", len(s.closed)))
	return nil
}

// Stats returns a snapshot of the store.
func (s *Store) Stats() Stats {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return Stats{
		Name:             s.name,
		Open:             len(s.open),
		Closed:           len(s.closed),
		Writers:          len(s.writers),
		RemainingWriters: s.remaining,
		BlockedReaders:   int(s.blocked.Load()),
		History:          s.history.Length(),
		Evicted:          len(s.evicted),
		Finished:         s.finished,
	}
}
