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
	"sync"

	"github.com/numaproj/segflow/pkg/record"
)

// UpdateFunc merges t into the value of an entry. exists is false for the first tuple of the entry.
type UpdateFunc func(old any, exists bool, t *record.Tuple) (any, error)

// segment holds the entries of one segment key.
type segment struct {
	key  any
	lock sync.Mutex
	// entries in insertion order
	entries map[any]any
	order   []any
	// pending is the number of writers that did not close the segment yet
	pending int
	closed  bool
}

func newSegment(key any, writers int) *segment {
	return &segment{key: key, entries: make(map[any]any), pending: writers}
}

// apply runs update on the entry under the segment lock. It returns false if the segment closed meanwhile.
func (s *segment) apply(entryKey any, t *record.Tuple, update UpdateFunc) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return false, nil
	}
	old, exists := s.entries[entryKey]
	v, err := update(old, exists, t)
	if err != nil {
		return true, err
	}
	if !exists {
		s.order = append(s.order, entryKey)
	}
	s.entries[entryKey] = v
	return true, nil
}

func (s *segment) close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.closed = true
}

// SegmentReader is a read only view on a closed segment.
type SegmentReader struct {
	seg *segment
}

// Key returns the segment key.
func (r *SegmentReader) Key() any {
	return r.seg.key
}

// Get returns the value of an entry.
func (r *SegmentReader) Get(entryKey any) (any, bool) {
	v, ok := r.seg.entries[entryKey]
	return v, ok
}

// Len returns the number of entries.
func (r *SegmentReader) Len() int {
	return len(r.seg.order)
}

// Keys returns the entry keys in insertion order.
func (r *SegmentReader) Keys() []any {
	return append([]any{}, r.seg.order...)
}

// Range calls f for every entry in insertion order until f returns false.
func (r *SegmentReader) Range(f func(entryKey, value any) bool) {
	for _, k := range r.seg.order {
		if !f(k, r.seg.entries[k]) {
			return
		}
	}
}
