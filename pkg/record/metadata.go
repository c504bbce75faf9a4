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

package record

import (
	"fmt"
	"sort"
)

// Priority (X, Y) makes a tuple relevant to segment id iff id mod X == Y.
type Priority struct {
	X int64
	Y int64
}

// DefaultPriority makes a tuple relevant to every segment.
var DefaultPriority = Priority{X: 1, Y: 0}

// Validate checks X > 0 and 0 <= Y < X.
func (p Priority) Validate() error {
	if p.X <= 0 {
		return fmt.Errorf("priority modulus must be positive, got %d", p.X)
	}
	if p.Y < 0 || p.Y >= p.X {
		return fmt.Errorf("priority remainder must be in [0, %d), got %d", p.X, p.Y)
	}
	return nil
}

// Admits returns whether segment id is relevant under this priority.
func (p Priority) Admits(id int64) bool {
	if p.X <= 1 {
		return true
	}
	m := id % p.X
	if m < 0 {
		m += p.X
	}
	return m == p.Y
}

func (p Priority) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Metadata is the mutable part of a tuple: the segments it belongs to and its priority.
type Metadata struct {
	segments map[int64]struct{}
	priority Priority
}

// NewMetadata returns empty metadata with the default priority.
func NewMetadata() *Metadata {
	return &Metadata{
		segments: make(map[int64]struct{}),
		priority: DefaultPriority,
	}
}

// AddSegment adds a segment id, adding the same id twice is an error.
func (m *Metadata) AddSegment(id int64) error {
	if _, ok := m.segments[id]; ok {
		return fmt.Errorf("segment %d: %w", id, ErrDuplicateSegment)
	}
	m.segments[id] = struct{}{}
	return nil
}

// HasSegment returns whether the tuple belongs to segment id.
func (m *Metadata) HasSegment(id int64) bool {
	_, ok := m.segments[id]
	return ok
}

// Segments returns the segment ids in ascending order.
func (m *Metadata) Segments() []int64 {
	ids := make([]int64, 0, len(m.segments))
	for id := range m.segments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SegmentCount returns the number of segments.
func (m *Metadata) SegmentCount() int {
	return len(m.segments)
}

// ClearSegments removes every segment membership.
func (m *Metadata) ClearSegments() {
	for id := range m.segments {
		delete(m.segments, id)
	}
}

// Priority returns the priority.
func (m *Metadata) Priority() Priority {
	return m.priority
}

// SetPriority validates and sets the priority.
func (m *Metadata) SetPriority(p Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.priority = p
	return nil
}

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	c := &Metadata{
		segments: make(map[int64]struct{}, len(m.segments)),
		priority: m.priority,
	}
	for id := range m.segments {
		c.segments[id] = struct{}{}
	}
	return c
}

func (m *Metadata) String() string {
	return fmt.Sprintf("segments:%v priority:%s", m.Segments(), m.priority)
}
