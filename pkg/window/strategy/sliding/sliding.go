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

// Package sliding implements value based sliding windows over the progressing attribute. A window of size S and
// slide L opens segment k over the progressing values [start+k*L, start+k*L+S). The start is the first value
// seen unless configured.
//
// A segment is closed as soon as a tuple beyond it arrives, or when an Interval punctuation asserts a watermark
// at or past its end. Only segments that were assigned a tuple are announced: a jump of the progressing value
// skips the empty segments in between. Interval punctuations are forwarded, Window punctuations from upstream are swallowed so that
// they do not pile up through chained windows.
package sliding

import (
	"context"
	"fmt"
	"math"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/window"
)

const strategy = "sliding"

// Sliding assigns tuples by the value of their progressing attribute.
type Sliding struct {
	// Size is the extent of a segment in progressing attribute units
	Size float64
	// Slide is the offset between the starts of two successive segments
	Slide float64
	start    float64
	startSet bool
	highest  int64
	tracker  *window.Tracker
}

var _ window.Assigner = (*Sliding)(nil)

type Option func(*Sliding)

// WithStart fixes the value segment 0 starts at.
func WithStart(start float64) Option {
	return func(s *Sliding) {
		s.start = start
		s.startSet = true
	}
}

// NewSliding returns a value window over tuples of schema, which must have a progressing attribute.
func NewSliding(schema *record.Schema, size, slide float64, opts ...Option) (*Sliding, error) {
	if !(size > 0) || !(slide > 0) {
		return nil, operator.ConfigurationErr{Operator: strategy, Message: fmt.Sprintf("size and slide must be positive, got size %v, slide %v", size, slide)}
	}
	if !schema.HasProgressing() {
		return nil, operator.ConfigurationErr{Operator: strategy, Message: fmt.Sprintf("schema %s has no progressing attribute", schema)}
	}
	s := &Sliding{Size: size, Slide: slide, highest: -1}
	for _, opt := range opts {
		opt(s)
	}
	s.tracker = window.NewTracker(strategy, func(id int64) *record.Punctuation {
		return record.NewWindowPunctuation(s.start, s.Slide, id, s.SegmentStart(id), s.Size)
	})
	return s, nil
}

// Start returns the value segment 0 starts at, and whether it is known yet.
func (s *Sliding) Start() (float64, bool) {
	return s.start, s.startSet
}

// SegmentStart returns the first value covered by segment id.
func (s *Sliding) SegmentStart(id int64) float64 {
	return s.start + float64(id)*s.Slide
}

// Range returns the inclusive range of segment ids value v belongs to. lo > hi when it belongs to none.
func (s *Sliding) Range(v float64) (lo, hi int64) {
	d := v - s.start
	if d >= s.Size {
		lo = int64(math.Floor((d-s.Size)/s.Slide)) + 1
	}
	return lo, int64(math.Floor(d / s.Slide))
}

func (s *Sliding) Strategy() string {
	return strategy
}

func (s *Sliding) Tracker() *window.Tracker {
	return s.tracker
}

func (s *Sliding) Assign(ctx context.Context, t *record.Tuple, out operator.Emitter) error {
	v, err := t.ProgressingValue()
	if err != nil {
		return err
	}
	if !s.startSet {
		s.start = v
		s.startSet = true
	}
	if v < s.start {
		return nil
	}
	lo, hi := s.Range(v)
	// segments past the highest one assigned are empty, a jump of the progressing value skips them silently
	// instead of emitting one Window punctuation per gap segment
	if err := s.tracker.AdvanceTo(ctx, out, min(lo, s.highest+1)); err != nil {
		return err
	}
	s.tracker.SkipTo(lo)
	// late tuples only join the segments still open
	if lo < s.tracker.Current() {
		lo = s.tracker.Current()
	}
	if hi > s.highest {
		s.highest = hi
	}
	_, err = window.AttachRange(t, lo, hi)
	return err
}

func (s *Sliding) Control(ctx context.Context, c record.Element, out operator.Emitter) (bool, error) {
	p, ok := c.(*record.Punctuation)
	if !ok {
		return false, nil
	}
	switch p.Type {
	case record.Window:
		return true, nil
	case record.Interval:
		if !s.startSet {
			return false, nil
		}
		// segments nothing was assigned to yet are closed by the tuples that skip them
		watermark := p.Watermark()
		for s.tracker.Current() <= s.highest && s.SegmentStart(s.tracker.Current())+s.Size <= watermark {
			if err := s.tracker.Close(ctx, out); err != nil {
				return false, err
			}
		}
		return false, nil
	default:
		return false, nil
	}
}

func (s *Sliding) Flush(ctx context.Context, out operator.Emitter) error {
	return s.tracker.AdvanceTo(ctx, out, s.highest+1)
}
