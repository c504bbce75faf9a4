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

// Package frame implements predicate driven frames: variable length segments whose boundaries are the tuples
// satisfying a predicate.
//
// A satisfying tuple ends the current frame. With Inclusive it is the last member of the frame it ends, with
// Adjacent it is also the first member of the next frame. A satisfying tuple that is neither is dropped.
package frame

import (
	"context"
	"fmt"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/window"
)

const strategy = "frame"

type options struct {
	adjacent  bool
	inclusive bool
}

type Option func(*options)

// WithAdjacent makes the satisfying tuple the first member of the next frame.
func WithAdjacent() Option {
	return func(o *options) {
		o.adjacent = true
	}
}

// WithInclusive makes the satisfying tuple the last member of the frame it closes.
func WithInclusive() Option {
	return func(o *options) {
		o.inclusive = true
	}
}

// Frame assigns tuples to the current frame until the predicate is satisfied.
type Frame struct {
	predicate window.Predicate
	opts      options
	schema    *record.Schema
	// members of the current frame, and the ordinal or progressing value of its first and last member
	members int64
	first   float64
	last    float64
	ordinal int64
	tracker *window.Tracker
}

var _ window.Assigner = (*Frame)(nil)

// NewFrame returns a frame policy over tuples of schema. The predicate must be applicable to the schema.
func NewFrame(schema *record.Schema, predicate window.Predicate, opts ...Option) (*Frame, error) {
	if predicate == nil || !predicate.IsApplicable(schema) {
		return nil, operator.ConfigurationErr{Operator: strategy, Message: fmt.Sprintf("predicate %v is not applicable to schema %s", predicate, schema)}
	}
	f := &Frame{predicate: predicate, schema: schema}
	for _, opt := range opts {
		opt(&f.opts)
	}
	// Window punctuations of frames carry the extent of the closed frame: the progressing value of its first
	// member and last-first+1, or tuple ordinals when the schema has no progressing attribute.
	f.tracker = window.NewTracker(strategy, func(id int64) *record.Punctuation {
		return record.NewWindowPunctuation(f.first, f.last-f.first+1, id, f.first, f.last-f.first+1)
	})
	return f, nil
}

func (f *Frame) Strategy() string {
	return strategy
}

func (f *Frame) Tracker() *window.Tracker {
	return f.tracker
}

func (f *Frame) position(t *record.Tuple) (float64, error) {
	defer func() { f.ordinal++ }()
	if !f.schema.HasProgressing() {
		return float64(f.ordinal), nil
	}
	return t.ProgressingValue()
}

func (f *Frame) join(t *record.Tuple, pos float64) error {
	if f.members == 0 {
		f.first = pos
	}
	f.last = pos
	f.members++
	_, err := window.AttachRange(t, f.tracker.Current(), f.tracker.Current())
	return err
}

func (f *Frame) Assign(ctx context.Context, t *record.Tuple, out operator.Emitter) error {
	pos, err := f.position(t)
	if err != nil {
		return err
	}
	satisfied, err := f.predicate.Evaluate(t)
	if err != nil {
		return err
	}
	if !satisfied {
		return f.join(t, pos)
	}
	if f.opts.inclusive {
		if err := f.join(t, pos); err != nil {
			return err
		}
		// t is forwarded before the punctuation closing its frame
		f.tracker.CloseDeferred()
		f.members = 0
	} else if f.members > 0 {
		if err := f.tracker.Close(ctx, out); err != nil {
			return err
		}
		f.members = 0
	}
	if f.opts.adjacent {
		return f.join(t, pos)
	}
	return nil
}

// Control forwards every control message, frames are only delimited by tuples.
func (f *Frame) Control(context.Context, record.Element, operator.Emitter) (bool, error) {
	return false, nil
}

func (f *Frame) Flush(ctx context.Context, out operator.Emitter) error {
	if f.members == 0 {
		return nil
	}
	f.members = 0
	return f.tracker.Close(ctx, out)
}
