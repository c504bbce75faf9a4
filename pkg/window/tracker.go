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

package window

import (
	"context"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
)

// PunctuationFunc builds the Window punctuation announcing that segment id closed.
type PunctuationFunc func(id int64) *record.Punctuation

// Tracker holds the current segment id, the oldest segment not closed yet.
type Tracker struct {
	current   int64
	strategy  string
	punctuate PunctuationFunc
	deferred  []*record.Punctuation
}

// NewTracker returns a tracker starting at segment 0.
func NewTracker(strategy string, punctuate PunctuationFunc) *Tracker {
	return &Tracker{strategy: strategy, punctuate: punctuate}
}

// Current returns the id of the oldest open segment.
func (t *Tracker) Current() int64 {
	return t.current
}

// Close announces the current segment as closed and moves to the next one.
func (t *Tracker) Close(ctx context.Context, out operator.Emitter) error {
	p := t.punctuate(t.current)
	if err := out.EmitControl(ctx, p); err != nil {
		return err
	}
	segmentsClosed.WithLabelValues(t.strategy).Inc()
	t.current++
	return nil
}

// AdvanceTo closes every segment below id.
func (t *Tracker) AdvanceTo(ctx context.Context, out operator.Emitter, id int64) error {
	for t.current < id {
		if err := t.Close(ctx, out); err != nil {
			return err
		}
	}
	return nil
}

// SkipTo moves the current segment to id without announcing the segments in between. Callers use it only for
// segments nothing was assigned to.
func (t *Tracker) SkipTo(id int64) {
	if id <= t.current {
		return
	}
	segmentsSkipped.WithLabelValues(t.strategy).Add(float64(id - t.current))
	t.current = id
}

// CloseDeferred moves to the next segment now but holds back the punctuation of the current one until Release,
// so that the tuple closing a segment can still be forwarded as its member.
func (t *Tracker) CloseDeferred() {
	t.deferred = append(t.deferred, t.punctuate(t.current))
	t.current++
}

// Release emits the punctuations held back by CloseDeferred.
func (t *Tracker) Release(ctx context.Context, out operator.Emitter) error {
	for len(t.deferred) > 0 {
		if err := out.EmitControl(ctx, t.deferred[0]); err != nil {
			return err
		}
		segmentsClosed.WithLabelValues(t.strategy).Inc()
		t.deferred = t.deferred[1:]
	}
	return nil
}
