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

// Package count implements count based sliding windows. A window of size S and slide L, both counted in tuples,
// opens a new segment every L tuples and keeps it open for S tuples. With L == S the windows are tumbling, with
// L < S they overlap and with L > S tuples between two windows belong to none and are dropped.
package count

import (
	"context"
	"fmt"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/window"
)

const strategy = "count"

// Count assigns the n-th tuple (0-indexed) to every segment in Range(n).
type Count struct {
	// Size is the number of tuples per segment
	Size int64
	// Slide is the number of tuples between the starts of two successive segments
	Slide int64
	// n is the index of the next tuple
	n       int64
	highest int64
	tracker *window.Tracker
}

var _ window.Assigner = (*Count)(nil)

// NewCount returns a count window.
func NewCount(size, slide int64) (*Count, error) {
	if size <= 0 || slide <= 0 {
		return nil, operator.ConfigurationErr{Operator: strategy, Message: fmt.Sprintf("size and slide must be positive, got size %d, slide %d", size, slide)}
	}
	c := &Count{Size: size, Slide: slide, highest: -1}
	c.tracker = window.NewTracker(strategy, func(id int64) *record.Punctuation {
		return record.NewWindowPunctuation(0, float64(slide), id, float64(id*slide), float64(size))
	})
	return c, nil
}

// Range returns the inclusive range of segment ids the n-th tuple belongs to. lo > hi when it belongs to none.
func (c *Count) Range(n int64) (lo, hi int64) {
	if n >= c.Size {
		lo = (n-c.Size)/c.Slide + 1
	}
	return lo, n / c.Slide
}

func (c *Count) Strategy() string {
	return strategy
}

func (c *Count) Tracker() *window.Tracker {
	return c.tracker
}

func (c *Count) Assign(ctx context.Context, t *record.Tuple, out operator.Emitter) error {
	lo, hi := c.Range(c.n)
	c.n++
	if err := c.tracker.AdvanceTo(ctx, out, lo); err != nil {
		return err
	}
	if hi > c.highest {
		c.highest = hi
	}
	_, err := window.AttachRange(t, lo, hi)
	return err
}

// Control forwards every control message, count windows do not depend on watermarks.
func (c *Count) Control(context.Context, record.Element, operator.Emitter) (bool, error) {
	return false, nil
}

func (c *Count) Flush(ctx context.Context, out operator.Emitter) error {
	return c.tracker.AdvanceTo(ctx, out, c.highest+1)
}
