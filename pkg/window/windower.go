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

// Assigner is a segmentation policy.
type Assigner interface {
	// Strategy returns the name of the policy, e.g. "count".
	Strategy() string
	// Tracker returns the segment id tracker of the policy.
	Tracker() *Tracker
	// Assign attaches segment ids to t. Segments closed by t are announced through out before t is forwarded,
	// unless the closing was deferred on the tracker.
	Assign(ctx context.Context, t *record.Tuple, out operator.Emitter) error
	// Control handles a control message read forward, it returns true when the message must not be forwarded.
	Control(ctx context.Context, c record.Element, out operator.Emitter) (consumed bool, err error)
	// Flush closes the segments still open at end of stream.
	Flush(ctx context.Context, out operator.Emitter) error
}

// Predicate decides frame boundaries.
type Predicate interface {
	// IsApplicable returns whether the predicate can be evaluated on tuples of the schema.
	IsApplicable(schema *record.Schema) bool
	// Evaluate returns whether t satisfies the predicate.
	Evaluate(t *record.Tuple) (bool, error)
}

// PredicateFunc adapts a function to a Predicate applicable to every schema.
type PredicateFunc func(t *record.Tuple) (bool, error)

func (f PredicateFunc) IsApplicable(*record.Schema) bool {
	return true
}

func (f PredicateFunc) Evaluate(t *record.Tuple) (bool, error) {
	return f(t)
}

// AttachRange attaches every segment id in [lo, hi] to t, through its priority filter. It returns how many were
// attached.
func AttachRange(t *record.Tuple, lo, hi int64) (int, error) {
	attached := 0
	for id := lo; id <= hi; id++ {
		ok, err := t.AssignSegment(id)
		if err != nil {
			return attached, err
		}
		if ok {
			attached++
		}
	}
	return attached, nil
}
