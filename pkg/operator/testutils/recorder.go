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

package testutils

import (
	"context"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
)

// Recorder is an Emitter keeping what a hook emits, for testing operators without a runtime.
type Recorder struct {
	// Forward holds the tuples and control messages emitted forward, in order
	Forward []record.Element
	// Backward holds the control messages emitted backward, in order
	Backward []record.Element
}

var _ operator.Emitter = (*Recorder)(nil)

func (r *Recorder) Emit(_ context.Context, t *record.Tuple) error {
	r.Forward = append(r.Forward, t)
	return nil
}

func (r *Recorder) EmitControl(_ context.Context, c record.Element) error {
	r.Forward = append(r.Forward, c)
	return nil
}

func (r *Recorder) EmitBackward(_ context.Context, c record.Element) error {
	r.Backward = append(r.Backward, c)
	return nil
}

// Tuples returns the tuples emitted forward.
func (r *Recorder) Tuples() []*record.Tuple {
	var out []*record.Tuple
	for _, e := range r.Forward {
		if t, ok := e.(*record.Tuple); ok {
			out = append(out, t)
		}
	}
	return out
}

// Punctuations returns the punctuations emitted forward.
func (r *Recorder) Punctuations() []*record.Punctuation {
	var out []*record.Punctuation
	for _, e := range r.Forward {
		if p, ok := e.(*record.Punctuation); ok {
			out = append(out, p)
		}
	}
	return out
}

// Trace renders the forward elements compactly: "t:<progressing value>" for tuples, "w:<segment id>" for Window
// punctuations, "i:<watermark>" for Interval punctuations and the kind for anything else.
func (r *Recorder) Trace() []string {
	out := make([]string, 0, len(r.Forward))
	for _, e := range r.Forward {
		out = append(out, trace(e))
	}
	return out
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.Forward = nil
	r.Backward = nil
}
