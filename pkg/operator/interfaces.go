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

/*
Package operator implements the runtime every operator shares: a single goroutine per operator that polls the
backward queues of its output streams and the forward queues of its input streams, dispatches what it finds to
the operator hooks, propagates end of stream in both directions and backs off exponentially when idle.

Operators are plain types implementing Operator, usually by embedding Base and overriding the hooks they care
about. A Runtime composes one Operator with the transport state (streams, end of stream bit vectors, back-off,
pages); operators never see the streams directly, they write through the Emitter handed to every hook.

End of stream is a two-phase protocol. An EOS travels forward once every input stream of an operator delivered
one; the sink then answers with an EOS travelling backward, and an operator stops once every output stream
delivered one.
*/
package operator

import (
	"context"

	"github.com/numaproj/segflow/pkg/record"
)

// Operator is the set of hooks invoked by the Runtime.
type Operator interface {
	// OutputSchema returns the schema of the tuples the operator emits.
	OutputSchema() *record.Schema
	// ProcessTuple is invoked for every tuple read from input stream port.
	ProcessTuple(ctx context.Context, port int, t *record.Tuple, out Emitter) error
	// ForwardControl is invoked for every control message other than EOS read from input stream port.
	ForwardControl(ctx context.Context, port int, c record.Element, out Emitter) error
	// BackwardControl is invoked for every control message other than EOS read from output stream port.
	BackwardControl(ctx context.Context, port int, c record.Element, out Emitter) error
	// HandleEOS is invoked once every input stream reached end of stream, before the EOS is propagated forward.
	HandleEOS(ctx context.Context, out Emitter) error
}

// Producer is implemented by operators that generate tuples instead of (or in addition to) reading them, i.e.
// sources. Produce is invoked once per scheduling round until it reports done, after which the runtime
// propagates an EOS forward.
type Producer interface {
	Produce(ctx context.Context, out Emitter) (done bool, err error)
}

// BackwardTupleHandler is implemented by operators that want the tuples flowing backward on their output streams.
// Without it such tuples are dropped.
type BackwardTupleHandler interface {
	ProcessBackwardTuple(ctx context.Context, port int, t *record.Tuple, out Emitter) error
}

// Emitter writes on the streams of the operator. It must only be used from within the hooks.
type Emitter interface {
	// Emit forwards a tuple to every output stream. The first output gets t, the others get a duplicate.
	Emit(ctx context.Context, t *record.Tuple) error
	// EmitControl forwards a control message to every output stream, after flushing pending pages.
	EmitControl(ctx context.Context, c record.Element) error
	// EmitBackward sends a control message backward on every input stream.
	EmitBackward(ctx context.Context, c record.Element) error
}

// Base implements the default behavior of every hook: tuples and control messages are passed through unchanged
// in the direction they travel, nothing happens at end of stream.
type Base struct {
	// Inputs are the schemas of the input streams, in port order.
	Inputs []*record.Schema
	// Output is the schema of the emitted tuples.
	Output *record.Schema
}

var _ Operator = (*Base)(nil)

// NewBase returns a Base whose output schema is the first input schema.
func NewBase(inputs ...*record.Schema) Base {
	b := Base{Inputs: inputs}
	if len(inputs) > 0 {
		b.Output = inputs[0]
	}
	return b
}

func (b *Base) OutputSchema() *record.Schema {
	return b.Output
}

func (b *Base) ProcessTuple(ctx context.Context, _ int, t *record.Tuple, out Emitter) error {
	return out.Emit(ctx, t)
}

func (b *Base) ForwardControl(ctx context.Context, _ int, c record.Element, out Emitter) error {
	return out.EmitControl(ctx, c)
}

func (b *Base) BackwardControl(ctx context.Context, _ int, c record.Element, out Emitter) error {
	return out.EmitBackward(ctx, c)
}

func (b *Base) HandleEOS(context.Context, Emitter) error {
	return nil
}
