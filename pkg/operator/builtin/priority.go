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

package builtin

import (
	"context"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
)

// Priority annotates tuples with a priority, restricting the segments downstream windows attach them to. A
// PriorityChange control message, travelling either way, replaces the priority and is not propagated.
type Priority struct {
	operator.Base
	current record.Priority
}

// NewPriority returns a priority annotator over tuples of schema.
func NewPriority(schema *record.Schema, p record.Priority) (*Priority, error) {
	if err := p.Validate(); err != nil {
		return nil, operator.ConfigurationErr{Operator: "priority", Message: err.Error()}
	}
	return &Priority{Base: operator.NewBase(schema), current: p}, nil
}

// Current returns the priority tuples are annotated with.
func (p *Priority) Current() record.Priority {
	return p.current
}

func (p *Priority) ProcessTuple(ctx context.Context, _ int, t *record.Tuple, out operator.Emitter) error {
	if err := t.Metadata().SetPriority(p.current); err != nil {
		return err
	}
	return out.Emit(ctx, t)
}

func (p *Priority) ForwardControl(ctx context.Context, _ int, c record.Element, out operator.Emitter) error {
	if change, ok := c.(*record.PriorityChange); ok {
		return p.change(change)
	}
	return out.EmitControl(ctx, c)
}

func (p *Priority) BackwardControl(ctx context.Context, _ int, c record.Element, out operator.Emitter) error {
	if change, ok := c.(*record.PriorityChange); ok {
		return p.change(change)
	}
	return out.EmitBackward(ctx, c)
}

func (p *Priority) change(c *record.PriorityChange) error {
	if err := c.Priority.Validate(); err != nil {
		return err
	}
	p.current = c.Priority
	return nil
}
