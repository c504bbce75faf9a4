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
	"sync"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
)

// TestSchema is the schema of the tuples built by BuildTestTuples: a progressing integer and a key.
var TestSchema = record.MustNewSchema([]record.Attribute{
	{Name: "ts", Type: record.Int},
	{Name: "key", Type: record.String},
}, "ts")

// BuildTestTuples builds count tuples of TestSchema with ts = start, start+1, ...
func BuildTestTuples(start, count int64) []*record.Tuple {
	tuples := make([]*record.Tuple, 0, count)
	for i := start; i < start+count; i++ {
		tuples = append(tuples, record.MustNewTuple(TestSchema, i, "key"))
	}
	return tuples
}

// BuildValueTuples builds one tuple of TestSchema per progressing value.
func BuildValueTuples(values ...int64) []*record.Tuple {
	tuples := make([]*record.Tuple, 0, len(values))
	for _, v := range values {
		tuples = append(tuples, record.MustNewTuple(TestSchema, v, "key"))
	}
	return tuples
}

// SliceSource is a source emitting a fixed list of elements, one per round. Elements can be tuples or control
// messages other than EOS.
type SliceSource struct {
	operator.Base
	elements []record.Element
	next     int
}

var _ operator.Producer = (*SliceSource)(nil)

// NewSliceSource returns a source emitting elements in order.
func NewSliceSource(schema *record.Schema, elements ...record.Element) *SliceSource {
	return &SliceSource{Base: operator.Base{Output: schema}, elements: elements}
}

// NewTupleSource returns a source emitting tuples in order.
func NewTupleSource(schema *record.Schema, tuples ...*record.Tuple) *SliceSource {
	elements := make([]record.Element, 0, len(tuples))
	for _, t := range tuples {
		elements = append(elements, t)
	}
	return NewSliceSource(schema, elements...)
}

func (s *SliceSource) Produce(ctx context.Context, out operator.Emitter) (bool, error) {
	if s.next >= len(s.elements) {
		return true, nil
	}
	e := s.elements[s.next]
	s.next++
	var err error
	if t, ok := e.(*record.Tuple); ok {
		err = out.Emit(ctx, t)
	} else {
		err = out.EmitControl(ctx, e)
	}
	return s.next >= len(s.elements), err
}

// Collector is a sink recording everything it reads. It is safe to inspect from another goroutine.
type Collector struct {
	operator.Base
	lock     sync.RWMutex
	tuples   []*record.Tuple
	controls []record.Element
	ports    []int
	eos      bool
}

// NewCollector returns a sink accepting tuples of the given schemas.
func NewCollector(inputs ...*record.Schema) *Collector {
	return &Collector{Base: operator.NewBase(inputs...)}
}

func (c *Collector) ProcessTuple(_ context.Context, port int, t *record.Tuple, _ operator.Emitter) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.tuples = append(c.tuples, t)
	c.ports = append(c.ports, port)
	return nil
}

func (c *Collector) ForwardControl(_ context.Context, _ int, e record.Element, _ operator.Emitter) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.controls = append(c.controls, e)
	return nil
}

func (c *Collector) HandleEOS(context.Context, operator.Emitter) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.eos = true
	return nil
}

// Tuples returns the tuples read so far.
func (c *Collector) Tuples() []*record.Tuple {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return append([]*record.Tuple{}, c.tuples...)
}

// Ports returns the input port of every tuple read so far.
func (c *Collector) Ports() []int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return append([]int{}, c.ports...)
}

// Controls returns the control messages read so far.
func (c *Collector) Controls() []record.Element {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return append([]record.Element{}, c.controls...)
}

// Punctuations returns the punctuations read so far.
func (c *Collector) Punctuations() []*record.Punctuation {
	c.lock.RLock()
	defer c.lock.RUnlock()
	var out []*record.Punctuation
	for _, e := range c.controls {
		if p, ok := e.(*record.Punctuation); ok {
			out = append(out, p)
		}
	}
	return out
}

// Values returns the value of attribute name of every tuple read so far.
func (c *Collector) Values(name string) []any {
	c.lock.RLock()
	defer c.lock.RUnlock()
	out := make([]any, 0, len(c.tuples))
	for _, t := range c.tuples {
		v, _ := t.ValueOf(name)
		out = append(out, v)
	}
	return out
}

// SawEOS returns whether every input reached end of stream.
func (c *Collector) SawEOS() bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.eos
}
