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
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Tuple is an ordered sequence of typed values conforming to a Schema, plus Metadata.
type Tuple struct {
	schema *Schema
	values []any
	meta   *Metadata
}

var _ Element = (*Tuple)(nil)

// NewTuple validates the values against the schema and returns a tuple. Integer values are stored as int64,
// float values as float64. Integers are accepted for float attributes, and unambiguous date strings are
// accepted for time attributes.
func NewTuple(schema *Schema, values ...any) (*Tuple, error) {
	if schema == nil {
		return nil, MalformedTupleErr{Schema: "<nil>", Message: "no schema"}
	}
	if len(values) != schema.Len() {
		return nil, MalformedTupleErr{Schema: schema.String(), Message: fmt.Sprintf("expected %d values, got %d", schema.Len(), len(values))}
	}
	normalized := make([]any, len(values))
	for i, v := range values {
		attr := schema.Attribute(i)
		n, ok := normalize(attr.Type, v)
		if !ok {
			return nil, MalformedTupleErr{Schema: schema.String(), Message: fmt.Sprintf("attribute %q expects %s, got %T", attr.Name, attr.Type, v)}
		}
		normalized[i] = n
	}
	return &Tuple{schema: schema, values: normalized, meta: NewMetadata()}, nil
}

// MustNewTuple is like NewTuple but panics on error.
func MustNewTuple(schema *Schema, values ...any) *Tuple {
	t, err := NewTuple(schema, values...)
	if err != nil {
		panic(err)
	}
	return t
}

func normalize(t Type, v any) (any, bool) {
	switch t {
	case Int:
		switch x := v.(type) {
		case int:
			return int64(x), true
		case int32:
			return int64(x), true
		case int64:
			return x, true
		case uint32:
			return int64(x), true
		}
	case Float:
		switch x := v.(type) {
		case float64:
			return x, true
		case float32:
			return float64(x), true
		case int:
			return float64(x), true
		case int64:
			return float64(x), true
		}
	case String:
		if x, ok := v.(string); ok {
			return x, true
		}
	case Bool:
		if x, ok := v.(bool); ok {
			return x, true
		}
	case Time:
		switch x := v.(type) {
		case time.Time:
			return x, true
		case string:
			if ts, err := dateparse.ParseStrict(x); err == nil {
				return ts, true
			}
		}
	}
	return nil, false
}

// Kind returns KindTuple.
func (t *Tuple) Kind() Kind {
	return KindTuple
}

// Schema returns the schema of the tuple.
func (t *Tuple) Schema() *Schema {
	return t.schema
}

// Len returns the number of values.
func (t *Tuple) Len() int {
	return len(t.values)
}

// Value returns the i-th value.
func (t *Tuple) Value(i int) any {
	return t.values[i]
}

// ValueOf returns the value of the named attribute.
func (t *Tuple) ValueOf(name string) (any, bool) {
	i, ok := t.schema.IndexOf(name)
	if !ok {
		return nil, false
	}
	return t.values[i], true
}

// Values returns a copy of the values.
func (t *Tuple) Values() []any {
	r := make([]any, len(t.values))
	copy(r, t.values)
	return r
}

// Metadata returns the mutable metadata of the tuple.
func (t *Tuple) Metadata() *Metadata {
	return t.meta
}

// ProgressingValue returns the progressing attribute as a float64, time values are converted to unix milliseconds.
func (t *Tuple) ProgressingValue() (float64, error) {
	idx := t.schema.Progressing()
	if idx < 0 {
		return 0, fmt.Errorf("schema %s has no progressing attribute", t.schema)
	}
	return ToFloat(t.values[idx])
}

// ToFloat converts a numeric or time value to a float64.
func ToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case time.Time:
		return float64(x.UnixMilli()), nil
	default:
		return 0, fmt.Errorf("value %v of type %T is not numeric", v, v)
	}
}

// AssignSegment attaches the tuple to segment id if its priority admits the id. It returns whether the segment
// was attached.
func (t *Tuple) AssignSegment(id int64) (bool, error) {
	if !t.meta.Priority().Admits(id) {
		return false, nil
	}
	if err := t.meta.AddSegment(id); err != nil {
		return false, err
	}
	return true, nil
}

// DuplicateForBranch returns a tuple sharing the (immutable) values with an independent copy of the metadata.
func (t *Tuple) DuplicateForBranch() *Tuple {
	return &Tuple{schema: t.schema, values: t.values, meta: t.meta.Clone()}
}

// AsMap returns the values keyed by attribute name.
func (t *Tuple) AsMap() map[string]any {
	m := make(map[string]any, len(t.values))
	for i, v := range t.values {
		m[t.schema.Attribute(i).Name] = v
	}
	return m
}

func (t *Tuple) String() string {
	var b strings.Builder
	b.WriteString("<")
	for i, v := range t.values {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", t.schema.Attribute(i).Name, v)
	}
	b.WriteString("> ")
	b.WriteString(t.meta.String())
	return b.String()
}
