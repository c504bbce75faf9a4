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
)

// Type is the type of an attribute.
type Type int

const (
	Int Type = iota
	Float
	String
	Bool
	Time
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// ParseType parses the names returned by Type.String.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "int", "integer", "long":
		return Int, nil
	case "float", "double":
		return Float, nil
	case "string":
		return String, nil
	case "bool", "boolean":
		return Bool, nil
	case "time", "timestamp":
		return Time, nil
	default:
		return 0, fmt.Errorf("unknown attribute type %q", s)
	}
}

// Ordered returns whether values of the type are totally ordered and can be used as a progressing attribute.
func (t Type) Ordered() bool {
	return t == Int || t == Float || t == Time
}

// zero returns the zero value with the Go type a tuple stores for t.
func (t Type) zero() any {
	switch t {
	case Int:
		return int64(0)
	case Float:
		return float64(0)
	case String:
		return ""
	case Bool:
		return false
	case Time:
		return time.Time{}
	default:
		return nil
	}
}

// Attribute is a named, typed column of a schema.
type Attribute struct {
	Name string
	Type Type
}

// Schema is an ordered list of attributes, one of which is the progressing attribute.
type Schema struct {
	attributes  []Attribute
	index       map[string]int
	progressing int
}

// NewSchema returns a schema. progressing names the attribute used as the logical clock of the stream, it can
// be empty for schemas that are never windowed by value.
func NewSchema(attributes []Attribute, progressing string) (*Schema, error) {
	if len(attributes) == 0 {
		return nil, SchemaErr{Message: "no attributes"}
	}
	s := &Schema{
		attributes:  make([]Attribute, len(attributes)),
		index:       make(map[string]int, len(attributes)),
		progressing: -1,
	}
	copy(s.attributes, attributes)
	for i, a := range attributes {
		if a.Name == "" {
			return nil, SchemaErr{Message: fmt.Sprintf("attribute %d has no name", i)}
		}
		if _, ok := s.index[a.Name]; ok {
			return nil, SchemaErr{Message: fmt.Sprintf("duplicate attribute %q", a.Name)}
		}
		s.index[a.Name] = i
	}
	if progressing != "" {
		idx, ok := s.index[progressing]
		if !ok {
			return nil, SchemaErr{Message: fmt.Sprintf("unknown progressing attribute %q", progressing)}
		}
		if !attributes[idx].Type.Ordered() {
			return nil, SchemaErr{Message: fmt.Sprintf("progressing attribute %q of type %s is not ordered", progressing, attributes[idx].Type)}
		}
		s.progressing = idx
	}
	return s, nil
}

// MustNewSchema is like NewSchema but panics on error. Meant for tests and static schemas.
func MustNewSchema(attributes []Attribute, progressing string) *Schema {
	s, err := NewSchema(attributes, progressing)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of attributes.
func (s *Schema) Len() int {
	return len(s.attributes)
}

// Attributes returns a copy of the attributes.
func (s *Schema) Attributes() []Attribute {
	r := make([]Attribute, len(s.attributes))
	copy(r, s.attributes)
	return r
}

// Attribute returns the i-th attribute.
func (s *Schema) Attribute(i int) Attribute {
	return s.attributes[i]
}

// IndexOf returns the position of the named attribute.
func (s *Schema) IndexOf(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Progressing returns the index of the progressing attribute, -1 if there is none.
func (s *Schema) Progressing() int {
	return s.progressing
}

// HasProgressing returns whether the schema designates a progressing attribute.
func (s *Schema) HasProgressing() bool {
	return s.progressing >= 0
}

// Equal compares attribute names, types and the progressing attribute.
func (s *Schema) Equal(o *Schema) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || len(s.attributes) != len(o.attributes) || s.progressing != o.progressing {
		return false
	}
	for i := range s.attributes {
		if s.attributes[i] != o.attributes[i] {
			return false
		}
	}
	return true
}

// ZeroValues returns every attribute bound to the zero value of its type. It is used to type check expressions.
func (s *Schema) ZeroValues() map[string]any {
	m := make(map[string]any, len(s.attributes))
	for _, a := range s.attributes {
		m[a.Name] = a.Type.zero()
	}
	return m
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString("(")
	for i, a := range s.attributes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
		b.WriteString(" ")
		b.WriteString(a.Type.String())
		if i == s.progressing {
			b.WriteString(" progressing")
		}
	}
	b.WriteString(")")
	return b.String()
}
