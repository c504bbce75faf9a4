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

package expr

import (
	"fmt"
	"sync"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"

	"github.com/numaproj/segflow/pkg/record"
)

// Predicate is a boolean expression over the attributes of a tuple, e.g. `speed > 10 && key == "a"`.
// Programs are compiled once per schema and type checked against its attribute types.
type Predicate struct {
	expression string
	lock       sync.Mutex
	programs   map[*record.Schema]*vm.Program
}

// Compile parses expression. Attribute references are only resolved once the predicate meets a schema.
func Compile(expression string) (*Predicate, error) {
	if _, err := expr.Compile(expression); err != nil {
		return nil, fmt.Errorf("unable to compile expression '%s': %s", expression, err)
	}
	return &Predicate{expression: expression, programs: make(map[*record.Schema]*vm.Program)}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expression string) *Predicate {
	p, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Predicate) String() string {
	return p.expression
}

// IsApplicable returns whether the expression type checks as a boolean against schema.
func (p *Predicate) IsApplicable(schema *record.Schema) bool {
	_, err := p.program(schema)
	return err == nil
}

// Evaluate runs the expression against the values of t.
func (p *Predicate) Evaluate(t *record.Tuple) (bool, error) {
	program, err := p.program(t.Schema())
	if err != nil {
		return false, err
	}
	result, err := expr.Run(program, getFuncMap(t.AsMap()))
	if err != nil {
		return false, fmt.Errorf("unable to execute compiled program %v", err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("unable to cast expression result '%v' to bool", result)
	}
	return b, nil
}

func (p *Predicate) program(schema *record.Schema) (*vm.Program, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if program, ok := p.programs[schema]; ok {
		return program, nil
	}
	program, err := expr.Compile(p.expression, expr.Env(getFuncMap(schema.ZeroValues())), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("unable to compile expression '%s' for schema %s: %s", p.expression, schema, err)
	}
	p.programs[schema] = program
	return program, nil
}
