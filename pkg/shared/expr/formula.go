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

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"

	"github.com/numaproj/segflow/pkg/record"
)

// Formula is a numeric expression over named variables, e.g. `n % 7 * 1.5`.
type Formula struct {
	expression string
	program    *vm.Program
}

// CompileFormula compiles expression against the variables in vars, given with sample values of their types.
func CompileFormula(expression string, vars map[string]interface{}) (*Formula, error) {
	program, err := expr.Compile(expression, expr.Env(getFuncMap(vars)))
	if err != nil {
		return nil, fmt.Errorf("unable to compile expression '%s': %s", expression, err)
	}
	return &Formula{expression: expression, program: program}, nil
}

func (f *Formula) String() string {
	return f.expression
}

// Eval runs the formula against vars and converts the result to a float.
func (f *Formula) Eval(vars map[string]interface{}) (float64, error) {
	result, err := expr.Run(f.program, getFuncMap(vars))
	if err != nil {
		return 0, fmt.Errorf("unable to execute compiled program %v", err)
	}
	v, err := record.ToFloat(result)
	if err != nil {
		return 0, fmt.Errorf("unable to cast expression result '%v' to a number: %w", result, err)
	}
	return v, nil
}
