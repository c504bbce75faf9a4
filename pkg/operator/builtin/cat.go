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

// Package builtin provides the general purpose operators: cat, filter, priority and sample.
package builtin

import (
	"fmt"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
)

// Cat merges its input streams into one, tuples and control messages pass through unchanged.
type Cat struct {
	operator.Base
}

// NewCat returns a cat over inputs, which must share the same schema.
func NewCat(inputs ...*record.Schema) (*Cat, error) {
	if len(inputs) == 0 {
		return nil, operator.ConfigurationErr{Operator: "cat", Message: "at least one input is required"}
	}
	for i, s := range inputs[1:] {
		if !s.Equal(inputs[0]) {
			return nil, operator.ConfigurationErr{Operator: "cat", Message: fmt.Sprintf("input %d has schema %s, expected %s", i+1, s, inputs[0])}
		}
	}
	return &Cat{Base: operator.NewBase(inputs...)}, nil
}
