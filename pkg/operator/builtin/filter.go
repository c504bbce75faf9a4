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
	"fmt"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/window"
)

// Filter forwards the tuples satisfying a predicate.
type Filter struct {
	operator.Base
	predicate window.Predicate
}

// NewFilter returns a filter over tuples of schema. The predicate must be applicable to the schema.
func NewFilter(schema *record.Schema, predicate window.Predicate) (*Filter, error) {
	if predicate == nil || !predicate.IsApplicable(schema) {
		return nil, operator.ConfigurationErr{Operator: "filter", Message: fmt.Sprintf("predicate %v is not applicable to schema %s", predicate, schema)}
	}
	return &Filter{Base: operator.NewBase(schema), predicate: predicate}, nil
}

func (f *Filter) ProcessTuple(ctx context.Context, _ int, t *record.Tuple, out operator.Emitter) error {
	ok, err := f.predicate.Evaluate(t)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return out.Emit(ctx, t)
}
