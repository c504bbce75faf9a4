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

package aggregate

import (
	"fmt"

	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/segstore"
)

// ResultSchema is the schema of the tuples emitted by Results: the segment, the entry key and the aggregate.
var ResultSchema = record.MustNewSchema([]record.Attribute{
	{Name: "segment", Type: record.Int},
	{Name: "key", Type: record.String},
	{Name: "value", Type: record.Float},
}, "segment")

// Update returns a store update function keeping one accumulator per entry, fed with attribute attr.
func Update(attr string, factory Factory) segstore.UpdateFunc {
	return func(old any, exists bool, t *record.Tuple) (any, error) {
		var acc Accumulator
		if exists {
			acc = old.(Accumulator)
		} else {
			acc = factory()
		}
		v, ok := t.ValueOf(attr)
		if !ok {
			return nil, fmt.Errorf("tuple %s has no attribute %q", t, attr)
		}
		if _, err := acc.Update(v); err != nil {
			return nil, err
		}
		return acc, nil
	}
}

// Results emits one tuple of ResultSchema per entry of a segment whose accumulator holds a value. Segment keys
// must be numeric.
func Results(key any, r *segstore.SegmentReader) ([]*record.Tuple, error) {
	segment, err := record.ToFloat(key)
	if err != nil {
		return nil, fmt.Errorf("segment key %v is not numeric, %w", key, err)
	}
	var out []*record.Tuple
	var failed error
	r.Range(func(entryKey, value any) bool {
		acc, ok := value.(Accumulator)
		if !ok {
			failed = fmt.Errorf("entry %v of segment %v is a %T, not an accumulator", entryKey, key, value)
			return false
		}
		v, ok := acc.CurrentValue()
		if !ok {
			return true
		}
		f, err := record.ToFloat(v)
		if err != nil {
			failed = err
			return false
		}
		t, err := record.NewTuple(ResultSchema, int64(segment), fmt.Sprint(entryKey), f)
		if err != nil {
			failed = err
			return false
		}
		out = append(out, t)
		return true
	})
	return out, failed
}
