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

package generator

import (
	"github.com/numaproj/segflow/pkg/record"
)

// SequenceSchema is the schema of the tuples of a Sequence: a progressing counter, a key and a value.
var SequenceSchema = record.MustNewSchema([]record.Attribute{
	{Name: "ts", Type: record.Int},
	{Name: "key", Type: record.String},
	{Name: "value", Type: record.Float},
}, "ts")

// ValueFunc computes the value of the n-th tuple of a sequence.
type ValueFunc func(n int64) (float64, error)

// Sequence returns a GenerateFunc of SequenceSchema tuples: ts is n, keys are assigned round robin and the value
// is computed by value, or n itself when value is nil. The sequence is unbounded.
func Sequence(keys []string, value ValueFunc) GenerateFunc {
	if len(keys) == 0 {
		keys = []string{""}
	}
	return func(n int64) ([]any, bool, error) {
		v := float64(n)
		if value != nil {
			var err error
			if v, err = value(n); err != nil {
				return nil, false, err
			}
		}
		return []any{n, keys[n%int64(len(keys))], v}, true, nil
	}
}
