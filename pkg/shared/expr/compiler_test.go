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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/segflow/pkg/record"
)

var testSchema = record.MustNewSchema([]record.Attribute{
	{Name: "ts", Type: record.Int},
	{Name: "key", Type: record.String},
	{Name: "speed", Type: record.Float},
}, "ts")

func Test_compile_predicate(t *testing.T) {
	t.Run("test invalid expression", func(t *testing.T) {
		_, err := Compile(`speed >`)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unable to compile expression")
	})

	t.Run("test applicable to schema", func(t *testing.T) {
		p := MustCompile(`speed > 10 && key == "a"`)
		assert.True(t, p.IsApplicable(testSchema))
		assert.Equal(t, `speed > 10 && key == "a"`, p.String())
	})

	t.Run("test non boolean expression is not applicable", func(t *testing.T) {
		p := MustCompile(`speed + 1`)
		assert.False(t, p.IsApplicable(testSchema))
	})

	t.Run("test type mismatch is not applicable", func(t *testing.T) {
		p := MustCompile(`key > 10`)
		assert.False(t, p.IsApplicable(testSchema))
	})
}

func Test_evaluate_predicate(t *testing.T) {
	p := MustCompile(`speed > 10 && key == "a"`)
	tests := []struct {
		name  string
		key   string
		speed float64
		want  bool
	}{
		{name: "match", key: "a", speed: 11, want: true},
		{name: "slow", key: "a", speed: 10, want: false},
		{name: "other key", key: "b", speed: 20, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Evaluate(record.MustNewTuple(testSchema, 1, tt.key, tt.speed))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("test evaluation against an unfit schema", func(t *testing.T) {
		other := record.MustNewSchema([]record.Attribute{{Name: "v", Type: record.Int}}, "v")
		_, err := p.Evaluate(record.MustNewTuple(other, 1))
		assert.Error(t, err)
	})
}
