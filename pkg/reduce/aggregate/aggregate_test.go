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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/segstore"
)

func TestAccumulators(t *testing.T) {
	tests := []struct {
		name    string
		values  []any
		want    any
		changed []bool
	}{
		{name: "sum", values: []any{int64(1), 2.5, int64(0)}, want: 3.5, changed: []bool{true, true, false}},
		{name: "count", values: []any{"a", "b"}, want: int64(2), changed: []bool{true, true}},
		{name: "min", values: []any{int64(5), int64(7), int64(3)}, want: float64(3), changed: []bool{true, false, true}},
		{name: "max", values: []any{int64(5), int64(7), int64(3)}, want: float64(7), changed: []bool{true, true, false}},
		{name: "avg", values: []any{int64(2), int64(2), int64(8)}, want: float64(4), changed: []bool{true, false, true}},
		{name: "median", values: []any{int64(9), int64(1), int64(4)}, want: float64(4), changed: []bool{true, true, true}},
		{name: "stddev", values: []any{int64(2), int64(4), int64(4), int64(4), int64(5), int64(5), int64(7), int64(9)}, want: float64(2),
			changed: []bool{true, true, true, true, true, true, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, err := ByName(tt.name)
			require.NoError(t, err)
			acc := factory()
			_, ok := acc.CurrentValue()
			assert.False(t, ok)
			for i, v := range tt.values {
				changed, err := acc.Update(v)
				require.NoError(t, err)
				assert.Equal(t, tt.changed[i], changed, "update %d", i)
			}
			got, ok := acc.CurrentValue()
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccumulators_RejectNonNumeric(t *testing.T) {
	for _, name := range []string{"sum", "min", "max", "avg", "median", "stddev"} {
		factory, err := ByName(name)
		require.NoError(t, err)
		_, err = factory().Update("x")
		assert.Error(t, err, name)
	}
	_, err := ByName("mode")
	assert.Error(t, err)
}

func TestUpdateAndResults(t *testing.T) {
	schema := record.MustNewSchema([]record.Attribute{
		{Name: "ts", Type: record.Int},
		{Name: "sensor", Type: record.String},
		{Name: "speed", Type: record.Float},
	}, "ts")
	store, err := segstore.NewStore("aggregate")
	require.NoError(t, err)
	update := Update("speed", func() Accumulator { return &Max{} })
	for i, row := range []struct {
		sensor string
		speed  float64
	}{{"a", 10}, {"b", 20}, {"a", 30}, {"b", 5}} {
		tuple := record.MustNewTuple(schema, i, row.sensor, row.speed)
		sensor, _ := tuple.ValueOf("sensor")
		require.NoError(t, store.Process(tuple, []any{int64(4)}, sensor, update))
	}
	require.NoError(t, store.CloseSegment(int64(4)))
	r, err := store.TryGetSegmentReader(int64(4))
	require.NoError(t, err)

	results, err := Results(int64(4), r)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []any{int64(4), "a", float64(30)}, results[0].Values())
	assert.Equal(t, []any{int64(4), "b", float64(20)}, results[1].Values())
	assert.Same(t, ResultSchema, results[0].Schema())

	_, err = Results("not-a-number", r)
	assert.Error(t, err)

	bad := Update("missing", func() Accumulator { return &Sum{} })
	assert.Error(t, store.Process(record.MustNewTuple(schema, 9, "a", 1.0), []any{int64(5)}, "a", bad))
}
