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

package builtin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/operator/builtin"
	"github.com/numaproj/segflow/pkg/operator/testutils"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/shared/expr"
	"github.com/numaproj/segflow/pkg/stream"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var otherSchema = record.MustNewSchema([]record.Attribute{{Name: "v", Type: record.Float}}, "")

func TestNewCat(t *testing.T) {
	_, err := builtin.NewCat()
	assert.Error(t, err)
	_, err = builtin.NewCat(testutils.TestSchema, otherSchema)
	assert.ErrorAs(t, err, &operator.ConfigurationErr{})
	cat, err := builtin.NewCat(testutils.TestSchema, testutils.TestSchema)
	require.NoError(t, err)
	assert.Same(t, testutils.TestSchema, cat.OutputSchema())
}

func TestCat_MergesInputs(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cat, err := builtin.NewCat(testutils.TestSchema, testutils.TestSchema)
	require.NoError(t, err)
	sink := testutils.NewCollector(testutils.TestSchema)

	left, err := operator.New("left", testutils.NewTupleSource(testutils.TestSchema, testutils.BuildTestTuples(0, 5)...))
	require.NoError(t, err)
	right, err := operator.New("right", testutils.NewTupleSource(testutils.TestSchema, testutils.BuildTestTuples(100, 5)...))
	require.NoError(t, err)
	merge, err := operator.New("cat", cat)
	require.NoError(t, err)
	out, err := operator.New("sink", sink)
	require.NoError(t, err)

	for i, r := range []*operator.Runtime{left, right} {
		ch := stream.NewChannel([]string{"l", "r"}[i], 2)
		require.NoError(t, r.AddOutput(ch))
		require.NoError(t, merge.AddInput(ch))
	}
	ch := stream.NewChannel("out", 2)
	require.NoError(t, merge.AddOutput(ch))
	require.NoError(t, out.AddInput(ch))

	require.NoError(t, testutils.RunAll(ctx, left, right, merge, out))
	assert.True(t, sink.SawEOS())
	values := sink.Values("ts")
	assert.Len(t, values, 10)
	assert.Subset(t, values, []any{int64(0), int64(4), int64(100), int64(104)})
}

func TestFilter(t *testing.T) {
	_, err := builtin.NewFilter(testutils.TestSchema, expr.MustCompile("missing > 1"))
	assert.ErrorAs(t, err, &operator.ConfigurationErr{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	filter, err := builtin.NewFilter(testutils.TestSchema, expr.MustCompile("ts % 3 == 0"))
	require.NoError(t, err)
	sink := testutils.NewCollector(testutils.TestSchema)
	_, err = testutils.RunChain(ctx, 4, []operator.Operator{
		testutils.NewTupleSource(testutils.TestSchema, testutils.BuildTestTuples(0, 10)...),
		filter,
		sink,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(0), int64(3), int64(6), int64(9)}, sink.Values("ts"))
}

func TestPriority(t *testing.T) {
	ctx := context.Background()
	_, err := builtin.NewPriority(testutils.TestSchema, record.Priority{X: 2, Y: 2})
	assert.Error(t, err)

	p, err := builtin.NewPriority(testutils.TestSchema, record.Priority{X: 2, Y: 0})
	require.NoError(t, err)
	rec := &testutils.Recorder{}
	tuples := testutils.BuildTestTuples(0, 3)

	require.NoError(t, p.ProcessTuple(ctx, 0, tuples[0], rec))
	assert.Equal(t, record.Priority{X: 2, Y: 0}, tuples[0].Metadata().Priority())

	require.NoError(t, p.ForwardControl(ctx, 0, &record.PriorityChange{Priority: record.Priority{X: 3, Y: 1}}, rec))
	require.NoError(t, p.ProcessTuple(ctx, 0, tuples[1], rec))
	assert.Equal(t, record.Priority{X: 3, Y: 1}, tuples[1].Metadata().Priority())

	require.NoError(t, p.BackwardControl(ctx, 0, &record.PriorityChange{Priority: record.DefaultPriority}, rec))
	require.NoError(t, p.ProcessTuple(ctx, 0, tuples[2], rec))
	assert.Equal(t, record.DefaultPriority, tuples[2].Metadata().Priority())
	assert.Equal(t, record.DefaultPriority, p.Current())

	assert.Error(t, p.ForwardControl(ctx, 0, &record.PriorityChange{Priority: record.Priority{X: 0}}, rec))
	assert.Len(t, rec.Forward, 3)
	assert.Empty(t, rec.Backward)

	// other control messages pass through
	require.NoError(t, p.ForwardControl(ctx, 0, record.NewIntervalPunctuation(4, 1), rec))
	assert.Equal(t, []string{"t:0", "t:1", "t:2", "i:4"}, rec.Trace())
}

func TestSample(t *testing.T) {
	ctx := context.Background()
	_, err := builtin.NewBernoulli(1.5, 1)
	assert.Error(t, err)
	_, err = builtin.NewSample(testutils.TestSchema, nil)
	assert.Error(t, err)

	tests := []struct {
		name     string
		p        float64
		expected int
	}{
		{name: "none", p: 0, expected: 0},
		{name: "all", p: 1, expected: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := builtin.NewBernoulli(tt.p, 7)
			require.NoError(t, err)
			s, err := builtin.NewSample(testutils.TestSchema, b)
			require.NoError(t, err)
			rec := &testutils.Recorder{}
			for _, tuple := range testutils.BuildTestTuples(0, 100) {
				require.NoError(t, s.ProcessTuple(ctx, 0, tuple, rec))
			}
			assert.Len(t, rec.Tuples(), tt.expected)
		})
	}

	b, err := builtin.NewBernoulli(0.5, 7)
	require.NoError(t, err)
	s, err := builtin.NewSample(testutils.TestSchema, b)
	require.NoError(t, err)
	rec := &testutils.Recorder{}
	for _, tuple := range testutils.BuildTestTuples(0, 1000) {
		require.NoError(t, s.ProcessTuple(ctx, 0, tuple, rec))
	}
	assert.InDelta(t, 500, len(rec.Tuples()), 100)
}

func TestSample_KeyHash(t *testing.T) {
	ctx := context.Background()
	_, err := builtin.NewKeyHash(testutils.TestSchema, "missing", 1, 2)
	assert.Error(t, err)
	_, err = builtin.NewKeyHash(testutils.TestSchema, "key", 3, 2)
	assert.Error(t, err)

	all, err := builtin.NewKeyHash(testutils.TestSchema, "key", 4, 4)
	require.NoError(t, err)
	none, err := builtin.NewKeyHash(testutils.TestSchema, "key", 0, 4)
	require.NoError(t, err)
	half, err := builtin.NewKeyHash(testutils.TestSchema, "key", 1, 2)
	require.NoError(t, err)
	for _, tt := range []struct {
		strategy builtin.Strategy
		expected int
	}{{all, 10}, {none, 0}} {
		s, err := builtin.NewSample(testutils.TestSchema, tt.strategy)
		require.NoError(t, err)
		rec := &testutils.Recorder{}
		for _, tuple := range testutils.BuildTestTuples(0, 10) {
			require.NoError(t, s.ProcessTuple(ctx, 0, tuple, rec))
		}
		assert.Len(t, rec.Tuples(), tt.expected)
	}

	// every tuple of a key gets the same decision
	first := half.Keep(record.MustNewTuple(testutils.TestSchema, 1, "sensor-1"))
	for i := 2; i < 20; i++ {
		assert.Equal(t, first, half.Keep(record.MustNewTuple(testutils.TestSchema, i, "sensor-1")))
	}
}

func TestSample_StrategyFunc(t *testing.T) {
	ctx := context.Background()
	even := builtin.StrategyFunc(func(t *record.Tuple) bool {
		v, _ := t.ProgressingValue()
		return int64(v)%2 == 0
	})
	s, err := builtin.NewSample(testutils.TestSchema, even)
	require.NoError(t, err)
	rec := &testutils.Recorder{}
	for _, tuple := range testutils.BuildTestTuples(0, 4) {
		require.NoError(t, s.ProcessTuple(ctx, 0, tuple, rec))
	}
	assert.Equal(t, []string{"t:0", "t:2"}, rec.Trace())
}
