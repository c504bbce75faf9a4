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
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/operator/testutils"
	"github.com/numaproj/segflow/pkg/record"
)

func TestNewGenerator(t *testing.T) {
	_, err := NewGenerator(SequenceSchema, nil)
	assert.ErrorAs(t, err, &operator.ConfigurationErr{})
	_, err = NewGenerator(SequenceSchema, Sequence(nil, nil), WithBatchSize(0))
	assert.Error(t, err)
	_, err = NewGenerator(SequenceSchema, Sequence(nil, nil), WithLimit(-1))
	assert.Error(t, err)
	unordered := record.MustNewSchema([]record.Attribute{{Name: "key", Type: record.String}}, "")
	_, err = NewGenerator(unordered, Sequence(nil, nil), WithIntervalPunctuation(2))
	assert.ErrorAs(t, err, &operator.ConfigurationErr{})

	g, err := NewGenerator(SequenceSchema, Sequence(nil, nil))
	require.NoError(t, err)
	assert.Same(t, SequenceSchema, g.OutputSchema())
}

func TestGenerator_Run(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g, err := NewGenerator(SequenceSchema, Sequence([]string{"a", "b"}, nil),
		WithLimit(10), WithIntervalPunctuation(4), WithBatchSize(3), WithName("gen-run"), WithPipelineName("test-pipeline"))
	require.NoError(t, err)
	sink := testutils.NewCollector(SequenceSchema)
	_, err = testutils.RunChain(ctx, 4, []operator.Operator{g, sink})
	require.NoError(t, err)

	assert.True(t, sink.SawEOS())
	assert.Equal(t, int64(10), g.Generated())
	assert.Equal(t, []any{"a", "b", "a", "b", "a", "b", "a", "b", "a", "b"}, sink.Values("key"))
	assert.Equal(t, []any{0.0, 1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0, 9.0}, sink.Values("value"))

	puncts := sink.Punctuations()
	require.Len(t, puncts, 2)
	assert.Equal(t, record.Interval, puncts[0].Type)
	assert.Equal(t, 3.0, puncts[0].Watermark())
	assert.Equal(t, 3.0, puncts[0].Step)
	assert.Equal(t, 7.0, puncts[1].Watermark())
	assert.Equal(t, 4.0, puncts[1].Step)

	assert.Equal(t, 10.0, testutil.ToFloat64(generatorReadCount.WithLabelValues("test-pipeline", "gen-run")))
	assert.Equal(t, 2.0, testutil.ToFloat64(generatorPunctuationCount.WithLabelValues("test-pipeline", "gen-run")))
}

func TestGenerator_Interval(t *testing.T) {
	ctx := context.Background()
	g, err := NewGenerator(SequenceSchema, Sequence(nil, nil), WithBatchSize(2), WithInterval(time.Hour))
	require.NoError(t, err)
	rec := &testutils.Recorder{}

	done, err := g.Produce(ctx, rec)
	require.NoError(t, err)
	assert.False(t, done)
	done, err = g.Produce(ctx, rec)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, []string{"t:0", "t:1"}, rec.Trace())
}

func TestGenerator_Exhausted(t *testing.T) {
	ctx := context.Background()
	g, err := NewGenerator(SequenceSchema, func(n int64) ([]any, bool, error) {
		if n == 2 {
			return nil, false, nil
		}
		return []any{n, "k", 1.0}, true, nil
	}, WithBatchSize(5))
	require.NoError(t, err)
	rec := &testutils.Recorder{}
	done, err := g.Produce(ctx, rec)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []string{"t:0", "t:1"}, rec.Trace())
}

func TestGenerator_Failures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	g, err := NewGenerator(SequenceSchema, Sequence(nil, func(int64) (float64, error) { return 0, boom }))
	require.NoError(t, err)
	_, err = g.Produce(ctx, &testutils.Recorder{})
	assert.ErrorIs(t, err, boom)

	g, err = NewGenerator(SequenceSchema, func(n int64) ([]any, bool, error) {
		return []any{"not a number"}, true, nil
	})
	require.NoError(t, err)
	_, err = g.Produce(ctx, &testutils.Recorder{})
	assert.ErrorAs(t, err, &record.MalformedTupleErr{})
}
