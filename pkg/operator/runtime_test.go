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

package operator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/operator/testutils"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/stream"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// eosCounter passes everything through and counts HandleEOS invocations.
type eosCounter struct {
	operator.Base
	calls *atomic.Int32
}

func (e *eosCounter) HandleEOS(context.Context, operator.Emitter) error {
	e.calls.Inc()
	return nil
}

// flaky refuses every tuple the first `refusals` times it sees it.
type flaky struct {
	operator.Base
	refusals int
	seen     map[int64]int
}

func (f *flaky) ProcessTuple(ctx context.Context, port int, t *record.Tuple, out operator.Emitter) error {
	v, _ := t.ValueOf("ts")
	ts := v.(int64)
	if f.seen[ts] < f.refusals {
		f.seen[ts]++
		return operator.ErrNotReady
	}
	return out.Emit(ctx, t)
}

type failing struct {
	operator.Base
}

func (f *failing) ProcessTuple(context.Context, int, *record.Tuple, operator.Emitter) error {
	return errors.New("boom")
}

type eosEmitter struct {
	operator.Base
}

func (e *eosEmitter) ProcessTuple(ctx context.Context, _ int, _ *record.Tuple, out operator.Emitter) error {
	return out.EmitControl(ctx, record.EOS{})
}

func TestRuntime_LinearChain(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sink := testutils.NewCollector(testutils.TestSchema)
	src := testutils.NewTupleSource(testutils.TestSchema, testutils.BuildTestTuples(0, 10)...)
	pass := operator.NewBase(testutils.TestSchema)
	_, err := testutils.RunChain(ctx, 4, []operator.Operator{src, &pass, sink})
	require.NoError(t, err)

	assert.True(t, sink.SawEOS())
	assert.Equal(t, []any{int64(0), int64(1), int64(2), int64(3), int64(4), int64(5), int64(6), int64(7), int64(8), int64(9)}, sink.Values("ts"))
}

func TestRuntime_EOSWaitsForAllInputs(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	calls := atomic.NewInt32(0)
	counter := &eosCounter{Base: operator.NewBase(testutils.TestSchema, testutils.TestSchema), calls: calls}
	sink := testutils.NewCollector(testutils.TestSchema)

	left, err := operator.New("left", testutils.NewTupleSource(testutils.TestSchema, testutils.BuildTestTuples(0, 3)...))
	require.NoError(t, err)
	right, err := operator.New("right", testutils.NewTupleSource(testutils.TestSchema, testutils.BuildTestTuples(100, 20)...))
	require.NoError(t, err)
	merge, err := operator.New("merge", counter)
	require.NoError(t, err)
	last, err := operator.New("sink", sink)
	require.NoError(t, err)

	l, r, out := stream.NewChannel("l", 2), stream.NewChannel("r", 2), stream.NewChannel("out", 2)
	require.NoError(t, left.AddOutput(l))
	require.NoError(t, right.AddOutput(r))
	require.NoError(t, merge.AddInput(l))
	require.NoError(t, merge.AddInput(r))
	require.NoError(t, merge.AddOutput(out))
	require.NoError(t, last.AddInput(out))

	require.NoError(t, testutils.RunAll(ctx, left, right, merge, last))
	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, sink.Tuples(), 23)
	assert.True(t, sink.SawEOS())
}

func TestRuntime_FanOutDuplicates(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	src, err := operator.New("src", testutils.NewTupleSource(testutils.TestSchema, testutils.BuildTestTuples(0, 5)...))
	require.NoError(t, err)
	a, b := testutils.NewCollector(testutils.TestSchema), testutils.NewCollector(testutils.TestSchema)
	ra, err := operator.New("a", a)
	require.NoError(t, err)
	rb, err := operator.New("b", b)
	require.NoError(t, err)
	cha, chb := stream.NewChannel("a", 8), stream.NewChannel("b", 8)
	require.NoError(t, src.AddOutput(cha))
	require.NoError(t, src.AddOutput(chb))
	require.NoError(t, ra.AddInput(cha))
	require.NoError(t, rb.AddInput(chb))
	require.NoError(t, testutils.RunAll(ctx, src, ra, rb))

	ta, tb := a.Tuples(), b.Tuples()
	require.Len(t, ta, 5)
	require.Len(t, tb, 5)
	for i := range ta {
		assert.NotSame(t, ta[i], tb[i])
		assert.Equal(t, ta[i].Values(), tb[i].Values())
		require.NoError(t, ta[i].Metadata().AddSegment(7))
		assert.False(t, tb[i].Metadata().HasSegment(7))
	}
}

func TestRuntime_FanOutIsolatedFromConsumers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	base := operator.NewBase(testutils.TestSchema)
	r, err := operator.New("fan", &base)
	require.NoError(t, err)
	first, second := stream.NewChannel("first", 1), stream.NewChannel("second", 4096)
	require.NoError(t, r.AddOutput(first))
	require.NoError(t, r.AddOutput(second))

	const n = 2000
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		for got := 0; got < n; {
			e, ok := first.Pull(stream.Forward)
			if !ok {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			_ = e.(*record.Tuple).Metadata().AddSegment(99)
			got++
		}
	}()
	for _, tuple := range testutils.BuildTestTuples(0, n) {
		require.NoError(t, r.Emit(ctx, tuple))
		// drain the second branch to keep the producer from blocking
		for second.Len(stream.Forward) > 0 {
			e, _ := second.Pull(stream.Forward)
			assert.False(t, e.(*record.Tuple).Metadata().HasSegment(99))
		}
	}
	<-consumed
	for second.Len(stream.Forward) > 0 {
		e, _ := second.Pull(stream.Forward)
		assert.False(t, e.(*record.Tuple).Metadata().HasSegment(99))
	}
}

func TestRuntime_PagesFlushBeforeControl(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tuples := testutils.BuildTestTuples(0, 5)
	elements := []record.Element{tuples[0], tuples[1], tuples[2], tuples[3], record.NewIntervalPunctuation(4, 1), tuples[4]}
	src, err := operator.New("src", testutils.NewSliceSource(testutils.TestSchema, elements...), operator.WithPageSize(3))
	require.NoError(t, err)
	out := stream.NewChannel("out", 16)
	require.NoError(t, src.AddOutput(out))
	stopped := src.Start(ctx)

	// page(3), page(1), punctuation, page(1), EOS
	assert.Eventually(t, func() bool { return out.Len(stream.Forward) == 5 }, 5*time.Second, time.Millisecond)
	require.NoError(t, out.Push(ctx, stream.Backward, record.EOS{}))
	<-stopped
	require.NoError(t, src.Err())

	var kinds []record.Kind
	var sizes []int
	for {
		e, ok := out.Pull(stream.Forward)
		if !ok {
			break
		}
		kinds = append(kinds, e.Kind())
		if p, ok := e.(*record.Page); ok {
			sizes = append(sizes, p.Len())
		}
	}
	assert.Equal(t, []record.Kind{record.KindPage, record.KindPage, record.KindPunctuation, record.KindPage, record.KindEOS}, kinds)
	assert.Equal(t, []int{3, 1, 1}, sizes)
}

func TestRuntime_NotReadyKeepsOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sink := testutils.NewCollector(testutils.TestSchema)
	src := testutils.NewTupleSource(testutils.TestSchema, testutils.BuildTestTuples(0, 6)...)
	mid := &flaky{Base: operator.NewBase(testutils.TestSchema), refusals: 2, seen: map[int64]int{}}
	_, err := testutils.RunChain(ctx, 2, []operator.Operator{src, mid, sink}, operator.WithBackoff(time.Microsecond, time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(0), int64(1), int64(2), int64(3), int64(4), int64(5)}, sink.Values("ts"))
}

func TestRuntime_HookErrorFailsOperator(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hooked := atomic.NewString("")
	runtimes, _, err := testutils.BuildChain(4, []operator.Operator{
		testutils.NewTupleSource(testutils.TestSchema, testutils.BuildTestTuples(0, 3)...),
		&failing{Base: operator.NewBase(testutils.TestSchema)},
		testutils.NewCollector(testutils.TestSchema),
	}, operator.WithShutdownHook(func(name string, err error) {
		if err != nil {
			hooked.Store(name)
		}
	}))
	require.NoError(t, err)

	err = testutils.RunAll(ctx, runtimes...)
	var re *operator.RuntimeErr
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "op-1", re.Operator)
	assert.Equal(t, "process", re.Phase)
	assert.EqualError(t, re.Err, "boom")
	assert.NotEmpty(t, hooked.Load())
}

func TestRuntime_HooksCannotEmitEOS(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	runtimes, _, err := testutils.BuildChain(4, []operator.Operator{
		testutils.NewTupleSource(testutils.TestSchema, testutils.BuildTestTuples(0, 1)...),
		&eosEmitter{Base: operator.NewBase(testutils.TestSchema)},
		testutils.NewCollector(testutils.TestSchema),
	})
	require.NoError(t, err)
	err = testutils.RunAll(ctx, runtimes...)
	var re *operator.RuntimeErr
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "op-1", re.Operator)
}

func TestRuntime_StopReleasesIdleOperator(t *testing.T) {
	in := stream.NewChannel("in", 4)
	r, err := operator.New("idle", testutils.NewCollector(testutils.TestSchema))
	require.NoError(t, err)
	require.NoError(t, r.AddInput(in))
	require.NoError(t, in.Push(context.Background(), stream.Backward, record.NewIntervalPunctuation(1, 1)))

	stopped := r.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	assert.False(t, r.IsShuttingDown())
	r.ForceStop()
	<-stopped
	assert.NoError(t, r.Err())
	assert.True(t, r.IsShuttingDown())
	assert.Equal(t, 0, in.Len(stream.Backward))
	assert.ErrorIs(t, r.AddInput(in), operator.ErrAlreadyStarted)
}

func TestRuntime_ContextCancelIsAnError(t *testing.T) {
	in := stream.NewChannel("in", 4)
	r, err := operator.New("idle", testutils.NewCollector(testutils.TestSchema))
	require.NoError(t, err)
	require.NoError(t, r.AddInput(in))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := r.Start(ctx)
	cancel()
	<-stopped
	var re *operator.RuntimeErr
	assert.True(t, errors.As(r.Err(), &re))
}

func TestNew_Validation(t *testing.T) {
	_, err := operator.New("nil", nil)
	assert.Error(t, err)
	_, err = operator.New("page", testutils.NewCollector(testutils.TestSchema), operator.WithPageSize(-1))
	var ce operator.ConfigurationErr
	assert.True(t, errors.As(err, &ce))
}
