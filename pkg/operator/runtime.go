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

package operator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/numaproj/segflow/pkg/metrics"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/shared/logging"
	"github.com/numaproj/segflow/pkg/stream"
)

// socket is one side of an operator: its input streams or its output streams.
type socket int

const (
	inputSocket socket = iota
	outputSocket
)

// readDirection is the direction an operator reads on the streams of a socket.
func (s socket) readDirection() stream.Direction {
	if s == inputSocket {
		return stream.Forward
	}
	return stream.Backward
}

func (s socket) String() string {
	if s == inputSocket {
		return "input"
	}
	return "output"
}

// Runtime runs one Operator.
type Runtime struct {
	name     string
	op       Operator
	producer Producer

	wiring  sync.RWMutex
	inputs  []*stream.Channel
	outputs []*stream.Channel

	// eos marks, per socket, the streams that delivered end of stream
	eos [2][]bool
	// socketDone is set once every stream of a socket delivered end of stream and the synthetic EOS went out
	socketDone [2]bool
	// eosSent records the directions the runtime already pushed its synthetic EOS to
	eosSent [2]bool
	// parked holds, per socket and stream, the elements a hook was not ready for
	parked [2][][]record.Element

	producerDone bool
	pages        [][]*record.Tuple
	emitted      int64
	backoff      wait.Backoff

	started *atomic.Bool
	done    chan struct{}
	err     error
	opts    *options
	log     *zap.SugaredLogger
	Shutdown
}

var _ Emitter = (*Runtime)(nil)

// New returns a runtime for op. Streams are attached with AddInput and AddOutput before the runtime starts.
func New(name string, op Operator, opts ...Option) (*Runtime, error) {
	if op == nil {
		return nil, ConfigurationErr{Operator: name, Message: "nil operator"}
	}
	o := DefaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, ConfigurationErr{Operator: name, Message: err.Error()}
		}
	}
	r := &Runtime{
		name:    name,
		op:      op,
		started: atomic.NewBool(false),
		done:    make(chan struct{}),
		opts:    o,
		log:     o.logger.With("operator", name),
		Shutdown: Shutdown{
			rwlock: new(sync.RWMutex),
		},
	}
	if p, ok := op.(Producer); ok {
		r.producer = p
	}
	r.resetBackoff()
	return r, nil
}

// Name returns the operator name.
func (r *Runtime) Name() string {
	return r.name
}

// Operator returns the hooks run by this runtime.
func (r *Runtime) Operator() Operator {
	return r.op
}

// AddInput attaches a stream the operator reads forward and writes backward.
func (r *Runtime) AddInput(ch *stream.Channel) error {
	if r.started.Load() {
		return ErrAlreadyStarted
	}
	r.wiring.Lock()
	defer r.wiring.Unlock()
	r.inputs = append(r.inputs, ch)
	return nil
}

// AddOutput attaches a stream the operator writes forward and reads backward.
func (r *Runtime) AddOutput(ch *stream.Channel) error {
	if r.started.Load() {
		return ErrAlreadyStarted
	}
	r.wiring.Lock()
	defer r.wiring.Unlock()
	r.outputs = append(r.outputs, ch)
	return nil
}

// Inputs returns the attached input streams.
func (r *Runtime) Inputs() []*stream.Channel {
	r.wiring.RLock()
	defer r.wiring.RUnlock()
	return append([]*stream.Channel{}, r.inputs...)
}

// Outputs returns the attached output streams.
func (r *Runtime) Outputs() []*stream.Channel {
	r.wiring.RLock()
	defer r.wiring.RUnlock()
	return append([]*stream.Channel{}, r.outputs...)
}

// Start runs the operator in a new goroutine. The returned channel is closed once the loop exited, Err then
// returns the reason.
func (r *Runtime) Start(ctx context.Context) <-chan struct{} {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = r.Run(ctx)
	}()
	return stopped
}

// Err returns the error the loop terminated with, nil while running or after a clean termination.
func (r *Runtime) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Done is closed when the loop exited.
func (r *Runtime) Done() <-chan struct{} {
	return r.done
}

// Run executes the scheduling loop until the operator terminates, is stopped, or fails. A stopped operator
// returns nil, a failure is returned as a *RuntimeErr.
func (r *Runtime) Run(ctx context.Context) (err error) {
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer close(r.done)

	ctx, cancel := context.WithCancel(logging.WithLogger(ctx, r.log))
	defer cancel()
	r.Shutdown.rwlock.Lock()
	r.Shutdown.cancelFn = cancel
	stopping := r.Shutdown.startShutdown
	r.Shutdown.rwlock.Unlock()
	if stopping {
		cancel()
	}

	r.wiring.RLock()
	r.eos[inputSocket] = make([]bool, len(r.inputs))
	r.eos[outputSocket] = make([]bool, len(r.outputs))
	r.parked[inputSocket] = make([][]record.Element, len(r.inputs))
	r.parked[outputSocket] = make([][]record.Element, len(r.outputs))
	r.pages = make([][]*record.Tuple, len(r.outputs))
	r.wiring.RUnlock()

	defer func() {
		r.err = err
		if err != nil {
			runtimeErrors.With(r.labels()).Inc()
			r.log.Errorw("Operator failed", zap.Error(err))
		}
		for _, hook := range r.opts.shutdownHooks {
			hook(r.name, err)
		}
		if r.opts.drainDelay > 0 && !r.isForced() {
			time.Sleep(r.opts.drainDelay)
		}
	}()

	r.log.Infow("Starting operator", zap.Int("inputs", len(r.inputs)), zap.Int("outputs", len(r.outputs)), zap.Bool("sink", r.isSink()))
	for {
		if ctx.Err() != nil {
			return r.interrupted(ctx, "read")
		}
		found, err := r.round(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return r.interrupted(ctx, "write")
			}
			return err
		}
		if r.terminated() {
			if err := r.terminate(ctx); err != nil {
				if ctx.Err() != nil {
					return r.interrupted(ctx, "write")
				}
				return err
			}
			r.log.Info("Operator terminated")
			return nil
		}
		if found {
			r.resetBackoff()
			continue
		}
		d := r.backoff.Step()
		backoffSleeps.With(r.labels()).Observe(float64(d.Milliseconds()))
		if !sleep(ctx, d) {
			return r.interrupted(ctx, "backoff")
		}
	}
}

// interrupted turns a cancellation into nil when the operator was stopped, and into a runtime error otherwise.
func (r *Runtime) interrupted(ctx context.Context, phase string) error {
	if r.IsShuttingDown() {
		r.log.Info("Operator stopped")
		return nil
	}
	return &RuntimeErr{Operator: r.name, Phase: phase, Err: context.Cause(ctx)}
}

func (r *Runtime) resetBackoff() {
	r.backoff = wait.Backoff{
		Duration: r.opts.backoffInitial,
		Factor:   2,
		Steps:    math.MaxInt32,
		Cap:      r.opts.backoffCap,
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (r *Runtime) labels() map[string]string {
	return map[string]string{metrics.LabelPipeline: r.opts.pipelineName, metrics.LabelOperator: r.name}
}

func (r *Runtime) isSink() bool {
	return r.opts.sink || len(r.outputs) == 0
}

// round polls every output stream backward, then every input stream forward, then the producer. It returns
// whether anything was read or produced.
func (r *Runtime) round(ctx context.Context) (bool, error) {
	found := false
	for i, ch := range r.outputs {
		ok, err := r.poll(ctx, outputSocket, i, ch)
		if err != nil {
			return found, err
		}
		found = found || ok
	}
	for i, ch := range r.inputs {
		ok, err := r.poll(ctx, inputSocket, i, ch)
		if err != nil {
			return found, err
		}
		found = found || ok
	}
	if r.producer != nil && !r.producerDone && !r.socketDone[outputSocket] {
		before := r.emitted
		done, err := r.producer.Produce(ctx, r)
		switch {
		case errors.Is(err, ErrNotReady):
		case err != nil:
			return found, &RuntimeErr{Operator: r.name, Phase: "produce", Err: err}
		}
		found = found || r.emitted > before
		if done {
			r.producerDone = true
			found = true
			if len(r.inputs) == 0 {
				if err := r.sendEOS(ctx, stream.Forward); err != nil {
					return found, err
				}
			}
		}
	}
	if r.producer == nil && len(r.inputs) == 0 && !r.eosSent[stream.Forward] {
		if err := r.sendEOS(ctx, stream.Forward); err != nil {
			return found, err
		}
	}
	return found, nil
}

// poll handles the parked elements of a stream, and reads one new element once nothing is parked anymore.
func (r *Runtime) poll(ctx context.Context, s socket, i int, ch *stream.Channel) (bool, error) {
	found := false
	queue := r.parked[s][i]
	if len(queue) == 0 {
		e, ok := ch.Pull(s.readDirection())
		if !ok {
			return false, nil
		}
		found = true
		if page, ok := e.(*record.Page); ok {
			for _, t := range page.Tuples {
				queue = append(queue, t)
			}
		} else {
			queue = append(queue, e)
		}
	}
	for len(queue) > 0 {
		err := r.dispatch(ctx, s, i, queue[0])
		if errors.Is(err, ErrNotReady) {
			notReadyRetries.With(r.labels()).Inc()
			break
		}
		if err != nil {
			r.parked[s][i] = queue
			return found, err
		}
		queue[0] = nil
		queue = queue[1:]
		found = true
	}
	r.parked[s][i] = queue
	return found, nil
}

func (r *Runtime) dispatch(ctx context.Context, s socket, i int, e record.Element) error {
	var err error
	phase := "process"
	switch e.Kind() {
	case record.KindTuple:
		t := e.(*record.Tuple)
		if s == inputSocket {
			tuplesIn.With(r.labels()).Inc()
			err = r.op.ProcessTuple(ctx, i, t, r)
		} else if h, ok := r.op.(BackwardTupleHandler); ok {
			err = h.ProcessBackwardTuple(ctx, i, t, r)
		} else {
			r.log.Debugw("Dropping tuple flowing backward", zap.Int("port", i))
		}
	case record.KindEOS:
		controlsIn.With(r.controlLabels(e, s)).Inc()
		return r.handleEOS(ctx, s, i)
	default:
		controlsIn.With(r.controlLabels(e, s)).Inc()
		phase = "control"
		if s == inputSocket {
			err = r.op.ForwardControl(ctx, i, e, r)
		} else {
			err = r.op.BackwardControl(ctx, i, e, r)
		}
	}
	if err != nil && !errors.Is(err, ErrNotReady) {
		return r.wrap(phase, err)
	}
	return err
}

func (r *Runtime) controlLabels(e record.Element, s socket) map[string]string {
	l := r.labels()
	l[metrics.LabelKind] = e.Kind().String()
	l[metrics.LabelDirection] = s.readDirection().String()
	return l
}

// handleEOS marks stream i of socket s. Once the whole socket reached end of stream a single synthetic EOS is
// propagated: forward for the input socket, backward for the output socket. It is idempotent so that an EOS
// whose hook was not ready can be dispatched again.
func (r *Runtime) handleEOS(ctx context.Context, s socket, i int) error {
	r.eos[s][i] = true
	if r.socketDone[s] {
		return nil
	}
	for _, done := range r.eos[s] {
		if !done {
			return nil
		}
	}
	if s == inputSocket {
		if err := r.op.HandleEOS(ctx, r); err != nil {
			if errors.Is(err, ErrNotReady) {
				return err
			}
			return r.wrap("eos", err)
		}
		r.socketDone[s] = true
		r.log.Infow("All inputs reached end of stream")
		return r.sendEOS(ctx, stream.Forward)
	}
	r.socketDone[s] = true
	r.log.Infow("All outputs reached end of stream")
	return r.sendEOS(ctx, stream.Backward)
}

// sendEOS pushes the synthetic EOS in the given direction, at most once per direction.
func (r *Runtime) sendEOS(ctx context.Context, dir stream.Direction) error {
	if r.eosSent[dir] {
		return nil
	}
	r.eosSent[dir] = true
	if dir == stream.Forward {
		if err := r.flushPages(ctx); err != nil {
			return err
		}
		return r.pushAll(ctx, r.outputs, stream.Forward, record.EOS{})
	}
	return r.pushAll(ctx, r.inputs, stream.Backward, record.EOS{})
}

// terminated returns whether the loop can stop: all outputs reached end of stream, or, for a sink, all inputs.
func (r *Runtime) terminated() bool {
	if len(r.outputs) > 0 && r.socketDone[outputSocket] {
		return true
	}
	if r.isSink() && len(r.inputs) > 0 && r.socketDone[inputSocket] {
		return true
	}
	if len(r.inputs) == 0 && len(r.outputs) == 0 {
		return r.producer == nil || r.producerDone
	}
	return false
}

// terminate releases the neighbours: a sink answers the EOS it got with an EOS backward (and forward, in case
// it has outputs), then pending pages are flushed.
func (r *Runtime) terminate(ctx context.Context) error {
	if r.isSink() {
		if err := r.sendEOS(ctx, stream.Forward); err != nil {
			return err
		}
		if err := r.sendEOS(ctx, stream.Backward); err != nil {
			return err
		}
	}
	return r.flushPages(ctx)
}

func (r *Runtime) wrap(phase string, err error) error {
	var re *RuntimeErr
	if errors.As(err, &re) {
		return err
	}
	return &RuntimeErr{Operator: r.name, Phase: phase, Err: err}
}

func (r *Runtime) pushAll(ctx context.Context, chs []*stream.Channel, dir stream.Direction, e record.Element) error {
	for _, ch := range chs {
		if err := ch.Push(ctx, dir, e); err != nil {
			return r.wrap("write", err)
		}
	}
	return nil
}

// Emit implements Emitter.
func (r *Runtime) Emit(ctx context.Context, t *record.Tuple) error {
	r.emitted++
	// every branch copy is taken before t reaches a consumer, which may mutate its metadata
	outs := make([]*record.Tuple, len(r.outputs))
	for i := range r.outputs {
		if i == 0 {
			outs[i] = t
			continue
		}
		outs[i] = t.DuplicateForBranch()
	}
	for i, ch := range r.outputs {
		out := outs[i]
		tuplesOut.With(r.labels()).Inc()
		if r.opts.pageSize > 1 {
			r.pages[i] = append(r.pages[i], out)
			if len(r.pages[i]) >= r.opts.pageSize {
				if err := r.flushPage(ctx, i); err != nil {
					return err
				}
			}
			continue
		}
		if err := ch.Push(ctx, stream.Forward, out); err != nil {
			return r.wrap("write", err)
		}
	}
	return nil
}

// EmitControl implements Emitter.
func (r *Runtime) EmitControl(ctx context.Context, c record.Element) error {
	if err := checkControl(c); err != nil {
		return err
	}
	if err := r.flushPages(ctx); err != nil {
		return err
	}
	return r.pushAll(ctx, r.outputs, stream.Forward, c)
}

// EmitBackward implements Emitter.
func (r *Runtime) EmitBackward(ctx context.Context, c record.Element) error {
	if err := checkControl(c); err != nil {
		return err
	}
	return r.pushAll(ctx, r.inputs, stream.Backward, c)
}

func checkControl(c record.Element) error {
	if c == nil || !record.IsControl(c) {
		return fmt.Errorf("%v is not a control message", c)
	}
	if c.Kind() == record.KindEOS {
		return fmt.Errorf("end of stream is generated by the runtime only")
	}
	return nil
}

func (r *Runtime) flushPages(ctx context.Context) error {
	for i := range r.pages {
		if err := r.flushPage(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) flushPage(ctx context.Context, i int) error {
	if len(r.pages[i]) == 0 {
		return nil
	}
	page := &record.Page{Tuples: r.pages[i]}
	r.pages[i] = nil
	if err := r.outputs[i].Push(ctx, stream.Forward, page); err != nil {
		return r.wrap("write", err)
	}
	return nil
}
