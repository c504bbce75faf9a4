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
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/numaproj/segflow/pkg/shared/logging"
	"github.com/numaproj/segflow/pkg/shared/util"
)

const (
	// EnvPageSize sets the default page size of every runtime.
	EnvPageSize = "SEGFLOW_PAGE_SIZE"
	// EnvBackoffCap sets the default longest idle sleep, e.g. "50ms".
	EnvBackoffCap = "SEGFLOW_BACKOFF_CAP"

	DefaultBackoffInitial = time.Millisecond
	DefaultBackoffCap     = 128 * time.Millisecond
)

// options for running an operator
type options struct {
	// pageSize is the number of tuples batched per output stream, paging is disabled below 2
	pageSize int
	// backoffInitial is the first idle sleep, it doubles up to backoffCap
	backoffInitial time.Duration
	backoffCap     time.Duration
	// sink makes the operator stop once all inputs reached end of stream
	sink bool
	// drainDelay is waited after termination before the loop exits
	drainDelay time.Duration
	// shutdownHooks are notified when the loop terminates
	shutdownHooks []func(name string, err error)
	pipelineName  string
	// logger is used to pass the logger variable
	logger *zap.SugaredLogger
}

type Option func(*options) error

func DefaultOptions() *options {
	return &options{
		pageSize:       util.LookupEnvIntOr(EnvPageSize, 1),
		backoffInitial: DefaultBackoffInitial,
		backoffCap:     util.LookupEnvDurationOr(EnvBackoffCap, DefaultBackoffCap),
		logger:         logging.NewLogger(),
	}
}

// WithPageSize enables paging when size is at least 2
func WithPageSize(size int) Option {
	return func(o *options) error {
		if size < 0 {
			return fmt.Errorf("page size must not be negative, got %d", size)
		}
		o.pageSize = size
		return nil
	}
}

// WithBackoff sets the initial idle sleep and its cap
func WithBackoff(initial, limit time.Duration) Option {
	return func(o *options) error {
		if initial <= 0 || limit < initial {
			return fmt.Errorf("invalid back-off [%s, %s]", initial, limit)
		}
		o.backoffInitial = initial
		o.backoffCap = limit
		return nil
	}
}

// WithSink designates the operator as a sink
func WithSink() Option {
	return func(o *options) error {
		o.sink = true
		return nil
	}
}

// WithDrainDelay sets the time waited after termination
func WithDrainDelay(d time.Duration) Option {
	return func(o *options) error {
		o.drainDelay = d
		return nil
	}
}

// WithShutdownHook registers a function called when the loop terminates, err is nil on a clean termination
func WithShutdownHook(f func(name string, err error)) Option {
	return func(o *options) error {
		o.shutdownHooks = append(o.shutdownHooks, f)
		return nil
	}
}

// WithPipelineName sets the pipeline label of the metrics
func WithPipelineName(name string) Option {
	return func(o *options) error {
		o.pipelineName = name
		return nil
	}
}

// WithLogger is used to return logger information
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}
