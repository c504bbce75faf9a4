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
	"fmt"
	"time"

	"go.uber.org/zap"
)

type options struct {
	// name labels the metrics and logs of the generator
	name string
	// pipeline labels the metrics of the generator
	pipeline string
	// limit is the number of tuples after which the generator is exhausted, unbounded when 0
	limit int64
	// batchSize is the number of tuples produced per scheduling round
	batchSize int
	// interval is the minimum time between two batches, no throttling when 0
	interval time.Duration
	// punctuateEvery is the number of tuples between two Interval punctuations, none when 0
	punctuateEvery int64
	// logger is used to log
	logger *zap.SugaredLogger
}

// Option to apply different options
type Option func(*options) error

// WithName sets the name used in metrics and logs
func WithName(name string) Option {
	return func(o *options) error {
		o.name = name
		return nil
	}
}

// WithPipelineName sets the pipeline name used in metrics
func WithPipelineName(name string) Option {
	return func(o *options) error {
		o.pipeline = name
		return nil
	}
}

// WithLimit stops the generator after n tuples
func WithLimit(n int64) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("limit must not be negative, got %d", n)
		}
		o.limit = n
		return nil
	}
}

// WithBatchSize sets the number of tuples produced per round
func WithBatchSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", n)
		}
		o.batchSize = n
		return nil
	}
}

// WithInterval sets the minimum time between two batches
func WithInterval(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("interval must not be negative, got %v", d)
		}
		o.interval = d
		return nil
	}
}

// WithIntervalPunctuation emits an Interval punctuation every n tuples, asserting the progressing value of the
// last tuple as watermark.
func WithIntervalPunctuation(n int64) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("punctuation period must be positive, got %d", n)
		}
		o.punctuateEvery = n
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}
