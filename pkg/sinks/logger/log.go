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

// Package logger implements a sink operator writing every tuple to a zap logger.
package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/numaproj/segflow/pkg/metrics"
	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/shared/logging"
)

// ToLog prints the tuples it reads to a log.
type ToLog struct {
	operator.Base
	name         string
	pipelineName string
	controls     bool
	logger       *zap.SugaredLogger
}

type Option func(*ToLog) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToLog) error {
		t.logger = log
		return nil
	}
}

// WithControls also logs the control messages.
func WithControls() Option {
	return func(t *ToLog) error {
		t.controls = true
		return nil
	}
}

// WithPipelineName sets the pipeline name used in metrics.
func WithPipelineName(name string) Option {
	return func(t *ToLog) error {
		t.pipelineName = name
		return nil
	}
}

// NewToLog returns ToLog type.
func NewToLog(name string, schema *record.Schema, opts ...Option) (*ToLog, error) {
	toLog := &ToLog{Base: operator.NewBase(schema), name: name}
	for _, o := range opts {
		if err := o(toLog); err != nil {
			return nil, err
		}
	}
	if toLog.logger == nil {
		toLog.logger = logging.NewLogger()
	}
	toLog.logger = toLog.logger.With("sink", name)
	return toLog, nil
}

// GetName returns the name.
func (t *ToLog) GetName() string {
	return t.name
}

func (t *ToLog) ProcessTuple(_ context.Context, port int, tuple *record.Tuple, _ operator.Emitter) error {
	logSinkWriteCount.With(map[string]string{metrics.LabelOperator: t.name, metrics.LabelPipeline: t.pipelineName}).Inc()
	t.logger.Infow("Tuple", "port", port, "values", tuple.AsMap(), "segments", tuple.Metadata().Segments(), "priority", tuple.Metadata().Priority().String())
	return nil
}

func (t *ToLog) ForwardControl(_ context.Context, port int, c record.Element, _ operator.Emitter) error {
	if t.controls {
		t.logger.Infow("Control", "port", port, "kind", c.Kind().String(), "message", c)
	}
	return nil
}

func (t *ToLog) HandleEOS(context.Context, operator.Emitter) error {
	if t.controls {
		t.logger.Info("End of stream")
	}
	return nil
}
