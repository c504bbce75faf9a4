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

// Package blackhole implements a sink operator discarding everything it reads, like /dev/null.
package blackhole

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/numaproj/segflow/pkg/metrics"
	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/shared/logging"
)

// sinkWriteCount is the number of tuples discarded by a blackhole
var sinkWriteCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "blackhole_sink",
	Name:      "write_total",
	Help:      "Total number of tuples written to blackhole sink",
}, []string{metrics.LabelPipeline, metrics.LabelOperator})

// Blackhole is a sink to emulate /dev/null
type Blackhole struct {
	operator.Base
	name         string
	pipelineName string
	count        *atomic.Int64
	logger       *zap.SugaredLogger
}

// NewBlackhole returns a new Blackhole sink.
func NewBlackhole(ctx context.Context, name, pipelineName string, schema *record.Schema) *Blackhole {
	return &Blackhole{
		Base:         operator.NewBase(schema),
		name:         name,
		pipelineName: pipelineName,
		count:        atomic.NewInt64(0),
		logger:       logging.FromContext(ctx),
	}
}

// GetName returns the name.
func (b *Blackhole) GetName() string {
	return b.name
}

// Count returns the number of tuples discarded so far.
func (b *Blackhole) Count() int64 {
	return b.count.Load()
}

func (b *Blackhole) ProcessTuple(context.Context, int, *record.Tuple, operator.Emitter) error {
	b.count.Inc()
	sinkWriteCount.With(map[string]string{metrics.LabelOperator: b.name, metrics.LabelPipeline: b.pipelineName}).Inc()
	return nil
}

func (b *Blackhole) ForwardControl(context.Context, int, record.Element, operator.Emitter) error {
	return nil
}

func (b *Blackhole) HandleEOS(context.Context, operator.Emitter) error {
	b.logger.Debugw("Blackhole reached end of stream", "sink", b.name, "tuples", b.count.Load())
	return nil
}
