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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/segflow/pkg/metrics"
)

// tuplesIn is used to indicate the number of tuples handed to ProcessTuple
var tuplesIn = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "operator",
	Name:      "tuples_in_total",
	Help:      "Total number of tuples processed",
}, []string{metrics.LabelPipeline, metrics.LabelOperator})

// tuplesOut is used to indicate the number of tuples emitted
var tuplesOut = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "operator",
	Name:      "tuples_out_total",
	Help:      "Total number of tuples emitted",
}, []string{metrics.LabelPipeline, metrics.LabelOperator})

// controlsIn is used to indicate the number of control messages read, by kind and direction
var controlsIn = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "operator",
	Name:      "controls_in_total",
	Help:      "Total number of control messages read",
}, []string{metrics.LabelPipeline, metrics.LabelOperator, metrics.LabelKind, metrics.LabelDirection})

// backoffSleeps is used to indicate how long idle operators slept
var backoffSleeps = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Subsystem: "operator",
	Name:      "backoff_sleep_milliseconds",
	Help:      "Idle back-off sleeps (1 millisecond to ~1 second)",
	Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
}, []string{metrics.LabelPipeline, metrics.LabelOperator})

// notReadyRetries is used to indicate how often an element was parked because a hook was not ready
var notReadyRetries = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "operator",
	Name:      "not_ready_total",
	Help:      "Total number of elements a hook was not ready to handle",
}, []string{metrics.LabelPipeline, metrics.LabelOperator})

// runtimeErrors is used to indicate the number of fatal operator errors
var runtimeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "operator",
	Name:      "error_total",
	Help:      "Total number of fatal operator errors",
}, []string{metrics.LabelPipeline, metrics.LabelOperator})
