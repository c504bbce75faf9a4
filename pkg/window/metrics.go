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

package window

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/segflow/pkg/metrics"
)

// segmentsClosed is used to indicate the number of Window punctuations emitted
var segmentsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "window",
	Name:      "segments_closed_total",
	Help:      "Total number of closed segments",
}, []string{metrics.LabelStrategy})

// tuplesDropped is used to indicate the number of tuples that joined no segment
var tuplesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "window",
	Name:      "tuples_dropped_total",
	Help:      "Total number of tuples dropped because they belong to no segment",
}, []string{metrics.LabelStrategy})

// segmentsSkipped is used to indicate the number of segment ids passed over without a Window punctuation
var segmentsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "window",
	Name:      "segments_skipped_total",
	Help:      "Total number of empty segments skipped by a jump of the progressing value",
}, []string{metrics.LabelStrategy})
