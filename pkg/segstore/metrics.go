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

package segstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/segflow/pkg/metrics"
)

// openSegments is used to indicate the number of open segments
var openSegments = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "segstore",
	Name:      "open_segments",
	Help:      "Number of open segments",
}, []string{metrics.LabelStore})

// closedSegments is used to indicate the number of closed segments retained
var closedSegments = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "segstore",
	Name:      "closed_segments",
	Help:      "Number of closed segments retained in history",
}, []string{metrics.LabelStore})

// blockedReaders is used to indicate the number of readers waiting for a segment
var blockedReaders = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "segstore",
	Name:      "blocked_readers",
	Help:      "Number of readers blocked on a segment",
}, []string{metrics.LabelStore})

// entriesWritten is used to indicate the number of entry updates applied
var entriesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "segstore",
	Name:      "entries_written_total",
	Help:      "Total number of entry updates applied",
}, []string{metrics.LabelStore})

// evictions is used to indicate the number of closed segments evicted, reason is "history" or "out_of_order"
var evictions = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "segstore",
	Name:      "evictions_total",
	Help:      "Total number of history evictions",
}, []string{metrics.LabelStore, metrics.LabelReason})

// lateWrites is used to indicate the number of writes dropped because their segment was closed
var lateWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "segstore",
	Name:      "late_writes_total",
	Help:      "Total number of writes dropped because the segment was closed",
}, []string{metrics.LabelStore})
