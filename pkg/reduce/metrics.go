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

package reduce

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/segflow/pkg/metrics"
)

// segmentsEmitted is used to indicate the number of finalized segments emitted by readers
var segmentsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "reduce_reader",
	Name:      "segments_emitted_total",
	Help:      "Total number of finalized segments emitted",
}, []string{metrics.LabelStore})

// readerNotReady is used to indicate how often a reader had to wait for a segment
var readerNotReady = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "reduce_reader",
	Name:      "not_ready_total",
	Help:      "Total number of reads of segments that were not closed yet",
}, []string{metrics.LabelStore})

// readerCacheHits is used to indicate the number of segment readers served from the cache
var readerCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "reduce_reader",
	Name:      "cache_hits_total",
	Help:      "Total number of segment readers served from the cache",
}, []string{metrics.LabelStore})

// tuplesWritten is used to indicate the number of tuples applied to a store by writers
var tuplesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "reduce_writer",
	Name:      "tuples_total",
	Help:      "Total number of tuples applied to the store",
}, []string{metrics.LabelStore})

// segmentsClosed is used to indicate the number of segment closes signalled by writers
var segmentsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "reduce_writer",
	Name:      "segment_closes_total",
	Help:      "Total number of segment closes signalled",
}, []string{metrics.LabelStore})
