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

package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/segflow/pkg/metrics"
)

// channelPushed is used to indicate the number of elements pushed on a channel
var channelPushed = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "stream",
	Name:      "push_total",
	Help:      "Total number of elements pushed",
}, []string{metrics.LabelStream, metrics.LabelDirection})

// channelPulled is used to indicate the number of elements pulled from a channel
var channelPulled = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "stream",
	Name:      "pull_total",
	Help:      "Total number of elements pulled",
}, []string{metrics.LabelStream, metrics.LabelDirection})

// channelFull is used to indicate how often a producer had to wait for room
var channelFull = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "stream",
	Name:      "full_total",
	Help:      "Total number of pushes that found the queue full",
}, []string{metrics.LabelStream, metrics.LabelDirection})

// channelCleared is used to indicate the number of elements dropped by Clear
var channelCleared = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "stream",
	Name:      "cleared_total",
	Help:      "Total number of elements dropped when clearing a channel",
}, []string{metrics.LabelStream, metrics.LabelDirection})
