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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/segflow/pkg/metrics"
)

// generatorReadCount is the number of tuples produced by a generator
var generatorReadCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "generator_source",
	Name:      "read_total",
	Help:      "Total number of tuples generated",
}, []string{metrics.LabelPipeline, metrics.LabelOperator})

// generatorTickCount is the number of batches a generator has produced
var generatorTickCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "generator_source",
	Name:      "total",
	Help:      "Total number of times the generator source has ticked",
}, []string{metrics.LabelPipeline, metrics.LabelOperator})

// generatorPunctuationCount is the number of Interval punctuations emitted by a generator
var generatorPunctuationCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "generator_source",
	Name:      "punctuation_total",
	Help:      "Total number of Interval punctuations emitted",
}, []string{metrics.LabelPipeline, metrics.LabelOperator})
