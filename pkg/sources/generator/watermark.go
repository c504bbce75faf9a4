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
	"context"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
)

// watermarker emits an Interval punctuation every period tuples. Tuples are expected in non-decreasing order of
// their progressing value, so the last value is a safe watermark.
type watermarker struct {
	period  int64
	seen    int64
	last    float64
	emitted float64
	started bool
}

func newWatermarker(period int64) *watermarker {
	return &watermarker{period: period}
}

// observe records t and reports whether a punctuation is due.
func (w *watermarker) observe(t *record.Tuple) (bool, error) {
	if w.period == 0 {
		return false, nil
	}
	v, err := t.ProgressingValue()
	if err != nil {
		return false, err
	}
	if !w.started {
		w.emitted = v
		w.started = true
	}
	w.last = v
	w.seen++
	return w.seen%w.period == 0, nil
}

func (w *watermarker) punctuate(ctx context.Context, out operator.Emitter) error {
	p := record.NewIntervalPunctuation(w.last, w.last-w.emitted)
	w.emitted = w.last
	return out.EmitControl(ctx, p)
}
