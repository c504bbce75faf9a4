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
	"context"

	"go.uber.org/zap"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/shared/logging"
)

// Segmenter is the operator running an Assigner.
type Segmenter struct {
	operator.Base
	assigner Assigner
	log      *zap.SugaredLogger
}

var _ operator.Operator = (*Segmenter)(nil)

// NewSegmenter returns a segmenter over tuples of schema.
func NewSegmenter(schema *record.Schema, assigner Assigner) *Segmenter {
	return &Segmenter{
		Base:     operator.NewBase(schema),
		assigner: assigner,
		log:      logging.NewLogger().With("strategy", assigner.Strategy()),
	}
}

// Assigner returns the segmentation policy.
func (s *Segmenter) Assigner() Assigner {
	return s.assigner
}

func (s *Segmenter) ProcessTuple(ctx context.Context, _ int, t *record.Tuple, out operator.Emitter) error {
	t.Metadata().ClearSegments()
	if err := s.assigner.Assign(ctx, t, out); err != nil {
		return err
	}
	if t.Metadata().SegmentCount() > 0 {
		if err := out.Emit(ctx, t); err != nil {
			return err
		}
	} else {
		tuplesDropped.WithLabelValues(s.assigner.Strategy()).Inc()
		s.log.Debugw("Dropping tuple without segment", zap.Stringer("tuple", t))
	}
	return s.assigner.Tracker().Release(ctx, out)
}

func (s *Segmenter) ForwardControl(ctx context.Context, _ int, c record.Element, out operator.Emitter) error {
	if c.Kind() == record.KindEndOfSegment {
		return nil
	}
	consumed, err := s.assigner.Control(ctx, c, out)
	if err != nil || consumed {
		return err
	}
	return out.EmitControl(ctx, c)
}

func (s *Segmenter) HandleEOS(ctx context.Context, out operator.Emitter) error {
	if err := s.assigner.Flush(ctx, out); err != nil {
		return err
	}
	return s.assigner.Tracker().Release(ctx, out)
}
