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

// Package reduce implements the operators sitting on both sides of a segmented store: the Writer applies tuples
// to per-segment state and closes segments on Window punctuations, the Reader emits the finalized state of a
// segment once it closed, or joins tuples with it.
//
// Writer and Reader never talk to each other, they meet in the store. The Reader never blocks its runtime: a
// segment that is not closed yet makes the hook return operator.ErrNotReady, and the runtime retries it.
package reduce

import (
	"github.com/numaproj/segflow/pkg/record"
)

// KeyFunc derives the segment keys a tuple is written to or read from.
type KeyFunc func(t *record.Tuple) []any

// PunctuationKeyFunc derives the segment keys a Window punctuation closes.
type PunctuationKeyFunc func(p *record.Punctuation) []any

// EntryKeyFunc derives the entry of a segment a tuple updates.
type EntryKeyFunc func(t *record.Tuple) any

// SegmentKeys uses the segment ids of the tuple as segment keys.
func SegmentKeys(t *record.Tuple) []any {
	ids := t.Metadata().Segments()
	keys := make([]any, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id)
	}
	return keys
}

// PunctuationSegmentKey uses the id of the closed segment as segment key.
func PunctuationSegmentKey(p *record.Punctuation) []any {
	return []any{p.SegmentID}
}

// WholeSegment puts every tuple of a segment in the same entry.
func WholeSegment(*record.Tuple) any {
	return ""
}

// AttributeKey uses the value of an attribute as entry key, e.g. to aggregate per sensor.
func AttributeKey(name string) EntryKeyFunc {
	return func(t *record.Tuple) any {
		v, _ := t.ValueOf(name)
		return v
	}
}

