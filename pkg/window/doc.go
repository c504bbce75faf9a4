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

// Package window implements segmentation: assigning tuples to numbered, possibly overlapping segments (windows
// or frames) and announcing closed segments with Window punctuations.
//
// A Segmenter is the operator of the segment family. For every tuple it clears the segment membership the tuple
// carried from upstream, hands it to a pluggable Assigner and forwards it only if the tuple ended up a member of at
// least one segment. Segment ids always go through the priority filter of the tuple, so a tuple with priority
// (x, y) only joins segment id when id mod x == y.
//
// Segment ids grow monotonically from 0. The Tracker holds the id of the oldest segment still open; closing it
// emits a Window punctuation first and only then advances the id, so the punctuation for a segment always
// follows every tuple that belongs to it.
//
// EndOfSegment control messages are dropped by a Segmenter: closing its own segments invalidates them.
package window
