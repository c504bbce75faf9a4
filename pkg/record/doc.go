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

// Package record defines what flows through a stream: typed tuples conforming to a Schema, their per-tuple
// Metadata (segment membership and priority), the control messages that are interleaved with them (end of stream,
// punctuations, end of segment, priority changes) and pages, which batch several tuples into one transport unit.
//
// Tuples are immutable after construction. The only mutable part is the Metadata, which is why a tuple that is
// fanned out to several branches is duplicated with DuplicateForBranch.
package record
