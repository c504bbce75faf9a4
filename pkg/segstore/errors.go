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
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by TryGetSegmentReader while the segment is open, or may still be created.
	ErrNotReady = errors.New("segment not ready")
	// ErrDuplicateStore is returned when registering a name twice.
	ErrDuplicateStore = errors.New("store already registered")
)

// UnknownSegmentErr is returned when reading a key that is neither open nor closed, while no writer is left that
// could create it.
type UnknownSegmentErr struct {
	Store string
	Key   any
}

func (e UnknownSegmentErr) Error() string {
	return fmt.Sprintf("(%s) unknown segment %v", e.Store, e.Key)
}

// UnknownStoreErr is returned when looking up a name that was never registered.
type UnknownStoreErr struct {
	Name string
}

func (e UnknownStoreErr) Error() string {
	return fmt.Sprintf("unknown store %q", e.Name)
}

// InvalidKeyErr is returned for segment or entry keys that cannot be used as map keys.
type InvalidKeyErr struct {
	Store string
	Key   any
}

func (e InvalidKeyErr) Error() string {
	return fmt.Sprintf("(%s) key %v of type %T is not comparable", e.Store, e.Key, e.Key)
}

// UnknownWriterErr is returned when a writer that never registered signals end of stream.
type UnknownWriterErr struct {
	Store  string
	Writer string
}

func (e UnknownWriterErr) Error() string {
	return fmt.Sprintf("(%s) unknown writer %q", e.Store, e.Writer)
}
