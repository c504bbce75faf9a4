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
	"fmt"

	"github.com/google/uuid"
)

// DefaultCacheSize is the number of segment readers a Reader keeps.
const DefaultCacheSize = 128

type writerOptions struct {
	id          string
	keys        KeyFunc
	punctKeys   PunctuationKeyFunc
	entryKey    EntryKeyFunc
	passThrough bool
}

type WriterOption func(*writerOptions) error

func defaultWriterOptions() *writerOptions {
	return &writerOptions{
		id:        uuid.NewString(),
		keys:      SegmentKeys,
		punctKeys: PunctuationSegmentKey,
		entryKey:  WholeSegment,
	}
}

// WithWriterID sets the writer identity registered with the store, a random one is used by default.
func WithWriterID(id string) WriterOption {
	return func(o *writerOptions) error {
		if id == "" {
			return fmt.Errorf("empty writer id")
		}
		o.id = id
		return nil
	}
}

// WithKeyFunc sets how segment keys are derived from tuples, the segment ids of the tuple by default.
func WithKeyFunc(f KeyFunc) WriterOption {
	return func(o *writerOptions) error {
		o.keys = f
		return nil
	}
}

// WithPunctuationKeyFunc sets how the keys closed by a Window punctuation are derived.
func WithPunctuationKeyFunc(f PunctuationKeyFunc) WriterOption {
	return func(o *writerOptions) error {
		o.punctKeys = f
		return nil
	}
}

// WithEntryKeyFunc sets the entry a tuple updates, one entry per segment by default.
func WithEntryKeyFunc(f EntryKeyFunc) WriterOption {
	return func(o *writerOptions) error {
		o.entryKey = f
		return nil
	}
}

// WithPassThrough forwards the tuples after writing them.
func WithPassThrough() WriterOption {
	return func(o *writerOptions) error {
		o.passThrough = true
		return nil
	}
}

type readerOptions struct {
	punctKeys  PunctuationKeyFunc
	lookupKeys KeyFunc
	join       JoinFunc
	cacheSize  int
}

type ReaderOption func(*readerOptions) error

func defaultReaderOptions() *readerOptions {
	return &readerOptions{
		punctKeys: PunctuationSegmentKey,
		cacheSize: DefaultCacheSize,
	}
}

// WithReadKeyFunc sets how the keys emitted on a Window punctuation are derived.
func WithReadKeyFunc(f PunctuationKeyFunc) ReaderOption {
	return func(o *readerOptions) error {
		o.punctKeys = f
		return nil
	}
}

// WithLookup joins every tuple with the finalized segments its keys name.
func WithLookup(keys KeyFunc, join JoinFunc) ReaderOption {
	return func(o *readerOptions) error {
		if keys == nil || join == nil {
			return fmt.Errorf("lookup needs a key function and a join function")
		}
		o.lookupKeys = keys
		o.join = join
		return nil
	}
}

// WithCacheSize sets the number of segment readers kept.
func WithCacheSize(size int) ReaderOption {
	return func(o *readerOptions) error {
		if size <= 0 {
			return fmt.Errorf("cache size must be positive, got %d", size)
		}
		o.cacheSize = size
		return nil
	}
}
