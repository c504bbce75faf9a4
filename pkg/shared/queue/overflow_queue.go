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

package queue

import "sync"

// OverflowQueue is a thread safe FIFO queue. When maxSize is positive the oldest elements automatically
// overflow, otherwise the queue is unbounded.
type OverflowQueue[T any] struct {
	elements []T
	maxSize  int
	lock     *sync.RWMutex
}

// New returns a queue holding at most size elements, size <= 0 means unbounded.
func New[T any](size int) *OverflowQueue[T] {
	return &OverflowQueue[T]{
		elements: []T{},
		maxSize:  size,
		lock:     new(sync.RWMutex),
	}
}

// Append adds an element to the tail of the queue. If the queue overflowed, the dropped head is returned.
func (q *OverflowQueue[T]) Append(value T) (T, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	var evicted T
	overflowed := false
	if q.maxSize > 0 && len(q.elements) >= q.maxSize {
		evicted = q.elements[0]
		overflowed = true
		q.elements = q.elements[1:]
	}
	q.elements = append(q.elements, value)
	return evicted, overflowed
}

// PopFront removes and returns the oldest element.
func (q *OverflowQueue[T]) PopFront() (T, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	var head T
	if len(q.elements) == 0 {
		return head, false
	}
	head = q.elements[0]
	// avoid holding a reference to the popped value in the backing array
	var zero T
	q.elements[0] = zero
	q.elements = q.elements[1:]
	return head, true
}

// Items returns a copy of the elements in the queue
func (q *OverflowQueue[T]) Items() []T {
	q.lock.RLock()
	defer q.lock.RUnlock()
	r := make([]T, len(q.elements))
	_ = copy(r, q.elements)
	return r
}

// Length returns the current length of the queue
func (q *OverflowQueue[T]) Length() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return len(q.elements)
}
