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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverflowQueue(t *testing.T) {
	q := New[int](2)
	_, overflowed := q.Append(1)
	assert.False(t, overflowed)
	q.Append(2)
	evicted, overflowed := q.Append(3)
	assert.True(t, overflowed)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 2, q.Length())
	assert.Equal(t, []int{2, 3}, q.Items())
}

func TestUnboundedQueue(t *testing.T) {
	q := New[string](0)
	for _, s := range []string{"a", "b", "c", "d"} {
		_, overflowed := q.Append(s)
		assert.False(t, overflowed)
	}
	assert.Equal(t, 4, q.Length())

	head, ok := q.PopFront()
	assert.True(t, ok)
	assert.Equal(t, "a", head)
	head, ok = q.PopFront()
	assert.True(t, ok)
	assert.Equal(t, "b", head)
	assert.Equal(t, []string{"c", "d"}, q.Items())

	q.PopFront()
	q.PopFront()
	_, ok = q.PopFront()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Length())
}
