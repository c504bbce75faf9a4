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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(ctx)
	s, err := r.Register(ctx, "speeds", WithHistorySize(4))
	require.NoError(t, err)
	assert.Equal(t, "speeds", s.Name())
	_, err = r.Register(ctx, "counts")
	require.NoError(t, err)

	_, err = r.Register(ctx, "speeds")
	assert.True(t, errors.Is(err, ErrDuplicateStore))
	_, err = r.Register(ctx, "bad", WithHistorySize(0))
	assert.Error(t, err)

	found, err := r.Lookup("speeds")
	require.NoError(t, err)
	assert.Same(t, s, found)
	assert.Equal(t, []string{"counts", "speeds"}, r.Names())
	assert.Len(t, r.Stats(), 2)

	_, err = r.Lookup("missing")
	var use UnknownStoreErr
	assert.ErrorAs(t, err, &use)

	assert.True(t, r.Deregister("speeds"))
	assert.False(t, r.Deregister("speeds"))
	_, err = r.Lookup("speeds")
	assert.ErrorAs(t, err, &use)
}
