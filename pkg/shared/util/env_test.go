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

package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookupEnvStringOr(t *testing.T) {
	assert.Equal(t, LookupEnvStringOr("fake_env", "hello"), "hello")
	assert.Equal(t, LookupEnvStringOr("HOME", "#")[0], "/"[0])
}

func TestLookupEnvIntOr(t *testing.T) {
	assert.Equal(t, 3, LookupEnvIntOr("fake_int_env", 3))
	t.Setenv("SEGFLOW_TEST_INT", "42")
	assert.Equal(t, 42, LookupEnvIntOr("SEGFLOW_TEST_INT", 3))
	t.Setenv("SEGFLOW_TEST_INT", "abc")
	assert.Panics(t, func() { LookupEnvIntOr("SEGFLOW_TEST_INT", 3) })
}

func TestLookupEnvBoolOr(t *testing.T) {
	assert.True(t, LookupEnvBoolOr("fake_bool_env", true))
	t.Setenv("SEGFLOW_TEST_BOOL", "false")
	assert.False(t, LookupEnvBoolOr("SEGFLOW_TEST_BOOL", true))
}

func TestLookupEnvDurationOr(t *testing.T) {
	assert.Equal(t, time.Second, LookupEnvDurationOr("fake_duration_env", time.Second))
	t.Setenv("SEGFLOW_TEST_DURATION", "250ms")
	assert.Equal(t, 250*time.Millisecond, LookupEnvDurationOr("SEGFLOW_TEST_DURATION", time.Second))
	t.Setenv("SEGFLOW_TEST_DURATION", "soon")
	assert.Panics(t, func() { LookupEnvDurationOr("SEGFLOW_TEST_DURATION", time.Second) })
}
