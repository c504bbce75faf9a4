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

package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
)

func Test_MetricsServer_Handler(t *testing.T) {
	healthy := atomic.NewBool(true)
	ms := NewMetricsServer(WithPort(0), WithHealthChecker(HealthCheckerFunc(func(ctx context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("operator stuck")
	})))
	srv := httptest.NewServer(ms.Handler(context.Background()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/livez")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/readyz")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	healthy.Store(false)
	resp, err = http.Get(srv.URL + "/readyz")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func Test_MetricsServer_Options(t *testing.T) {
	ms := NewMetricsServer(WithPort(9000), WithPprof(true), nil)
	assert.Equal(t, 9000, ms.port)
	assert.True(t, ms.enablePprof)
	assert.Equal(t, DefaultPort, NewMetricsServer().port)
}
