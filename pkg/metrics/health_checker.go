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

import "context"

// HealthChecker is implemented by components that can report whether they are still making progress
type HealthChecker interface {
	// IsHealthy returns an error describing why the component is unhealthy
	IsHealthy(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to a HealthChecker
type HealthCheckerFunc func(ctx context.Context) error

// IsHealthy calls f(ctx).
func (f HealthCheckerFunc) IsHealthy(ctx context.Context) error {
	return f(ctx)
}
