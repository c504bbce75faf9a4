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

package operator

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by a hook that cannot handle an element yet. The runtime keeps the element and
	// hands it to the hook again in a later round, before reading anything else from the same stream.
	ErrNotReady = errors.New("not ready")
	// ErrAlreadyStarted is returned when streams are attached to, or Run is called on, a started runtime.
	ErrAlreadyStarted = errors.New("operator already started")
)

// ConfigurationErr is returned when an operator is constructed with a schema, predicate or function that does
// not fit. It is detected eagerly and never retried.
type ConfigurationErr struct {
	Operator string
	Message  string
}

func (e ConfigurationErr) Error() string {
	return fmt.Sprintf("(%s) invalid configuration: %s", e.Operator, e.Message)
}

// RuntimeErr is a fatal failure inside the scheduling loop of an operator.
type RuntimeErr struct {
	Operator string
	// Phase is what the loop was doing, e.g. "process", "read", "write", "backoff".
	Phase string
	Err   error
}

func (e *RuntimeErr) Error() string {
	return fmt.Sprintf("(%s) %s failed: %v", e.Operator, e.Phase, e.Err)
}

func (e *RuntimeErr) Unwrap() error {
	return e.Err
}
