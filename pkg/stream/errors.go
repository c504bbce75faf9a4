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

package stream

import "fmt"

// WriteErr when an element could not be pushed before the context ended.
type WriteErr struct {
	Name      string
	Direction Direction
	Full      bool
	Message   string
}

func (e WriteErr) Error() string {
	return fmt.Sprintf("(%s) %s push failed: %s", e.Name, e.Direction, e.Message)
}

// IsFull returns true if the queue was full when the push gave up.
func (e WriteErr) IsFull() bool {
	return e.Full
}
