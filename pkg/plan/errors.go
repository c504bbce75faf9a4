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

package plan

import (
	"fmt"
)

// UnknownFactoryErr is returned when a vertex names a type no factory is registered for.
type UnknownFactoryErr struct {
	Type string
}

func (e UnknownFactoryErr) Error() string {
	return fmt.Sprintf("no factory registered for type %q", e.Type)
}

// SpecErr is returned when a pipeline spec is inconsistent.
type SpecErr struct {
	Vertex  string
	Message string
}

func (e SpecErr) Error() string {
	if e.Vertex == "" {
		return fmt.Sprintf("invalid pipeline: %s", e.Message)
	}
	return fmt.Sprintf("invalid vertex %q: %s", e.Vertex, e.Message)
}
