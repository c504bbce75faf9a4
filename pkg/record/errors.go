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

package record

import (
	"errors"
	"fmt"
)

// ErrDuplicateSegment is returned when a segment id is added twice to the same Metadata.
var ErrDuplicateSegment = errors.New("duplicate segment id")

// MalformedTupleErr is returned when the values of a tuple do not conform to its schema.
type MalformedTupleErr struct {
	Schema  string
	Message string
}

func (e MalformedTupleErr) Error() string {
	return fmt.Sprintf("malformed tuple for schema %s: %s", e.Schema, e.Message)
}

// SchemaErr is returned when a schema definition is invalid.
type SchemaErr struct {
	Message string
}

func (e SchemaErr) Error() string {
	return fmt.Sprintf("invalid schema: %s", e.Message)
}
