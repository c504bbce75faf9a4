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

package testutils

import (
	"fmt"

	"github.com/numaproj/segflow/pkg/record"
)

func trace(e record.Element) string {
	switch v := e.(type) {
	case *record.Tuple:
		p, err := v.ProgressingValue()
		if err != nil {
			return "t:?"
		}
		return fmt.Sprintf("t:%v", p)
	case *record.Punctuation:
		switch v.Type {
		case record.Window:
			return fmt.Sprintf("w:%d", v.SegmentID)
		case record.Interval:
			return fmt.Sprintf("i:%v", v.Watermark())
		default:
			return v.Type.String()
		}
	default:
		return e.Kind().String()
	}
}
