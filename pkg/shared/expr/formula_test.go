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

package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_formula(t *testing.T) {
	vars := map[string]interface{}{"n": int64(0)}
	_, err := CompileFormula("n +", vars)
	assert.Error(t, err)
	_, err = CompileFormula("m * 2", vars)
	assert.Error(t, err)

	f, err := CompileFormula("n % 7 * 1.5", vars)
	require.NoError(t, err)
	assert.Equal(t, "n % 7 * 1.5", f.String())
	v, err := f.Eval(map[string]interface{}{"n": int64(9)})
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	f, err = CompileFormula("n", vars)
	require.NoError(t, err)
	v, err = f.Eval(map[string]interface{}{"n": int64(4)})
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	f, err = CompileFormula(`"x"`, vars)
	require.NoError(t, err)
	_, err = f.Eval(map[string]interface{}{"n": int64(4)})
	assert.Error(t, err)
}
