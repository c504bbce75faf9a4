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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = MustNewSchema([]Attribute{
	{Name: "ts", Type: Int},
	{Name: "key", Type: String},
	{Name: "speed", Type: Float},
}, "ts")

func TestNewSchema(t *testing.T) {
	tests := []struct {
		name        string
		attributes  []Attribute
		progressing string
		wantErr     bool
	}{
		{name: "valid", attributes: []Attribute{{Name: "a", Type: Int}, {Name: "b", Type: String}}, progressing: "a"},
		{name: "no progressing", attributes: []Attribute{{Name: "a", Type: Int}}},
		{name: "empty", wantErr: true},
		{name: "duplicate", attributes: []Attribute{{Name: "a", Type: Int}, {Name: "a", Type: String}}, wantErr: true},
		{name: "unnamed", attributes: []Attribute{{Type: Int}}, wantErr: true},
		{name: "unknown progressing", attributes: []Attribute{{Name: "a", Type: Int}}, progressing: "b", wantErr: true},
		{name: "unordered progressing", attributes: []Attribute{{Name: "a", Type: String}}, progressing: "a", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSchema(tt.attributes, tt.progressing)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.As(err, &SchemaErr{}))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, len(tt.attributes), s.Len())
		})
	}
}

func TestSchema_Lookup(t *testing.T) {
	idx, ok := testSchema.IndexOf("key")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = testSchema.IndexOf("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, testSchema.Progressing())
	assert.True(t, testSchema.HasProgressing())
	assert.Equal(t, "(ts int progressing, key string, speed float)", testSchema.String())

	other := MustNewSchema(testSchema.Attributes(), "ts")
	assert.True(t, testSchema.Equal(other))
	assert.False(t, testSchema.Equal(MustNewSchema(testSchema.Attributes(), "")))

	zero := testSchema.ZeroValues()
	assert.Equal(t, int64(0), zero["ts"])
	assert.Equal(t, "", zero["key"])
	assert.Equal(t, float64(0), zero["speed"])
}

func TestParseType(t *testing.T) {
	for _, ty := range []Type{Int, Float, String, Bool, Time} {
		parsed, err := ParseType(ty.String())
		assert.NoError(t, err)
		assert.Equal(t, ty, parsed)
	}
	_, err := ParseType("blob")
	assert.Error(t, err)
}

func TestNewTuple(t *testing.T) {
	tuple, err := NewTuple(testSchema, 10, "a", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(10), tuple.Value(0))
	assert.Equal(t, float64(3), tuple.Value(2))
	v, ok := tuple.ValueOf("key")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, map[string]any{"ts": int64(10), "key": "a", "speed": float64(3)}, tuple.AsMap())

	pv, err := tuple.ProgressingValue()
	assert.NoError(t, err)
	assert.Equal(t, float64(10), pv)

	_, err = NewTuple(testSchema, 10, "a")
	assert.True(t, errors.As(err, &MalformedTupleErr{}))
	_, err = NewTuple(testSchema, "10", "a", 1.0)
	assert.True(t, errors.As(err, &MalformedTupleErr{}))
	_, err = NewTuple(nil, 1)
	assert.Error(t, err)
}

func TestTuple_TimeProgressing(t *testing.T) {
	s := MustNewSchema([]Attribute{{Name: "at", Type: Time}}, "at")
	at := time.UnixMilli(1636470000000)
	tuple := MustNewTuple(s, at)
	pv, err := tuple.ProgressingValue()
	assert.NoError(t, err)
	assert.Equal(t, float64(1636470000000), pv)

	noProgressing := MustNewSchema([]Attribute{{Name: "at", Type: Time}}, "")
	_, err = MustNewTuple(noProgressing, at).ProgressingValue()
	assert.Error(t, err)
}

func TestTuple_TimeFromString(t *testing.T) {
	s := MustNewSchema([]Attribute{{Name: "at", Type: Time}}, "at")
	tuple, err := NewTuple(s, "2021-11-09T15:00:00Z")
	assert.NoError(t, err)
	pv, err := tuple.ProgressingValue()
	assert.NoError(t, err)
	assert.Equal(t, float64(1636470000000), pv)

	_, err = NewTuple(s, "not a date")
	assert.True(t, errors.As(err, &MalformedTupleErr{}))
}

func TestTuple_AssignSegment(t *testing.T) {
	tuple := MustNewTuple(testSchema, 1, "a", 1.0)
	ok, err := tuple.AssignSegment(3)
	assert.NoError(t, err)
	assert.True(t, ok)
	_, err = tuple.AssignSegment(3)
	assert.ErrorIs(t, err, ErrDuplicateSegment)

	t.Run("priority retains", func(t *testing.T) {
		tp := MustNewTuple(testSchema, 1, "a", 1.0)
		assert.NoError(t, tp.Metadata().SetPriority(Priority{X: 2, Y: 1}))
		ok, err := tp.AssignSegment(7)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []int64{7}, tp.Metadata().Segments())
	})

	t.Run("priority drops", func(t *testing.T) {
		tp := MustNewTuple(testSchema, 1, "a", 1.0)
		assert.NoError(t, tp.Metadata().SetPriority(Priority{X: 2, Y: 0}))
		ok, err := tp.AssignSegment(7)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, tp.Metadata().SegmentCount())
	})
}

func TestTuple_DuplicateForBranch(t *testing.T) {
	original := MustNewTuple(testSchema, 1, "a", 1.0)
	_, _ = original.AssignSegment(1)
	branch := original.DuplicateForBranch()
	_, _ = branch.AssignSegment(2)
	assert.NoError(t, branch.Metadata().SetPriority(Priority{X: 3, Y: 2}))

	assert.Equal(t, []int64{1}, original.Metadata().Segments())
	assert.Equal(t, []int64{1, 2}, branch.Metadata().Segments())
	assert.Equal(t, DefaultPriority, original.Metadata().Priority())
	assert.Equal(t, original.Values(), branch.Values())
}

func TestPriority(t *testing.T) {
	assert.NoError(t, DefaultPriority.Validate())
	assert.Error(t, Priority{X: 0, Y: 0}.Validate())
	assert.Error(t, Priority{X: 2, Y: 2}.Validate())
	assert.Error(t, Priority{X: 2, Y: -1}.Validate())
	assert.True(t, DefaultPriority.Admits(-5))
	assert.True(t, Priority{X: 3, Y: 1}.Admits(-2))
	assert.False(t, Priority{X: 3, Y: 1}.Admits(3))
}

func TestMetadata_ClearSegments(t *testing.T) {
	m := NewMetadata()
	assert.NoError(t, m.AddSegment(5))
	assert.NoError(t, m.AddSegment(1))
	assert.Equal(t, []int64{1, 5}, m.Segments())
	c := m.Clone()
	m.ClearSegments()
	assert.Equal(t, 0, m.SegmentCount())
	assert.True(t, c.HasSegment(5))
}
