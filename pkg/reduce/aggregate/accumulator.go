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

// Package aggregate provides the accumulators behind windowed aggregates and the glue to keep one accumulator per
// entry of a segmented store.
package aggregate

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/numaproj/segflow/pkg/record"
)

// Accumulator folds values into an aggregate.
type Accumulator interface {
	// Update folds v in and returns whether the current value changed.
	Update(v any) (changed bool, err error)
	// CurrentValue returns the aggregate, false while nothing was folded in.
	CurrentValue() (any, bool)
}

// Factory returns a new, empty accumulator.
type Factory func() Accumulator

// ByName returns the factory of the builtin accumulators: sum, count, min, max, avg, median and stddev.
func ByName(name string) (Factory, error) {
	switch strings.ToLower(name) {
	case "sum":
		return func() Accumulator { return &Sum{} }, nil
	case "count":
		return func() Accumulator { return &Count{} }, nil
	case "min":
		return func() Accumulator { return &Min{} }, nil
	case "max":
		return func() Accumulator { return &Max{} }, nil
	case "avg", "average":
		return func() Accumulator { return &Avg{} }, nil
	case "median":
		return func() Accumulator { return &Distribution{measure: stats.Median} }, nil
	case "stddev":
		return func() Accumulator { return &Distribution{measure: stats.StandardDeviation} }, nil
	default:
		return nil, fmt.Errorf("unknown aggregate %q", name)
	}
}

// Sum adds values up.
type Sum struct {
	sum float64
	n   int64
}

func (s *Sum) Update(v any) (bool, error) {
	f, err := record.ToFloat(v)
	if err != nil {
		return false, err
	}
	s.n++
	s.sum += f
	return f != 0 || s.n == 1, nil
}

func (s *Sum) CurrentValue() (any, bool) {
	return s.sum, s.n > 0
}

// Count counts values, of any type.
type Count struct {
	n int64
}

func (c *Count) Update(any) (bool, error) {
	c.n++
	return true, nil
}

func (c *Count) CurrentValue() (any, bool) {
	return c.n, c.n > 0
}

// Min keeps the smallest value.
type Min struct {
	min float64
	set bool
}

func (m *Min) Update(v any) (bool, error) {
	f, err := record.ToFloat(v)
	if err != nil {
		return false, err
	}
	if m.set && f >= m.min {
		return false, nil
	}
	m.min, m.set = f, true
	return true, nil
}

func (m *Min) CurrentValue() (any, bool) {
	return m.min, m.set
}

// Max keeps the largest value.
type Max struct {
	max float64
	set bool
}

func (m *Max) Update(v any) (bool, error) {
	f, err := record.ToFloat(v)
	if err != nil {
		return false, err
	}
	if m.set && f <= m.max {
		return false, nil
	}
	m.max, m.set = f, true
	return true, nil
}

func (m *Max) CurrentValue() (any, bool) {
	return m.max, m.set
}

// Avg keeps the arithmetic mean.
type Avg struct {
	sum float64
	n   int64
}

func (a *Avg) Update(v any) (bool, error) {
	f, err := record.ToFloat(v)
	if err != nil {
		return false, err
	}
	before := math.NaN()
	if a.n > 0 {
		before = a.sum / float64(a.n)
	}
	a.sum += f
	a.n++
	return a.sum/float64(a.n) != before, nil
}

func (a *Avg) CurrentValue() (any, bool) {
	if a.n == 0 {
		return nil, false
	}
	return a.sum / float64(a.n), true
}

// Distribution keeps every value and measures the whole sample on read.
type Distribution struct {
	data    stats.Float64Data
	measure func(stats.Float64Data) (float64, error)
}

func (d *Distribution) Update(v any) (bool, error) {
	f, err := record.ToFloat(v)
	if err != nil {
		return false, err
	}
	d.data = append(d.data, f)
	return true, nil
}

func (d *Distribution) CurrentValue() (any, bool) {
	if len(d.data) == 0 {
		return nil, false
	}
	v, err := d.measure(d.data)
	if err != nil {
		return nil, false
	}
	return v, true
}
