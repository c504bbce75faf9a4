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

import "fmt"

// Kind is the kind of an element travelling on a stream.
type Kind int

const (
	KindTuple Kind = iota
	KindPage
	KindEOS
	KindPunctuation
	KindEndOfSegment
	KindPriority
)

func (k Kind) String() string {
	switch k {
	case KindTuple:
		return "Tuple"
	case KindPage:
		return "Page"
	case KindEOS:
		return "EOS"
	case KindPunctuation:
		return "Punctuation"
	case KindEndOfSegment:
		return "EndOfSegment"
	case KindPriority:
		return "Priority"
	default:
		return "Unknown"
	}
}

// Element is anything that can be pushed on a stream.
type Element interface {
	Kind() Kind
}

// IsControl returns whether e is a control message, i.e. neither a tuple nor a page of tuples.
func IsControl(e Element) bool {
	k := e.Kind()
	return k != KindTuple && k != KindPage
}

// EOS signals that no further element will arrive in the direction it travels.
type EOS struct{}

// Kind returns KindEOS.
func (EOS) Kind() Kind { return KindEOS }

func (EOS) String() string { return "EOS" }

// PunctuationType distinguishes the reasons a punctuation is emitted.
type PunctuationType int

const (
	// Interval is a periodic watermark unrelated to windows.
	Interval PunctuationType = iota
	// Window announces that a window segment has just closed.
	Window
	// EndOfEntity marks the end of a bounded sub-stream, e.g. one parsed document.
	EndOfEntity
)

func (t PunctuationType) String() string {
	switch t {
	case Interval:
		return "Interval"
	case Window:
		return "Window"
	case EndOfEntity:
		return "EndOfEntity"
	default:
		return "Unknown"
	}
}

// Punctuation asserts that no further tuple will carry a progressing value below Watermark().
type Punctuation struct {
	Type         PunctuationType
	Start        float64
	Step         float64
	SegmentID    int64
	SegmentStart float64
	SegmentSize  float64
}

// NewIntervalPunctuation returns an Interval punctuation asserting that no tuple below boundary will follow.
func NewIntervalPunctuation(boundary, step float64) *Punctuation {
	return &Punctuation{
		Type:         Interval,
		Step:         step,
		SegmentID:    -1,
		SegmentStart: boundary - step,
		SegmentSize:  step,
	}
}

// NewWindowPunctuation returns the punctuation announcing that segment id, spanning [segmentStart,
// segmentStart+segmentSize), has closed.
func NewWindowPunctuation(start, step float64, id int64, segmentStart, segmentSize float64) *Punctuation {
	return &Punctuation{
		Type:         Window,
		Start:        start,
		Step:         step,
		SegmentID:    id,
		SegmentStart: segmentStart,
		SegmentSize:  segmentSize,
	}
}

// Kind returns KindPunctuation.
func (p *Punctuation) Kind() Kind { return KindPunctuation }

// SegmentEnd returns the last value covered by the segment.
func (p *Punctuation) SegmentEnd() float64 {
	return p.SegmentStart + p.SegmentSize - 1
}

// Watermark returns the boundary below which no further tuple will arrive.
func (p *Punctuation) Watermark() float64 {
	return p.SegmentStart + p.SegmentSize
}

func (p *Punctuation) String() string {
	return fmt.Sprintf("Punctuation(%s start:%v step:%v segment:%d [%v, %v])", p.Type, p.Start, p.Step, p.SegmentID, p.SegmentStart, p.SegmentEnd())
}

// EndOfSegment signals that a segment of the upstream segmentation has ended.
type EndOfSegment struct {
	SegmentID int64
}

// Kind returns KindEndOfSegment.
func (e *EndOfSegment) Kind() Kind { return KindEndOfSegment }

func (e *EndOfSegment) String() string {
	return fmt.Sprintf("EndOfSegment(%d)", e.SegmentID)
}

// PriorityChange asks priority annotators to switch to a new priority.
type PriorityChange struct {
	Priority Priority
}

// Kind returns KindPriority.
func (p *PriorityChange) Kind() Kind { return KindPriority }

func (p *PriorityChange) String() string {
	return fmt.Sprintf("PriorityChange%s", p.Priority)
}

// Page batches tuples into one transport unit.
type Page struct {
	Tuples []*Tuple
}

// Kind returns KindPage.
func (p *Page) Kind() Kind { return KindPage }

// Len returns the number of tuples in the page.
func (p *Page) Len() int {
	return len(p.Tuples)
}
