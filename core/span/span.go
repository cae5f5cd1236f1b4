// Package span models references to character ranges in a document's text.
//
// A Span is one contiguous slice of the original text. A ModifiedSpan stands
// for text that is not present in the original document (inserted or
// replaced by an upstream cleanup step) while keeping track of the original
// slices it replaced. Together they let a segment's text diverge from the
// document text without losing the mapping back to document coordinates.
package span

import (
	"fmt"

	"github.com/stannote/stannote/core/dictconv"
	"github.com/stannote/stannote/core/errors"
)

// Discriminators used in dict serialization.
const (
	SpanClassName         = "Span"
	ModifiedSpanClassName = "ModifiedSpan"
)

// AnySpan is the closed variant type over Span and ModifiedSpan.
type AnySpan interface {
	dictconv.Convertible

	// Length returns the number of characters covered by the span in the
	// annotation's own text.
	Length() int

	// sealed keeps the variant set closed to this package.
	sealed()
}

// Span is a slice of text extracted from the original document text.
// Start is the index of the first character, End the index of the last
// character plus one. Start == End denotes an empty marker.
type Span struct {
	Start int
	End   int
}

func (s Span) sealed() {}

// Length returns the number of characters covered by the span.
func (s Span) Length() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans reference at least one character in
// common.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && s.End > other.Start
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Validate checks that the span denotes a well-formed range.
func (s Span) Validate() error {
	if s.Start > s.End {
		return errors.NewValidationf("span start %d is after end %d", s.Start, s.End)
	}
	if s.Start < 0 {
		return errors.NewValidationf("span start %d is negative", s.Start)
	}
	return nil
}

// ToDict serializes the span.
func (s Span) ToDict() (dictconv.Dict, error) {
	d := dictconv.Dict{"start": s.Start, "end": s.End}
	if err := dictconv.AddClassName(d, SpanClassName); err != nil {
		return nil, err
	}
	return d, nil
}

// SpanFromDict rebuilds a Span from a data dict produced by ToDict.
func SpanFromDict(d dictconv.Dict) (Span, error) {
	if err := dictconv.CheckClass(d, SpanClassName); err != nil {
		return Span{}, err
	}
	start, err := dictconv.Int(d, "start")
	if err != nil {
		return Span{}, err
	}
	end, err := dictconv.Int(d, "end")
	if err != nil {
		return Span{}, err
	}
	return Span{Start: start, End: end}, nil
}

// ModifiedSpan is a slice of the annotation's text that is not present in
// the original document text. It records only its own length plus the
// original spans it replaced, which may be empty (pure insertion),
// a single span or several discontinuous ones.
type ModifiedSpan struct {
	Len           int
	ReplacedSpans []Span
}

func (s ModifiedSpan) sealed() {}

// Length returns the number of characters covered by the span.
func (s ModifiedSpan) Length() int {
	return s.Len
}

func (s ModifiedSpan) String() string {
	return fmt.Sprintf("modified(%d<-%v)", s.Len, s.ReplacedSpans)
}

// Start returns the smallest start offset among the replaced spans.
func (s ModifiedSpan) Start() int {
	start := 0
	for i, rs := range s.ReplacedSpans {
		if i == 0 || rs.Start < start {
			start = rs.Start
		}
	}
	return start
}

// End returns the largest end offset among the replaced spans.
func (s ModifiedSpan) End() int {
	end := 0
	for _, rs := range s.ReplacedSpans {
		if rs.End > end {
			end = rs.End
		}
	}
	return end
}

// ToDict serializes the modified span.
func (s ModifiedSpan) ToDict() (dictconv.Dict, error) {
	replaced := make([]any, len(s.ReplacedSpans))
	for i, rs := range s.ReplacedSpans {
		d, err := rs.ToDict()
		if err != nil {
			return nil, err
		}
		replaced[i] = d
	}
	d := dictconv.Dict{"length": s.Len, "replaced_spans": replaced}
	if err := dictconv.AddClassName(d, ModifiedSpanClassName); err != nil {
		return nil, err
	}
	return d, nil
}

// ModifiedSpanFromDict rebuilds a ModifiedSpan from a data dict produced by
// ToDict.
func ModifiedSpanFromDict(d dictconv.Dict) (ModifiedSpan, error) {
	if err := dictconv.CheckClass(d, ModifiedSpanClassName); err != nil {
		return ModifiedSpan{}, err
	}
	length, err := dictconv.Int(d, "length")
	if err != nil {
		return ModifiedSpan{}, err
	}
	rawSpans, err := dictconv.List(d, "replaced_spans")
	if err != nil {
		return ModifiedSpan{}, err
	}
	replaced := make([]Span, len(rawSpans))
	for i, raw := range rawSpans {
		sd, err := dictconv.SubDict(raw)
		if err != nil {
			return ModifiedSpan{}, err
		}
		replaced[i], err = SpanFromDict(sd)
		if err != nil {
			return ModifiedSpan{}, err
		}
	}
	return ModifiedSpan{Len: length, ReplacedSpans: replaced}, nil
}

// FromDict rebuilds either span variant from a data dict by dispatching on
// its discriminator.
func FromDict(d dictconv.Dict) (AnySpan, error) {
	name, err := dictconv.ClassName(d)
	if err != nil {
		return nil, err
	}
	switch name {
	case SpanClassName:
		return SpanFromDict(d)
	case ModifiedSpanClassName:
		return ModifiedSpanFromDict(d)
	}
	return nil, errors.NewValidationf("unknown span class name %q", name)
}

func init() {
	dictconv.Register(SpanClassName, func(d dictconv.Dict) (any, error) {
		return SpanFromDict(d)
	})
	dictconv.Register(ModifiedSpanClassName, func(d dictconv.Dict) (any, error) {
		return ModifiedSpanFromDict(d)
	})
}
