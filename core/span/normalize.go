package span

import (
	"sort"
	"strings"
)

// Normalize flattens a sequence of spans into simple document spans:
// ModifiedSpans are replaced by the original spans they reference, the
// result is sorted by start offset and touching or overlapping spans are
// merged. Zero-length spans are kept as empty markers and never merged
// away. Normalize is deterministic, side-effect-free and idempotent.
func Normalize(spans []AnySpan) ([]Span, error) {
	var flat []Span
	for _, s := range spans {
		switch v := s.(type) {
		case Span:
			if err := v.Validate(); err != nil {
				return nil, err
			}
			flat = append(flat, v)
		case ModifiedSpan:
			for _, rs := range v.ReplacedSpans {
				if err := rs.Validate(); err != nil {
					return nil, err
				}
				flat = append(flat, rs)
			}
		}
	}
	if len(flat) == 0 {
		return nil, nil
	}

	sort.SliceStable(flat, func(i, j int) bool {
		if flat[i].Start != flat[j].Start {
			return flat[i].Start < flat[j].Start
		}
		return flat[i].End < flat[j].End
	})

	merged := flat[:1]
	for _, s := range flat[1:] {
		prev := &merged[len(merged)-1]
		// empty markers are preserved, not absorbed
		if s.Start <= prev.End && s.Length() > 0 && prev.Length() > 0 {
			if s.End > prev.End {
				prev.End = s.End
			}
		} else {
			merged = append(merged, s)
		}
	}
	out := make([]Span, len(merged))
	copy(out, merged)
	return out, nil
}

// Bounds returns the smallest start and largest end offset covered by
// normalized spans. ok is false when the slice is empty.
func Bounds(spans []Span) (start, end int, ok bool) {
	if len(spans) == 0 {
		return 0, 0, false
	}
	start, end = spans[0].Start, spans[0].End
	for _, s := range spans[1:] {
		if s.Start < start {
			start = s.Start
		}
		if s.End > end {
			end = s.End
		}
	}
	return start, end, true
}

// MergeGaps removes small gaps between normalized spans. Gaps whose text,
// once stripped of surrounding whitespace, is at most maxGapLength
// characters long are absorbed by merging the spans on either side. Useful
// for turning discontinuous entity spans produced by cleanup or translation
// back into one contiguous span.
func MergeGaps(spans []Span, text string, maxGapLength int) []Span {
	if len(spans) == 0 {
		return nil
	}
	merged := []Span{spans[0]}
	for _, s := range spans[1:] {
		prev := &merged[len(merged)-1]
		gap := ""
		if prev.End <= s.Start && s.Start <= len(text) {
			gap = text[prev.End:s.Start]
		}
		if len(strings.TrimSpace(gap)) <= maxGapLength {
			prev.End = s.End
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}
