package span

import (
	"strings"

	"github.com/stannote/stannote/core/errors"
)

// Range is a half-open [Start, End) character range in an annotation's text,
// used to address the parts affected by a span operation.
type Range struct {
	Start int
	End   int
}

// The operations below rewrite a (text, spans) pair while keeping the spans
// aligned with the document coordinate system. They are the tools pipeline
// operations use to derive new segments from existing ones without losing
// the mapping back to the original document text.

// Replace substitutes parts of a text and updates its associated spans
// accordingly. Ranges must be sorted ascending and replacements must have
// the same length as ranges.
func Replace(text string, spans []AnySpan, ranges []Range, replacements []string) (string, []AnySpan, error) {
	if err := checkSpansMatchText(text, spans); err != nil {
		return "", nil, err
	}
	if len(ranges) != len(replacements) {
		return "", nil, errors.NewValidation("ranges and replacements must have the same length")
	}
	if err := checkRanges(text, ranges); err != nil {
		return "", nil, err
	}
	if len(ranges) == 0 {
		return text, spans, nil
	}

	var b strings.Builder
	replacementLengths := make([]int, len(ranges))
	prevEnd := 0
	for i, r := range ranges {
		b.WriteString(text[prevEnd:r.Start])
		b.WriteString(replacements[i])
		replacementLengths[i] = len(replacements[i])
		prevEnd = r.End
	}
	b.WriteString(text[prevEnd:])

	return b.String(), replaceInSpans(spans, ranges, replacementLengths), nil
}

// Remove deletes parts of a text and updates its associated spans
// accordingly. Ranges must be sorted ascending.
func Remove(text string, spans []AnySpan, ranges []Range) (string, []AnySpan, error) {
	replacements := make([]string, len(ranges))
	return Replace(text, spans, ranges, replacements)
}

// Extract keeps only the given parts of a text, concatenated, with spans
// updated accordingly. Ranges must be sorted ascending.
func Extract(text string, spans []AnySpan, ranges []Range) (string, []AnySpan, error) {
	if err := checkSpansMatchText(text, spans); err != nil {
		return "", nil, err
	}
	if err := checkRanges(text, ranges); err != nil {
		return "", nil, err
	}
	if len(ranges) == 0 {
		return "", nil, nil
	}

	var b strings.Builder
	for _, r := range ranges {
		b.WriteString(text[r.Start:r.End])
	}
	return b.String(), extractInSpans(spans, ranges), nil
}

// Insert adds strings into a text at the given positions and updates its
// associated spans accordingly. Positions must be sorted ascending and
// insertions must have the same length as positions. The inserted parts
// become ModifiedSpans replacing nothing.
func Insert(text string, spans []AnySpan, positions []int, insertions []string) (string, []AnySpan, error) {
	if err := checkSpansMatchText(text, spans); err != nil {
		return "", nil, err
	}
	if len(positions) != len(insertions) {
		return "", nil, errors.NewValidation("positions and insertions must have the same length")
	}
	for i, p := range positions {
		if p < 0 || p > len(text) {
			return "", nil, errors.NewValidationf("insertion position %d outside of text", p)
		}
		if i > 0 && p < positions[i-1] {
			return "", nil, errors.NewValidation("insertion positions must be sorted")
		}
	}
	if len(positions) == 0 {
		return text, spans, nil
	}

	var b strings.Builder
	ranges := make([]Range, len(positions))
	insertionLengths := make([]int, len(positions))
	prevEnd := 0
	for i, p := range positions {
		b.WriteString(text[prevEnd:p])
		b.WriteString(insertions[i])
		// zero-length range: nothing is replaced by the insertion
		ranges[i] = Range{Start: p, End: p}
		insertionLengths[i] = len(insertions[i])
		prevEnd = p
	}
	b.WriteString(text[prevEnd:])

	return b.String(), replaceInSpans(spans, ranges, insertionLengths), nil
}

// Move displaces one part of a text to another position, moving its
// associated spans along. The destination position refers to the original
// text and must not fall inside the moved range.
func Move(text string, spans []AnySpan, rng Range, destination int) (string, []AnySpan, error) {
	if err := checkSpansMatchText(text, spans); err != nil {
		return "", nil, err
	}
	if err := checkRanges(text, []Range{rng}); err != nil {
		return "", nil, err
	}
	if rng.Start < destination && destination <= rng.End {
		return "", nil, errors.NewValidationf("move destination %d inside moved range [%d,%d)", destination, rng.Start, rng.End)
	}
	if destination < 0 || destination > len(text) {
		return "", nil, errors.NewValidationf("move destination %d outside of text", destination)
	}

	newSpans := moveInSpans(spans, rng, destination)

	moved := text[rng.Start:rng.End]
	remainder := text[:rng.Start] + text[rng.End:]
	if destination > rng.End {
		destination -= rng.End - rng.Start
	}
	newText := remainder[:destination] + moved + remainder[destination:]
	return newText, newSpans, nil
}

// Concatenate joins several (text, spans) pairs into one.
func Concatenate(texts []string, allSpans [][]AnySpan) (string, []AnySpan, error) {
	if len(texts) != len(allSpans) {
		return "", nil, errors.NewValidation("texts and allSpans must have the same length")
	}
	var b strings.Builder
	var spans []AnySpan
	for i, t := range texts {
		b.WriteString(t)
		spans = append(spans, allSpans[i]...)
	}
	return b.String(), spans, nil
}

func checkSpansMatchText(text string, spans []AnySpan) error {
	total := 0
	for _, s := range spans {
		total += s.Length()
	}
	if total != len(text) {
		return errors.NewValidationf("total span length %d does not match text length %d", total, len(text))
	}
	return nil
}

func checkRanges(text string, ranges []Range) error {
	for i, r := range ranges {
		if r.Start > r.End {
			return errors.NewValidationf("range start %d is after end %d", r.Start, r.End)
		}
		if r.Start < 0 || r.End > len(text) {
			return errors.NewValidationf("range [%d,%d) outside of text", r.Start, r.End)
		}
		if i > 0 && r.Start < ranges[i-1].End {
			return errors.NewValidation("ranges must be sorted and non-overlapping")
		}
	}
	return nil
}

// replaceInSpans walks spans and ranges in lockstep, splitting spans around
// each replaced range and emitting a ModifiedSpan for every replacement that
// keeps a reference to the original spans it overlapped.
func replaceInSpans(spans []AnySpan, ranges []Range, replacementLengths []int) []AnySpan {
	var out []AnySpan

	spanIndex := 0
	var cur AnySpan
	spanStart, spanEnd := 0, 0
	if len(spans) > 0 {
		cur = spans[0]
		spanEnd = cur.Length()
	}

	rangeIndex := 0
	rangeStart, rangeEnd := ranges[0].Start, ranges[0].End
	replacementLength := replacementLengths[0]
	var replacedSpans []Span

	for spanIndex < len(spans) || rangeIndex < len(ranges) {
		// current range fully handled: emit its ModifiedSpan and advance
		if rangeIndex < len(ranges) && rangeEnd <= spanStart {
			if replacementLength > 0 {
				out = append(out, ModifiedSpan{Len: replacementLength, ReplacedSpans: replacedSpans})
			}
			rangeIndex++
			if rangeIndex < len(ranges) {
				rangeStart, rangeEnd = ranges[rangeIndex].Start, ranges[rangeIndex].End
				replacementLength = replacementLengths[rangeIndex]
				replacedSpans = nil
			}
		}

		// current span fully handled or untouched by any remaining range
		if spanEnd == spanStart || rangeIndex == len(ranges) || spanEnd <= rangeStart {
			if spanEnd != spanStart {
				out = append(out, cur)
			}
			spanIndex++
			spanStart = spanEnd
			if spanIndex < len(spans) {
				cur = spans[spanIndex]
				spanEnd = spanStart + cur.Length()
			}
			continue
		}

		lengthBefore := rangeStart - spanStart
		if lengthBefore < 0 {
			lengthBefore = 0
		}
		lengthAfter := spanEnd - rangeEnd
		if lengthAfter < 0 {
			lengthAfter = 0
		}

		// remember the overlapped part of the span for the ModifiedSpan
		if replacementLength > 0 && lengthBefore+lengthAfter < cur.Length() {
			switch v := cur.(type) {
			case Span:
				replacedSpans = append(replacedSpans, Span{Start: v.Start + lengthBefore, End: v.End - lengthAfter})
			case ModifiedSpan:
				// the overlapped subpart cannot be attributed to specific
				// replaced spans, keep them all
				replacedSpans = append(replacedSpans, v.ReplacedSpans...)
			}
		}

		// part of the span before the range stays as is
		if lengthBefore > 0 {
			switch v := cur.(type) {
			case Span:
				out = append(out, Span{Start: v.Start, End: v.Start + lengthBefore})
			case ModifiedSpan:
				out = append(out, ModifiedSpan{Len: lengthBefore, ReplacedSpans: v.ReplacedSpans})
			}
		}

		// the remainder after the range becomes the current span
		if lengthAfter > 0 {
			switch v := cur.(type) {
			case Span:
				cur = Span{Start: v.End - lengthAfter, End: v.End}
			case ModifiedSpan:
				cur = ModifiedSpan{Len: lengthAfter, ReplacedSpans: v.ReplacedSpans}
			}
		}
		spanStart = spanEnd - lengthAfter
	}

	return out
}

// extractInSpans keeps only the parts of spans covered by ranges, by
// removing everything in between.
func extractInSpans(spans []AnySpan, ranges []Range) []AnySpan {
	total := 0
	for _, s := range spans {
		total += s.Length()
	}

	var toRemove []Range
	toRemove = append(toRemove, Range{Start: 0, End: ranges[0].Start})
	for i := 1; i < len(ranges); i++ {
		toRemove = append(toRemove, Range{Start: ranges[i-1].End, End: ranges[i].Start})
	}
	toRemove = append(toRemove, Range{Start: ranges[len(ranges)-1].End, End: total})

	lengths := make([]int, len(toRemove))
	return replaceInSpans(spans, toRemove, lengths)
}

func moveInSpans(spans []AnySpan, rng Range, destination int) []AnySpan {
	length := rng.End - rng.Start
	moved := extractInSpans(spans, []Range{rng})

	remainder := replaceInSpans(spans, []Range{rng}, []int{0})
	if destination > rng.End {
		destination -= length
	}

	var before, after []AnySpan
	if destination > 0 {
		before = extractInSpans(remainder, []Range{{Start: 0, End: destination}})
	}
	total := 0
	for _, s := range remainder {
		total += s.Length()
	}
	if destination < total {
		after = extractInSpans(remainder, []Range{{Start: destination, End: total}})
	}

	out := make([]AnySpan, 0, len(before)+len(moved)+len(after))
	out = append(out, before...)
	out = append(out, moved...)
	out = append(out, after...)
	return out
}
