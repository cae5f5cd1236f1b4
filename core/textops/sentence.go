package textops

import (
	"strings"
	"unicode"

	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/span"
)

// SentenceLabel is the label given to segments produced by
// SentenceSplitter.
const SentenceLabel = "sentence"

// SentenceSplitter cuts segments into sentence segments on terminal
// punctuation and newlines, keeping span alignment with the document.
type SentenceSplitter struct {
	// KeepPunct keeps the terminal punctuation in the produced sentences.
	KeepPunct bool
}

// Run splits every input segment and returns one batch containing the
// produced sentence segments.
func (s *SentenceSplitter) Run(inputs [][]*anns.Segment) ([][]anns.TextAnnotation, error) {
	var out []anns.TextAnnotation
	for _, segments := range inputs {
		for _, seg := range segments {
			ranges := s.sentenceRanges(seg.Text)
			for _, r := range ranges {
				text, spans, err := span.Extract(seg.Text, seg.Spans, []span.Range{r})
				if err != nil {
					return nil, err
				}
				out = append(out, anns.NewSegment(SentenceLabel, text, spans))
			}
		}
	}
	return [][]anns.TextAnnotation{out}, nil
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '\n'
}

// sentenceRanges returns the character ranges of the sentences in text,
// with surrounding whitespace trimmed.
func (s *SentenceSplitter) sentenceRanges(text string) []span.Range {
	var ranges []span.Range
	start := 0
	i := 0
	for i < len(text) {
		if !isSentenceEnd(rune(text[i])) {
			i++
			continue
		}
		end := i
		// swallow consecutive terminal punctuation
		for i < len(text) && isSentenceEnd(rune(text[i])) {
			i++
		}
		if s.KeepPunct {
			end = i
		}
		if r, ok := trimRange(text, start, end); ok {
			ranges = append(ranges, r)
		}
		start = i
	}
	if r, ok := trimRange(text, start, len(text)); ok {
		ranges = append(ranges, r)
	}
	return ranges
}

// trimRange shrinks [start, end) to exclude surrounding whitespace,
// reporting whether anything remains.
func trimRange(text string, start, end int) (span.Range, bool) {
	chunk := text[start:end]
	trimmedLeft := strings.TrimLeftFunc(chunk, unicode.IsSpace)
	start += len(chunk) - len(trimmedLeft)
	trimmed := strings.TrimRightFunc(trimmedLeft, unicode.IsSpace)
	end = start + len(trimmed)
	if start >= end {
		return span.Range{}, false
	}
	return span.Range{Start: start, End: end}, true
}
