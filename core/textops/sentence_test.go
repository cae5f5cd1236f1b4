package textops

import (
	"testing"

	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/span"
)

func runSplitter(t *testing.T, splitter *SentenceSplitter, text string) []*anns.Segment {
	t.Helper()
	outputs, err := splitter.Run([][]*anns.Segment{{rawSegment(text)}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(outputs) != 1 {
		t.Fatalf("got %d output batches, want 1", len(outputs))
	}
	segments := make([]*anns.Segment, len(outputs[0]))
	for i, ann := range outputs[0] {
		seg, ok := ann.(*anns.Segment)
		if !ok {
			t.Fatalf("output %d is %T, want *Segment", i, ann)
		}
		segments[i] = seg
	}
	return segments
}

func TestSentenceSplitter(t *testing.T) {
	text := "The patient has asthma. Treatment started!  Follow-up in two weeks"
	segments := runSplitter(t, &SentenceSplitter{}, text)

	wantTexts := []string{"The patient has asthma", "Treatment started", "Follow-up in two weeks"}
	if len(segments) != len(wantTexts) {
		t.Fatalf("got %d sentences, want %d", len(segments), len(wantTexts))
	}
	for i, seg := range segments {
		if seg.Text != wantTexts[i] {
			t.Errorf("sentence %d = %q, want %q", i, seg.Text, wantTexts[i])
		}
		if seg.Label != SentenceLabel {
			t.Errorf("sentence %d label = %q", i, seg.Label)
		}
		// spans must point back into the document text
		normalized, err := span.Normalize(seg.Spans)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		start, end, ok := span.Bounds(normalized)
		if !ok {
			t.Fatalf("sentence %d has no spans", i)
		}
		if text[start:end] != seg.Text {
			t.Errorf("sentence %d spans [%d,%d) denote %q, text is %q", i, start, end, text[start:end], seg.Text)
		}
	}
}

func TestSentenceSplitterKeepPunct(t *testing.T) {
	text := "First. Second?!"
	segments := runSplitter(t, &SentenceSplitter{KeepPunct: true}, text)

	wantTexts := []string{"First.", "Second?!"}
	if len(segments) != len(wantTexts) {
		t.Fatalf("got %d sentences, want %d", len(segments), len(wantTexts))
	}
	for i, seg := range segments {
		if seg.Text != wantTexts[i] {
			t.Errorf("sentence %d = %q, want %q", i, seg.Text, wantTexts[i])
		}
	}
}

func TestSentenceSplitterNewlines(t *testing.T) {
	text := "first line\nsecond line\n"
	segments := runSplitter(t, &SentenceSplitter{}, text)
	wantTexts := []string{"first line", "second line"}
	if len(segments) != len(wantTexts) {
		t.Fatalf("got %d sentences, want %d", len(segments), len(wantTexts))
	}
	for i, seg := range segments {
		if seg.Text != wantTexts[i] {
			t.Errorf("sentence %d = %q, want %q", i, seg.Text, wantTexts[i])
		}
	}
}

func TestSentenceSplitterEmptyInput(t *testing.T) {
	segments := runSplitter(t, &SentenceSplitter{}, "   ")
	if len(segments) != 0 {
		t.Errorf("whitespace-only input produced %v", segments)
	}
}
