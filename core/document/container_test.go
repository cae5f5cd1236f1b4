package document

import (
	"testing"

	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/errors"
	"github.com/stannote/stannote/core/span"
)

func newSentence(uid string) *anns.Segment {
	return anns.NewSegment("sentence", "x", []span.AnySpan{span.Span{Start: 0, End: 1}}, anns.WithUID(uid))
}

func TestContainerAddAndGet(t *testing.T) {
	c := NewAnnotationContainer("doc-1")
	s1 := newSentence("s1")
	s2 := anns.NewSegment("section", "x", []span.AnySpan{span.Span{Start: 0, End: 1}}, anns.WithUID("s2"))
	s3 := newSentence("s3")
	for _, ann := range []anns.TextAnnotation{s1, s2, s3} {
		if err := c.Add(ann); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	all := c.Get("", "")
	if len(all) != 3 || all[0] != anns.TextAnnotation(s1) || all[2] != anns.TextAnnotation(s3) {
		t.Errorf("Get(\"\", \"\") order wrong: %v", all)
	}
	sentences := c.Get("sentence", "")
	if len(sentences) != 2 || sentences[0].Common().UID != "s1" || sentences[1].Common().UID != "s3" {
		t.Errorf("Get(sentence) = %v", sentences)
	}
	if got := c.Get("paragraph", ""); len(got) != 0 {
		t.Errorf("unknown label should give empty result, got %v", got)
	}
}

func TestContainerDuplicateRejectedAtomically(t *testing.T) {
	c := NewAnnotationContainer("doc-1")
	if err := c.Add(newSentence("s1")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	dup := newSentence("s1")
	dup.Label = "section"
	err := c.Add(dup)
	if !errors.IsAlreadyExists(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() after rejected add = %d, want 1", c.Len())
	}
	// the rejected annotation's label must not have leaked into the index
	if got := c.Get("section", ""); len(got) != 0 {
		t.Errorf("rejected add leaked into label index: %v", got)
	}
	if got := c.Get("sentence", ""); len(got) != 1 {
		t.Errorf("original entry disturbed: %v", got)
	}
}

func TestContainerKeyFilter(t *testing.T) {
	c := NewAnnotationContainer("doc-1")
	s1 := newSentence("s1")
	s1.AddKey("split")
	s2 := newSentence("s2")
	s3 := anns.NewSegment("section", "x", []span.AnySpan{span.Span{Start: 0, End: 1}}, anns.WithUID("s3"))
	s3.AddKey("split")
	for _, ann := range []anns.TextAnnotation{s1, s2, s3} {
		if err := c.Add(ann); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	byKey := c.Get("", "split")
	if len(byKey) != 2 || byKey[0].Common().UID != "s1" || byKey[1].Common().UID != "s3" {
		t.Errorf("Get(\"\", split) = %v", byKey)
	}
	both := c.Get("sentence", "split")
	if len(both) != 1 || both[0].Common().UID != "s1" {
		t.Errorf("Get(sentence, split) = %v", both)
	}
	if got := c.Get("", "unknown"); len(got) != 0 {
		t.Errorf("unknown key should give empty result, got %v", got)
	}
}

func TestContainerGetByID(t *testing.T) {
	c := NewAnnotationContainer("doc-1")
	s1 := newSentence("s1")
	if err := c.Add(s1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := c.GetByID("s1")
	if err != nil || got.Common().UID != "s1" {
		t.Errorf("GetByID = (%v, %v)", got, err)
	}
	_, err = c.GetByID("missing")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}
