package docio

import (
	"path/filepath"
	"testing"

	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/document"
	"github.com/stannote/stannote/core/errors"
	"github.com/stannote/stannote/core/span"
)

func sampleDocument(uid string) *document.TextDocument {
	doc := document.New("The patient has asthma.", document.WithUID(uid))
	ent := anns.NewEntity("disease", "asthma", []span.AnySpan{span.Span{Start: 16, End: 22}}, anns.WithUID(uid+"-e1"))
	if _, err := ent.AddNorm(anns.EntityNormalization{KBName: "icd", KBID: "J45"}); err != nil {
		panic(err)
	}
	if err := doc.AddAnnotation(ent); err != nil {
		panic(err)
	}
	return doc
}

func checkSampleDocument(t *testing.T, got *document.TextDocument, uid string) {
	t.Helper()
	if got.UID != uid {
		t.Errorf("uid = %q, want %q", got.UID, uid)
	}
	if got.Text() != "The patient has asthma." {
		t.Errorf("text = %q", got.Text())
	}
	entities := got.Anns.Entities("disease", "")
	if len(entities) != 1 {
		t.Fatalf("Entities() = %v", entities)
	}
	norms := entities[0].Norms()
	if len(norms) != 1 || norms[0].SimpleRepresentation() != "icd:J45" {
		t.Errorf("norms = %v", norms)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, name := range []string{"doc.json", "doc.json.xz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := SaveDocument(sampleDocument("doc-1"), path); err != nil {
				t.Fatalf("SaveDocument failed: %v", err)
			}
			got, err := LoadDocument(path)
			if err != nil {
				t.Fatalf("LoadDocument failed: %v", err)
			}
			checkSampleDocument(t, got, "doc-1")
		})
	}
}

func TestDocumentsRoundTrip(t *testing.T) {
	for _, name := range []string{"docs.jsonl", "docs.jsonl.xz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			docs := []*document.TextDocument{sampleDocument("doc-1"), sampleDocument("doc-2")}
			if err := SaveDocuments(docs, path); err != nil {
				t.Fatalf("SaveDocuments failed: %v", err)
			}
			got, err := LoadDocuments(path)
			if err != nil {
				t.Fatalf("LoadDocuments failed: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("got %d documents, want 2", len(got))
			}
			checkSampleDocument(t, got[0], "doc-1")
			checkSampleDocument(t, got[1], "doc-2")
		})
	}
}

func TestAnnotationsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anns.jsonl")
	annotations := []anns.TextAnnotation{
		anns.NewSegment("sentence", "has asthma", []span.AnySpan{span.Span{Start: 10, End: 20}}, anns.WithUID("s1")),
		anns.NewEntity("disease", "asthma", []span.AnySpan{span.Span{Start: 16, End: 22}}, anns.WithUID("e1")),
		anns.NewRelation("about", "e1", "s1", anns.WithUID("r1")),
	}
	if err := SaveAnnotations(annotations, path); err != nil {
		t.Fatalf("SaveAnnotations failed: %v", err)
	}
	got, err := LoadAnnotations(path)
	if err != nil {
		t.Fatalf("LoadAnnotations failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d annotations, want 3", len(got))
	}
	if _, ok := got[0].(*anns.Segment); !ok {
		t.Errorf("annotation 0 is %T, want *Segment", got[0])
	}
	if _, ok := got[1].(*anns.Entity); !ok {
		t.Errorf("annotation 1 is %T, want *Entity", got[1])
	}
	rel, ok := got[2].(*anns.Relation)
	if !ok || rel.SourceID != "e1" {
		t.Errorf("annotation 2 = %v", got[2])
	}
}

func TestLoadRejectsWrongContentType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := SaveDocument(sampleDocument("doc-1"), path); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	// a single-document file is not a document list
	if _, err := LoadDocuments(path); !errors.IsInvalidInput(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	listPath := filepath.Join(dir, "docs.jsonl")
	if err := SaveDocuments(nil, listPath); err != nil {
		t.Fatalf("SaveDocuments failed: %v", err)
	}
	if _, err := LoadAnnotations(listPath); !errors.IsInvalidInput(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	d := buildHeader(ContentDocument)
	d["version"] = "99.0"
	if err := checkHeader(d, ContentDocument); !errors.IsInvalidInput(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.db")
	arc, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer arc.Close()

	if err := arc.Put(sampleDocument("doc-1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := arc.Put(sampleDocument("doc-2")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := arc.Get("doc-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	checkSampleDocument(t, got, "doc-1")

	uids, err := arc.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(uids) != 2 || uids[0] != "doc-1" || uids[1] != "doc-2" {
		t.Errorf("List() = %v", uids)
	}

	// Put with the same uid replaces
	if err := arc.Put(sampleDocument("doc-1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	uids, err = arc.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(uids) != 2 {
		t.Errorf("replace grew the archive: %v", uids)
	}

	if err := arc.Delete("doc-2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := arc.Get("doc-2"); !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
	if err := arc.Delete("doc-2"); !errors.IsNotFound(err) {
		t.Errorf("expected not found error on second delete, got %v", err)
	}
}
