package main

import (
	"path/filepath"
	"testing"

	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/docio"
	"github.com/stannote/stannote/core/document"
	"github.com/stannote/stannote/core/span"
)

func writeTestDocument(t *testing.T, dir string) string {
	t.Helper()
	doc := document.New("The patient has asthma.", document.WithUID("doc-1"))
	ent := anns.NewEntity("disease", "asthma", []span.AnySpan{span.Span{Start: 16, End: 22}}, anns.WithUID("e1"))
	if err := doc.AddAnnotation(ent); err != nil {
		t.Fatalf("AddAnnotation failed: %v", err)
	}
	path := filepath.Join(dir, "doc.json")
	if err := docio.SaveDocument(doc, path); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	return path
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"doc.json", "json"},
		{"doc.json.xz", "json"},
		{"docs.jsonl", "jsonl"},
		{"docs.jsonl.xz", "jsonl"},
		{"docs.db", "archive"},
		{"docs.sqlite", "archive"},
		{"notes.txt", ""},
	}
	for _, tt := range tests {
		if got := kindOf(tt.path); got != tt.want {
			t.Errorf("kindOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestValidateCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeTestDocument(t, dir)

	cmd := &ValidateCmd{Path: path}
	if err := cmd.Run(); err != nil {
		t.Errorf("validate reported problems: %v", err)
	}
}

func TestValidateCmdDanglingRelation(t *testing.T) {
	dir := t.TempDir()
	doc := document.New("The patient has asthma.", document.WithUID("doc-1"))
	rel := anns.NewRelation("treats", "nonexistent", "alsomissing", anns.WithUID("r1"))
	if err := doc.AddAnnotation(rel); err != nil {
		t.Fatalf("AddAnnotation failed: %v", err)
	}
	path := filepath.Join(dir, "doc.json")
	if err := docio.SaveDocument(doc, path); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	cmd := &ValidateCmd{Path: path}
	if err := cmd.Run(); err == nil {
		t.Error("validate should fail on dangling relation endpoints")
	}
}

func TestConvertCmdRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeTestDocument(t, dir)

	// json -> archive
	dbPath := filepath.Join(dir, "docs.db")
	conv := &ConvertCmd{In: path, Out: dbPath}
	if err := conv.Run(); err != nil {
		t.Fatalf("convert to archive failed: %v", err)
	}

	// archive -> jsonl
	jsonlPath := filepath.Join(dir, "docs.jsonl")
	conv = &ConvertCmd{In: dbPath, Out: jsonlPath}
	if err := conv.Run(); err != nil {
		t.Fatalf("convert to jsonl failed: %v", err)
	}

	docs, err := docio.LoadDocuments(jsonlPath)
	if err != nil {
		t.Fatalf("LoadDocuments failed: %v", err)
	}
	if len(docs) != 1 || docs[0].UID != "doc-1" {
		t.Fatalf("round trip lost the document: %v", docs)
	}
	if len(docs[0].Anns.Entities("disease", "")) != 1 {
		t.Error("round trip lost the entity")
	}
}

func TestConvertCmdRejectsMultipleDocsToSingleFile(t *testing.T) {
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "docs.jsonl")
	docs := []*document.TextDocument{
		document.New("first", document.WithUID("d1")),
		document.New("second", document.WithUID("d2")),
	}
	if err := docio.SaveDocuments(docs, jsonlPath); err != nil {
		t.Fatalf("SaveDocuments failed: %v", err)
	}

	conv := &ConvertCmd{In: jsonlPath, Out: filepath.Join(dir, "doc.json")}
	if err := conv.Run(); err == nil {
		t.Error("converting two documents to a single-document file should fail")
	}
}

func TestLoadAnyUnsupported(t *testing.T) {
	if _, err := loadAny("notes.txt"); err == nil {
		t.Error("unsupported extension should fail")
	}
}
