// Command stannote inspects and converts stand-off annotation documents.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/docio"
	"github.com/stannote/stannote/core/document"
	"github.com/stannote/stannote/core/span"
	"github.com/stannote/stannote/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for stannote.
var CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Validate ValidateCmd `cmd:"" help:"Check a saved document for malformed spans and dangling relations"`
	Stats    StatsCmd    `cmd:"" help:"Print annotation counts for a saved document"`
	Convert  ConvertCmd  `cmd:"" help:"Convert documents between json, jsonl and sqlite archives"`
	Snippet  SnippetCmd  `cmd:"" help:"Print the document text around an annotation"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("stannote"),
		kong.Description("Stand-off annotation document tools"),
		kong.UsageOnError(),
	)

	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), format)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ValidateCmd checks a saved document.
type ValidateCmd struct {
	Path string `arg:"" help:"Document file (.json, optionally .xz)" type:"path"`
}

// Run validates the document: every segment must normalize cleanly and
// every relation endpoint must resolve.
func (c *ValidateCmd) Run() error {
	doc, err := docio.LoadDocument(c.Path)
	if err != nil {
		return err
	}

	problems := 0
	for _, seg := range doc.Anns.Segments("", "") {
		if _, err := span.Normalize(seg.Spans); err != nil {
			fmt.Printf("segment %s: %v\n", seg.UID, err)
			problems++
		}
	}
	for _, rel := range doc.Anns.Relations("", "", "") {
		if _, err := doc.Anns.GetByID(rel.SourceID); err != nil {
			fmt.Printf("relation %s: dangling source: %v\n", rel.UID, err)
			problems++
		}
		if _, err := doc.Anns.GetByID(rel.TargetID); err != nil {
			fmt.Printf("relation %s: dangling target: %v\n", rel.UID, err)
			problems++
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found in %s", problems, c.Path)
	}
	fmt.Printf("%s: %d annotations, no problems found\n", c.Path, doc.Anns.Len())
	return nil
}

// StatsCmd prints annotation counts.
type StatsCmd struct {
	Path string `arg:"" help:"Document file (.json, optionally .xz)" type:"path"`
}

// Run prints per-kind and per-label counts for the document.
func (c *StatsCmd) Run() error {
	doc, err := docio.LoadDocument(c.Path)
	if err != nil {
		return err
	}

	fmt.Printf("document %s (%d chars)\n", doc.UID, len(doc.Text()))
	fmt.Printf("  segments:  %d\n", len(doc.Anns.Segments("", "")))
	fmt.Printf("  entities:  %d\n", len(doc.Anns.Entities("", "")))
	fmt.Printf("  relations: %d\n", len(doc.Anns.Relations("", "", "")))

	counts := map[string]int{}
	var labels []string
	for _, ann := range doc.Anns.Get("", "") {
		label := ann.Common().Label
		if counts[label] == 0 {
			labels = append(labels, label)
		}
		counts[label]++
	}
	for _, label := range labels {
		fmt.Printf("  label %-20s %d\n", label, counts[label])
	}
	return nil
}

// ConvertCmd converts documents between storage formats.
type ConvertCmd struct {
	In  string `arg:"" help:"Input: .json document, .jsonl document list, or .db/.sqlite archive" type:"path"`
	Out string `arg:"" help:"Output: .json (single document only), .jsonl, or .db/.sqlite archive" type:"path"`
}

// Run loads all documents from the input and writes them to the output,
// with formats chosen by file extension.
func (c *ConvertCmd) Run() error {
	docs, err := loadAny(c.In)
	if err != nil {
		return err
	}

	switch kindOf(c.Out) {
	case "json":
		if len(docs) != 1 {
			return fmt.Errorf("cannot write %d documents to a single-document file", len(docs))
		}
		return docio.SaveDocument(docs[0], c.Out)
	case "jsonl":
		return docio.SaveDocuments(docs, c.Out)
	case "archive":
		archive, err := docio.OpenArchive(c.Out)
		if err != nil {
			return err
		}
		defer archive.Close()
		for _, doc := range docs {
			if err := archive.Put(doc); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported output format: %s", c.Out)
}

// SnippetCmd prints the text around an annotation.
type SnippetCmd struct {
	Path   string `arg:"" help:"Document file (.json, optionally .xz)" type:"path"`
	UID    string `arg:"" help:"Annotation identifier"`
	Extend int    `name:"extend" default:"40" help:"Maximum number of extra characters around the annotation"`
}

// Run prints a window of document text around the annotation.
func (c *SnippetCmd) Run() error {
	doc, err := docio.LoadDocument(c.Path)
	if err != nil {
		return err
	}
	ann, err := doc.Anns.GetByID(c.UID)
	if err != nil {
		return err
	}
	var seg *anns.Segment
	switch v := ann.(type) {
	case *anns.Entity:
		seg = &v.Segment
	case *anns.Segment:
		seg = v
	default:
		return fmt.Errorf("annotation %s is not text-bound", c.UID)
	}
	snippet, err := seg.Snippet(doc, c.Extend)
	if err != nil {
		return err
	}
	fmt.Println(snippet)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

// Run prints the version.
func (c *VersionCmd) Run() error {
	fmt.Printf("stannote %s\n", version)
	return nil
}

func kindOf(path string) string {
	p := strings.TrimSuffix(path, ".xz")
	switch filepath.Ext(p) {
	case ".json":
		return "json"
	case ".jsonl":
		return "jsonl"
	case ".db", ".sqlite":
		return "archive"
	}
	return ""
}

func loadAny(path string) ([]*document.TextDocument, error) {
	switch kindOf(path) {
	case "json":
		doc, err := docio.LoadDocument(path)
		if err != nil {
			return nil, err
		}
		return []*document.TextDocument{doc}, nil
	case "jsonl":
		return docio.LoadDocuments(path)
	case "archive":
		archive, err := docio.OpenArchive(path)
		if err != nil {
			return nil, err
		}
		defer archive.Close()
		uids, err := archive.List()
		if err != nil {
			return nil, err
		}
		docs := make([]*document.TextDocument, 0, len(uids))
		for _, uid := range uids {
			doc, err := archive.Get(uid)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		return docs, nil
	}
	return nil, fmt.Errorf("unsupported input format: %s", path)
}
