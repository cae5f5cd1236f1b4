package docio

import (
	"bufio"
	"encoding/json"

	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/dictconv"
	"github.com/stannote/stannote/core/document"
	"github.com/stannote/stannote/core/errors"
	"github.com/stannote/stannote/internal/logging"
)

// SaveDocument writes a single document, with its annotations, to a JSON
// file.
func SaveDocument(doc *document.TextDocument, path string) error {
	content, err := doc.ToDict()
	if err != nil {
		return err
	}
	data := buildHeader(ContentDocument)
	data["content"] = content

	w, err := openWriter(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// LoadDocument reads a document written by SaveDocument.
func LoadDocument(path string) (*document.TextDocument, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var data dictconv.Dict
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, &errors.ValidationError{Message: "malformed document file", Err: err}
	}
	if err := checkHeader(data, ContentDocument); err != nil {
		return nil, err
	}
	content, ok := data["content"].(map[string]any)
	if !ok {
		return nil, errors.NewValidation("document file has no content entry")
	}
	return document.FromDict(content)
}

// SaveDocuments writes several documents to a JSONL file: a header line
// followed by one document per line.
func SaveDocuments(docs []*document.TextDocument, path string) error {
	w, err := openWriter(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err := writeJSONLine(bw, buildHeader(ContentDocumentList)); err != nil {
		w.Close()
		return err
	}
	for _, doc := range docs {
		d, err := doc.ToDict()
		if err != nil {
			w.Close()
			return err
		}
		if err := writeJSONLine(bw, d); err != nil {
			w.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	logging.Debug("saved documents", "path", path, "count", len(docs))
	return nil
}

// LoadDocuments reads documents written by SaveDocuments.
func LoadDocuments(path string) ([]*document.TextDocument, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.NewValidation("document list file is empty")
	}
	header, err := decodeDictLine(scanner.Bytes())
	if err != nil {
		return nil, err
	}
	if err := checkHeader(header, ContentDocumentList); err != nil {
		return nil, err
	}

	var docs []*document.TextDocument
	for scanner.Scan() {
		d, err := decodeDictLine(scanner.Bytes())
		if err != nil {
			return nil, err
		}
		doc, err := document.FromDict(d)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// SaveAnnotations writes annotations to a JSONL file: a header line
// followed by one annotation per line. Useful for persisting annotations
// separately from their document.
func SaveAnnotations(annotations []anns.TextAnnotation, path string) error {
	w, err := openWriter(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err := writeJSONLine(bw, buildHeader(ContentAnnotationList)); err != nil {
		w.Close()
		return err
	}
	for _, ann := range annotations {
		d, err := ann.ToDict()
		if err != nil {
			w.Close()
			return err
		}
		if err := writeJSONLine(bw, d); err != nil {
			w.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// LoadAnnotations reads annotations written by SaveAnnotations.
func LoadAnnotations(path string) ([]anns.TextAnnotation, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.NewValidation("annotation list file is empty")
	}
	header, err := decodeDictLine(scanner.Bytes())
	if err != nil {
		return nil, err
	}
	if err := checkHeader(header, ContentAnnotationList); err != nil {
		return nil, err
	}

	var annotations []anns.TextAnnotation
	for scanner.Scan() {
		d, err := decodeDictLine(scanner.Bytes())
		if err != nil {
			return nil, err
		}
		ann, err := anns.FromDict(d)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, ann)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return annotations, nil
}
