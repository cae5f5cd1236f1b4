// Package docio persists documents and annotations in their dict-serialized
// form: single JSON files, JSONL streams, and a SQLite archive. Files with
// an .xz suffix are transparently compressed.
package docio

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/stannote/stannote/core/dictconv"
	"github.com/stannote/stannote/core/errors"
)

// FormatVersion is the version of the persisted-state format. Readers
// reject files written with a different version.
const FormatVersion = "0.1"

// ContentType identifies what a persisted file contains.
type ContentType string

// Content type constants.
const (
	ContentDocument       ContentType = "document"
	ContentDocumentList   ContentType = "document_list"
	ContentAnnotationList ContentType = "annotation_list"
)

func buildHeader(ct ContentType) dictconv.Dict {
	return dictconv.Dict{
		"version":      FormatVersion,
		"content_type": string(ct),
	}
}

func checkHeader(d dictconv.Dict, want ContentType) error {
	version, err := dictconv.String(d, "version")
	if err != nil {
		return err
	}
	if version != FormatVersion {
		return errors.NewValidationf("input file has incompatible format version %q, expected %q", version, FormatVersion)
	}
	ct, err := dictconv.String(d, "content_type")
	if err != nil {
		return err
	}
	if ContentType(ct) != want {
		return errors.NewValidationf("input file has content type %q, expected %q", ct, want)
	}
	return nil
}

// openWriter opens a file for writing, wrapping it in an xz compressor when
// the path ends in .xz.
func openWriter(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".xz") {
		return f, nil
	}
	zw, err := xz.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &xzWriteCloser{zw: zw, f: f}, nil
}

type xzWriteCloser struct {
	zw *xz.Writer
	f  *os.File
}

func (w *xzWriteCloser) Write(p []byte) (int, error) {
	return w.zw.Write(p)
}

func (w *xzWriteCloser) Close() error {
	if err := w.zw.Close(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// openReader opens a file for reading, wrapping it in an xz decompressor
// when the path ends in .xz.
func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".xz") {
		return f, nil
	}
	zr, err := xz.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &xzReadCloser{zr: zr, f: f}, nil
}

type xzReadCloser struct {
	zr io.Reader
	f  *os.File
}

func (r *xzReadCloser) Read(p []byte) (int, error) {
	return r.zr.Read(p)
}

func (r *xzReadCloser) Close() error {
	return r.f.Close()
}

func writeJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}

func decodeDictLine(line []byte) (dictconv.Dict, error) {
	var d dictconv.Dict
	if err := json.Unmarshal(line, &d); err != nil {
		return nil, &errors.ValidationError{Message: "malformed JSON record", Err: err}
	}
	return d, nil
}
