package document

import (
	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/dictconv"
	"github.com/stannote/stannote/core/span"
	"github.com/stannote/stannote/internal/ident"
)

// RawLabel is the reserved label of the auto-generated raw segment holding
// a document's full text.
const RawLabel = "RAW_TEXT"

// DocumentClassName is the dict serialization discriminator for
// TextDocument.
const DocumentClassName = "TextDocument"

// TextDocument owns an immutable text and the annotations attached to it.
//
// The raw segment is built once at construction, spans the entire text as a
// single simple span and is never mutated afterward. Its identifier is
// derived from the document identifier, so two documents sharing a uid
// produce raw segments with the same uid. A document with empty text has no
// raw segment.
type TextDocument struct {
	UID      string
	Metadata map[string]any

	// Anns holds the annotations of the document.
	Anns *TextAnnotationContainer

	text       string
	rawSegment *anns.Segment
}

// DocOption customizes document construction.
type DocOption func(*docOptions)

type docOptions struct {
	uid      string
	metadata map[string]any
}

// WithUID sets an explicit document identifier. When absent, the identifier
// is derived deterministically from the document text.
func WithUID(uid string) DocOption {
	return func(o *docOptions) { o.uid = uid }
}

// WithMetadata sets the document metadata.
func WithMetadata(metadata map[string]any) DocOption {
	return func(o *docOptions) { o.metadata = metadata }
}

// New creates a text document holding the given text.
func New(text string, opts ...DocOption) *TextDocument {
	var o docOptions
	for _, opt := range opts {
		opt(&o)
	}
	uid := o.uid
	if uid == "" {
		uid = ident.Deterministic("document:" + text)
	}
	metadata := o.metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	var raw *anns.Segment
	if text != "" {
		raw = generateRawSegment(text, uid)
	}

	return &TextDocument{
		UID:        uid,
		Metadata:   metadata,
		Anns:       NewTextAnnotationContainer(uid, raw),
		text:       text,
		rawSegment: raw,
	}
}

// generateRawSegment builds the reserved segment holding the whole text.
// The segment uid is derived from the document uid so it is stable across
// runs for a given document.
func generateRawSegment(text, docID string) *anns.Segment {
	uid := ident.Deterministic("raw-segment:" + docID)
	return anns.NewSegment(RawLabel, text, []span.AnySpan{span.Span{Start: 0, End: len(text)}}, anns.WithUID(uid))
}

// Text returns the document's full text.
func (d *TextDocument) Text() string {
	return d.text
}

// RawSegment returns the reserved segment spanning the whole text, or nil
// for a document without text.
func (d *TextDocument) RawSegment() *anns.Segment {
	return d.rawSegment
}

// AddAnnotation attaches an annotation to the document. All validation is
// done by the container.
func (d *TextDocument) AddAnnotation(ann anns.TextAnnotation) error {
	return d.Anns.Add(ann)
}

// ToDict serializes the document with all its annotations.
func (d *TextDocument) ToDict() (dictconv.Dict, error) {
	annDicts := make([]any, 0, d.Anns.Len())
	for _, ann := range d.Anns.Get("", "") {
		ad, err := ann.ToDict()
		if err != nil {
			return nil, err
		}
		annDicts = append(annDicts, ad)
	}
	dict := dictconv.Dict{
		"uid":      d.UID,
		"text":     d.text,
		"metadata": d.Metadata,
		"anns":     annDicts,
	}
	if err := dictconv.AddClassName(dict, DocumentClassName); err != nil {
		return nil, err
	}
	return dict, nil
}

// FromDict rebuilds a TextDocument from a data dict produced by ToDict.
func FromDict(d dictconv.Dict) (*TextDocument, error) {
	if err := dictconv.CheckClass(d, DocumentClassName); err != nil {
		return nil, err
	}
	uid, err := dictconv.String(d, "uid")
	if err != nil {
		return nil, err
	}
	text, err := dictconv.String(d, "text")
	if err != nil {
		return nil, err
	}
	metadata, err := dictconv.Metadata(d, "metadata")
	if err != nil {
		return nil, err
	}
	doc := New(text, WithUID(uid), WithMetadata(metadata))

	rawAnns, err := dictconv.List(d, "anns")
	if err != nil {
		return nil, err
	}
	for _, raw := range rawAnns {
		ad, err := dictconv.SubDict(raw)
		if err != nil {
			return nil, err
		}
		ann, err := anns.FromDict(ad)
		if err != nil {
			return nil, err
		}
		if err := doc.AddAnnotation(ann); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func init() {
	dictconv.Register(DocumentClassName, func(d dictconv.Dict) (any, error) {
		return FromDict(d)
	})
}
