package anns

import (
	"github.com/stannote/stannote/core/dictconv"
	"github.com/stannote/stannote/core/errors"
	"github.com/stannote/stannote/core/span"
	"github.com/stannote/stannote/internal/ident"
)

// Dict serialization discriminators for the annotation variants.
const (
	SegmentClassName  = "Segment"
	EntityClassName   = "Entity"
	RelationClassName = "Relation"
)

// NormLabel is the reserved label used for normalization attributes
// attached to entities.
const NormLabel = "NORMALIZATION"

// TextAnnotation is the closed variant type over Segment, Entity and
// Relation. The shared fields live in AnnotationBase, reachable through
// Common.
type TextAnnotation interface {
	dictconv.Convertible

	// Common returns the fields shared by all annotation variants.
	Common() *AnnotationBase
}

// AnnotationBase carries the fields shared by every annotation variant.
type AnnotationBase struct {
	// UID is the globally unique identifier of the annotation, assigned at
	// construction and never changed.
	UID string
	// Label categorizes the annotation (ex: "sentence", "disease").
	Label string
	// Attrs holds the attributes attached to the annotation.
	Attrs *AttributeContainer
	// Metadata is an open key-value mapping.
	Metadata map[string]any
	// Keys are the pipeline output keys the annotation belongs to. They are
	// set by pipeline machinery, not by the annotation itself, and are not
	// serialized.
	Keys map[string]struct{}
}

// Common returns the shared annotation fields.
func (b *AnnotationBase) Common() *AnnotationBase {
	return b
}

// AddKey tags the annotation with a pipeline output key.
func (b *AnnotationBase) AddKey(key string) {
	b.Keys[key] = struct{}{}
}

// HasKey reports whether the annotation belongs to a pipeline output key.
func (b *AnnotationBase) HasKey(key string) bool {
	_, ok := b.Keys[key]
	return ok
}

func newAnnotationBase(label, uid string) AnnotationBase {
	if uid == "" {
		uid = ident.New()
	}
	return AnnotationBase{
		UID:      uid,
		Label:    label,
		Attrs:    NewAttributeContainer(uid),
		Metadata: map[string]any{},
		Keys:     map[string]struct{}{},
	}
}

// Option customizes annotation construction.
type Option func(*options)

type options struct {
	uid      string
	metadata map[string]any
}

// WithUID sets an explicit identifier instead of generating one.
func WithUID(uid string) Option {
	return func(o *options) { o.uid = uid }
}

// WithMetadata sets the annotation metadata.
func WithMetadata(metadata map[string]any) Option {
	return func(o *options) { o.metadata = metadata }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Segment is an annotation bound to one or several spans of a document's
// text. Text is the segment's own copy of the denoted text, captured at
// creation time; it is not re-derived from the spans, which reference the
// document's coordinate system.
type Segment struct {
	AnnotationBase
	Text  string
	Spans []span.AnySpan
}

// NewSegment creates a segment bound to the given spans.
func NewSegment(label, text string, spans []span.AnySpan, opts ...Option) *Segment {
	o := applyOptions(opts)
	seg := &Segment{
		AnnotationBase: newAnnotationBase(label, o.uid),
		Text:           text,
		Spans:          spans,
	}
	if o.metadata != nil {
		seg.AnnotationBase.Metadata = o.metadata
	}
	return seg
}

// TextHolder gives access to a document's full text. Implemented by
// document.TextDocument.
type TextHolder interface {
	Text() string
}

// Snippet returns a window of the document's text around the segment,
// padded with up to maxExtend extra characters. The padding budget is split
// in two, the left half is taken first and clipped to the start of the
// text, and whatever the left side could not use goes to the right; a right
// side clipped at the end of the text hands its unused budget back to the
// left.
func (s *Segment) Snippet(doc TextHolder, maxExtend int) (string, error) {
	normalized, err := span.Normalize(s.Spans)
	if err != nil {
		return "", err
	}
	text := doc.Text()
	start, end, ok := span.Bounds(normalized)
	if !ok {
		return "", errors.NewValidation("segment has no spans")
	}
	if end > len(text) {
		return "", errors.NewValidationf("segment span end %d outside of document text", end)
	}

	extStart := start - maxExtend/2
	if extStart < 0 {
		extStart = 0
	}
	remaining := maxExtend - (start - extStart)
	extEnd := end + remaining
	if extEnd > len(text) {
		unused := extEnd - len(text)
		extEnd = len(text)
		extStart -= unused
		if extStart < 0 {
			extStart = 0
		}
	}
	return text[extStart:extEnd], nil
}

// ToDict serializes the segment.
func (s *Segment) ToDict() (dictconv.Dict, error) {
	return s.toDict(SegmentClassName)
}

func (s *Segment) toDict(className string) (dictconv.Dict, error) {
	spans := make([]any, len(s.Spans))
	for i, sp := range s.Spans {
		d, err := sp.ToDict()
		if err != nil {
			return nil, err
		}
		spans[i] = d
	}
	attrs, err := attrDicts(s.Attrs)
	if err != nil {
		return nil, err
	}
	d := dictconv.Dict{
		"uid":      s.UID,
		"label":    s.Label,
		"text":     s.Text,
		"spans":    spans,
		"attrs":    attrs,
		"metadata": s.Metadata,
	}
	if err := dictconv.AddClassName(d, className); err != nil {
		return nil, err
	}
	return d, nil
}

// SegmentFromDict rebuilds a Segment from a data dict produced by ToDict.
func SegmentFromDict(d dictconv.Dict) (*Segment, error) {
	if err := dictconv.CheckClass(d, SegmentClassName); err != nil {
		return nil, err
	}
	return segmentFromDict(d)
}

func segmentFromDict(d dictconv.Dict) (*Segment, error) {
	uid, err := dictconv.String(d, "uid")
	if err != nil {
		return nil, err
	}
	label, err := dictconv.String(d, "label")
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
	rawSpans, err := dictconv.List(d, "spans")
	if err != nil {
		return nil, err
	}
	spans := make([]span.AnySpan, len(rawSpans))
	for i, raw := range rawSpans {
		sd, err := dictconv.SubDict(raw)
		if err != nil {
			return nil, err
		}
		spans[i], err = span.FromDict(sd)
		if err != nil {
			return nil, err
		}
	}
	seg := NewSegment(label, text, spans, WithUID(uid), WithMetadata(metadata))
	if err := addAttrsFromDict(seg.Attrs, d); err != nil {
		return nil, err
	}
	return seg, nil
}

// Entity is a segment representing a recognized real-world concept,
// optionally linked to knowledge-base normalizations.
type Entity struct {
	Segment
}

// NewEntity creates an entity bound to the given spans.
func NewEntity(label, text string, spans []span.AnySpan, opts ...Option) *Entity {
	return &Entity{Segment: *NewSegment(label, text, spans, opts...)}
}

// AddNorm attaches a normalization to the entity, wrapped in an attribute
// carrying NormLabel. It returns the created attribute.
func (e *Entity) AddNorm(norm EntityNormalization) (*Attribute, error) {
	attr := NewAttribute(NormLabel, norm)
	if err := e.Attrs.Add(attr); err != nil {
		return nil, err
	}
	return attr, nil
}

// Norms returns all normalizations attached to the entity, in the order
// they were added.
func (e *Entity) Norms() []EntityNormalization {
	attrs := e.Attrs.Get(NormLabel)
	norms := make([]EntityNormalization, 0, len(attrs))
	for _, attr := range attrs {
		if norm, ok := attr.Value.(EntityNormalization); ok {
			norms = append(norms, norm)
		}
	}
	return norms
}

// ToDict serializes the entity.
func (e *Entity) ToDict() (dictconv.Dict, error) {
	return e.toDict(EntityClassName)
}

// EntityFromDict rebuilds an Entity from a data dict produced by ToDict.
func EntityFromDict(d dictconv.Dict) (*Entity, error) {
	if err := dictconv.CheckClass(d, EntityClassName); err != nil {
		return nil, err
	}
	seg, err := segmentFromDict(d)
	if err != nil {
		return nil, err
	}
	return &Entity{Segment: *seg}, nil
}

// Relation is a directed edge between two entities. Source and target are
// referenced by identifier only: the relation does not own the entities and
// their existence is not checked at construction time. Dangling references
// surface as not-found errors when resolved through a container.
type Relation struct {
	AnnotationBase
	SourceID string
	TargetID string
}

// NewRelation creates a relation from a source entity to a target entity,
// both referenced by uid.
func NewRelation(label, sourceID, targetID string, opts ...Option) *Relation {
	o := applyOptions(opts)
	rel := &Relation{
		AnnotationBase: newAnnotationBase(label, o.uid),
		SourceID:       sourceID,
		TargetID:       targetID,
	}
	if o.metadata != nil {
		rel.AnnotationBase.Metadata = o.metadata
	}
	return rel
}

// ToDict serializes the relation.
func (r *Relation) ToDict() (dictconv.Dict, error) {
	attrs, err := attrDicts(r.Attrs)
	if err != nil {
		return nil, err
	}
	d := dictconv.Dict{
		"uid":       r.UID,
		"label":     r.Label,
		"source_id": r.SourceID,
		"target_id": r.TargetID,
		"attrs":     attrs,
		"metadata":  r.Metadata,
	}
	if err := dictconv.AddClassName(d, RelationClassName); err != nil {
		return nil, err
	}
	return d, nil
}

// RelationFromDict rebuilds a Relation from a data dict produced by ToDict.
func RelationFromDict(d dictconv.Dict) (*Relation, error) {
	if err := dictconv.CheckClass(d, RelationClassName); err != nil {
		return nil, err
	}
	uid, err := dictconv.String(d, "uid")
	if err != nil {
		return nil, err
	}
	label, err := dictconv.String(d, "label")
	if err != nil {
		return nil, err
	}
	sourceID, err := dictconv.String(d, "source_id")
	if err != nil {
		return nil, err
	}
	targetID, err := dictconv.String(d, "target_id")
	if err != nil {
		return nil, err
	}
	metadata, err := dictconv.Metadata(d, "metadata")
	if err != nil {
		return nil, err
	}
	rel := NewRelation(label, sourceID, targetID, WithUID(uid), WithMetadata(metadata))
	if err := addAttrsFromDict(rel.Attrs, d); err != nil {
		return nil, err
	}
	return rel, nil
}

// FromDict rebuilds any annotation variant from a data dict by dispatching
// on its discriminator.
func FromDict(d dictconv.Dict) (TextAnnotation, error) {
	name, err := dictconv.ClassName(d)
	if err != nil {
		return nil, err
	}
	switch name {
	case SegmentClassName:
		return SegmentFromDict(d)
	case EntityClassName:
		return EntityFromDict(d)
	case RelationClassName:
		return RelationFromDict(d)
	}
	return nil, errors.NewValidationf("unknown annotation class name %q", name)
}

func attrDicts(c *AttributeContainer) ([]any, error) {
	attrs := c.Get("")
	dicts := make([]any, len(attrs))
	for i, attr := range attrs {
		d, err := attr.ToDict()
		if err != nil {
			return nil, err
		}
		dicts[i] = d
	}
	return dicts, nil
}

func addAttrsFromDict(c *AttributeContainer, d dictconv.Dict) error {
	rawAttrs, err := dictconv.List(d, "attrs")
	if err != nil {
		return err
	}
	for _, raw := range rawAttrs {
		ad, err := dictconv.SubDict(raw)
		if err != nil {
			return err
		}
		attr, err := AttributeFromDict(ad)
		if err != nil {
			return err
		}
		if err := c.Add(attr); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	dictconv.Register(SegmentClassName, func(d dictconv.Dict) (any, error) {
		return SegmentFromDict(d)
	})
	dictconv.Register(EntityClassName, func(d dictconv.Dict) (any, error) {
		return EntityFromDict(d)
	})
	dictconv.Register(RelationClassName, func(d dictconv.Dict) (any, error) {
		return RelationFromDict(d)
	})
}
