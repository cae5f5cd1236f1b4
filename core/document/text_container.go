package document

import (
	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/errors"
)

// TextAnnotationContainer manages the annotations of a text document. On
// top of the base container it partitions annotations into segments,
// entities and relations (entities count as segments too), indexes
// relations by source entity, and injects the document's raw segment into
// targeted lookups.
//
// The raw segment is never appended to the underlying list: it is excluded
// from Len and Get with no filters, but reachable through its reserved
// label or its identifier. Adding any annotation carrying the reserved
// label is rejected.
type TextAnnotationContainer struct {
	*AnnotationContainer

	rawSegment   *anns.Segment
	segmentIDs   map[string]struct{}
	entityIDs    map[string]struct{}
	relationIDs  map[string]struct{}
	relsBySource map[string]map[string]struct{}
}

// NewTextAnnotationContainer creates a container for a text document.
// rawSegment may be nil when the document has no text.
func NewTextAnnotationContainer(docID string, rawSegment *anns.Segment) *TextAnnotationContainer {
	return &TextAnnotationContainer{
		AnnotationContainer: NewAnnotationContainer(docID),
		rawSegment:          rawSegment,
		segmentIDs:          map[string]struct{}{},
		entityIDs:           map[string]struct{}{},
		relationIDs:         map[string]struct{}{},
		relsBySource:        map[string]map[string]struct{}{},
	}
}

// RawSegment returns the injected raw segment, or nil when the document has
// no text.
func (c *TextAnnotationContainer) RawSegment() *anns.Segment {
	return c.rawSegment
}

// Add attaches an annotation to the document, updating the type partitions
// and the relation source index. Annotations carrying the raw segment's
// reserved label are rejected before any mutation.
func (c *TextAnnotationContainer) Add(ann anns.TextAnnotation) error {
	base := ann.Common()
	if base.Label == RawLabel {
		return &errors.ReservedLabelError{Label: base.Label}
	}
	if err := c.AnnotationContainer.Add(ann); err != nil {
		return err
	}

	switch v := ann.(type) {
	case *anns.Entity:
		c.entityIDs[base.UID] = struct{}{}
		c.segmentIDs[base.UID] = struct{}{}
	case *anns.Segment:
		c.segmentIDs[base.UID] = struct{}{}
	case *anns.Relation:
		c.relationIDs[base.UID] = struct{}{}
		set, ok := c.relsBySource[v.SourceID]
		if !ok {
			set = map[string]struct{}{}
			c.relsBySource[v.SourceID] = set
		}
		set[base.UID] = struct{}{}
	}
	return nil
}

// Get returns the annotations matching the given label and pipeline key.
// Requesting the reserved raw label returns exactly the injected raw
// segment; the key filter does not apply to it since the raw segment
// carries no keys.
func (c *TextAnnotationContainer) Get(label, key string) []anns.TextAnnotation {
	if c.rawSegment != nil && label == c.rawSegment.Label {
		return []anns.TextAnnotation{c.rawSegment}
	}
	return c.AnnotationContainer.Get(label, key)
}

// GetByID returns the annotation with the given identifier, including the
// injected raw segment when its identifier is requested.
func (c *TextAnnotationContainer) GetByID(uid string) (anns.TextAnnotation, error) {
	if c.rawSegment != nil && uid == c.rawSegment.UID {
		return c.rawSegment, nil
	}
	return c.AnnotationContainer.GetByID(uid)
}

// Segments returns the segments of the document matching the given label
// and key, entities included, in insertion order.
func (c *TextAnnotationContainer) Segments(label, key string) []*anns.Segment {
	var out []*anns.Segment
	for _, uid := range c.GetIDs(label, key) {
		if _, ok := c.segmentIDs[uid]; !ok {
			continue
		}
		switch v := c.annByID[uid].(type) {
		case *anns.Entity:
			out = append(out, &v.Segment)
		case *anns.Segment:
			out = append(out, v)
		}
	}
	return out
}

// Entities returns the entities of the document matching the given label
// and key, in insertion order.
func (c *TextAnnotationContainer) Entities(label, key string) []*anns.Entity {
	var out []*anns.Entity
	for _, uid := range c.GetIDs(label, key) {
		if _, ok := c.entityIDs[uid]; !ok {
			continue
		}
		if ent, ok := c.annByID[uid].(*anns.Entity); ok {
			out = append(out, ent)
		}
	}
	return out
}

// Relations returns the relations of the document matching the given label
// and key, in insertion order. A non-empty sourceID restricts the result to
// relations whose source is that entity.
func (c *TextAnnotationContainer) Relations(label, key, sourceID string) []*anns.Relation {
	members := c.relationIDs
	if sourceID != "" {
		members = c.relsBySource[sourceID]
	}
	var out []*anns.Relation
	for _, uid := range c.GetIDs(label, key) {
		if _, ok := members[uid]; !ok {
			continue
		}
		if rel, ok := c.annByID[uid].(*anns.Relation); ok {
			out = append(out, rel)
		}
	}
	return out
}
