// Package document provides the text document and the indexed containers
// that manage the annotations attached to it.
package document

import (
	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/errors"
)

// AnnotationContainer manages the list of annotations belonging to one
// document. Insertion order is preserved; label and pipeline-key indices
// support filtered retrieval in amortized constant time per dimension.
type AnnotationContainer struct {
	docID   string
	annIDs  []string
	byLabel map[string][]string
	byKey   map[string][]string
	keySets map[string]map[string]struct{}
	annByID map[string]anns.TextAnnotation
}

// NewAnnotationContainer creates an empty container for the document with
// the given identifier.
func NewAnnotationContainer(docID string) *AnnotationContainer {
	return &AnnotationContainer{
		docID:   docID,
		byLabel: map[string][]string{},
		byKey:   map[string][]string{},
		keySets: map[string]map[string]struct{}{},
		annByID: map[string]anns.TextAnnotation{},
	}
}

// Len returns the number of annotations in the container.
func (c *AnnotationContainer) Len() int {
	return len(c.annIDs)
}

// Add attaches an annotation to the document. It fails with a duplicate
// error if an annotation with the same uid is already present; no index is
// touched in that case.
func (c *AnnotationContainer) Add(ann anns.TextAnnotation) error {
	base := ann.Common()
	if _, ok := c.annByID[base.UID]; ok {
		return &errors.DuplicateError{Resource: "annotation", ID: base.UID}
	}
	c.annIDs = append(c.annIDs, base.UID)
	c.annByID[base.UID] = ann
	c.byLabel[base.Label] = append(c.byLabel[base.Label], base.UID)
	for key := range base.Keys {
		c.byKey[key] = append(c.byKey[key], base.UID)
		set, ok := c.keySets[key]
		if !ok {
			set = map[string]struct{}{}
			c.keySets[key] = set
		}
		set[base.UID] = struct{}{}
	}
	return nil
}

// Get returns the annotations matching the given label and pipeline key, in
// insertion order. Empty strings disable the corresponding filter; with
// both empty the full list is returned. Unknown labels or keys yield an
// empty result, never an error.
func (c *AnnotationContainer) Get(label, key string) []anns.TextAnnotation {
	uids := c.GetIDs(label, key)
	out := make([]anns.TextAnnotation, len(uids))
	for i, uid := range uids {
		out[i] = c.annByID[uid]
	}
	return out
}

// GetIDs returns the identifiers of the annotations matching the given
// label and pipeline key, in insertion order. Provided so subclassing
// containers can layer additional filtering.
func (c *AnnotationContainer) GetIDs(label, key string) []string {
	var uids []string
	switch {
	case label == "" && key == "":
		uids = c.annIDs
	case key == "":
		uids = c.byLabel[label]
	case label == "":
		uids = c.byKey[key]
	default:
		set := c.keySets[key]
		for _, uid := range c.byLabel[label] {
			if _, ok := set[uid]; ok {
				uids = append(uids, uid)
			}
		}
		return uids
	}
	out := make([]string, len(uids))
	copy(out, uids)
	return out
}

// GetByID returns the annotation with the given identifier, or a not-found
// error, which is distinct from the empty result of a label or key filter.
func (c *AnnotationContainer) GetByID(uid string) (anns.TextAnnotation, error) {
	ann, ok := c.annByID[uid]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "annotation", ID: uid}
	}
	return ann, nil
}
