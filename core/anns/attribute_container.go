package anns

import (
	"github.com/stannote/stannote/core/errors"
)

// AttributeContainer manages the attributes attached to one annotation.
// Insertion order is preserved and a by-label index supports filtered
// retrieval. Each annotation owns its container exclusively.
type AttributeContainer struct {
	annID    string
	attrIDs  []string
	byLabel  map[string][]string
	attrByID map[string]*Attribute
}

// NewAttributeContainer creates an empty container for the annotation with
// the given identifier.
func NewAttributeContainer(annID string) *AttributeContainer {
	return &AttributeContainer{
		annID:    annID,
		byLabel:  map[string][]string{},
		attrByID: map[string]*Attribute{},
	}
}

// Len returns the number of attributes in the container.
func (c *AttributeContainer) Len() int {
	return len(c.attrIDs)
}

// Add attaches an attribute to the annotation. It fails with a duplicate
// error if an attribute with the same uid is already attached; the container
// is left unchanged in that case.
func (c *AttributeContainer) Add(attr *Attribute) error {
	if _, ok := c.attrByID[attr.UID]; ok {
		return &errors.DuplicateError{Resource: "attribute", ID: attr.UID}
	}
	c.attrIDs = append(c.attrIDs, attr.UID)
	c.attrByID[attr.UID] = attr
	c.byLabel[attr.Label] = append(c.byLabel[attr.Label], attr.UID)
	return nil
}

// Get returns the attributes matching the given label in insertion order.
// An empty label returns all attributes. An unknown label yields an empty
// result, never an error.
func (c *AttributeContainer) Get(label string) []*Attribute {
	var uids []string
	if label == "" {
		uids = c.attrIDs
	} else {
		uids = c.byLabel[label]
	}
	attrs := make([]*Attribute, len(uids))
	for i, uid := range uids {
		attrs[i] = c.attrByID[uid]
	}
	return attrs
}

// GetByID returns the attribute with the given identifier.
func (c *AttributeContainer) GetByID(uid string) (*Attribute, error) {
	attr, ok := c.attrByID[uid]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "attribute", ID: uid}
	}
	return attr, nil
}
