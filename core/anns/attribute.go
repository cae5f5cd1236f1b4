// Package anns defines the annotation data model: attributes, text-bound
// segments, entities with knowledge-base normalizations, and relations
// between entities.
package anns

import (
	"github.com/stannote/stannote/core/dictconv"
	"github.com/stannote/stannote/internal/ident"
)

// AttributeClassName is the dict serialization discriminator for Attribute.
const AttributeClassName = "Attribute"

// Attribute decorates an annotation with a label/value pair. The value is
// opaque to the core: it can be any JSON-compatible value, or a type
// implementing the dict protocol (such as EntityNormalization), in which
// case it is nested with its own discriminator.
type Attribute struct {
	UID      string
	Label    string
	Value    any
	Metadata map[string]any
}

// NewAttribute creates an attribute with a fresh identifier.
func NewAttribute(label string, value any) *Attribute {
	return &Attribute{
		UID:      ident.New(),
		Label:    label,
		Value:    value,
		Metadata: map[string]any{},
	}
}

// ToDict serializes the attribute. Convertible values are nested as tagged
// data dicts so they can be rebuilt polymorphically.
func (a *Attribute) ToDict() (dictconv.Dict, error) {
	value := a.Value
	if conv, ok := a.Value.(dictconv.Convertible); ok {
		nested, err := conv.ToDict()
		if err != nil {
			return nil, err
		}
		value = nested
	}
	d := dictconv.Dict{
		"uid":      a.UID,
		"label":    a.Label,
		"value":    value,
		"metadata": a.Metadata,
	}
	if err := dictconv.AddClassName(d, AttributeClassName); err != nil {
		return nil, err
	}
	return d, nil
}

// AttributeFromDict rebuilds an Attribute from a data dict produced by
// ToDict.
func AttributeFromDict(d dictconv.Dict) (*Attribute, error) {
	if err := dictconv.CheckClass(d, AttributeClassName); err != nil {
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
	metadata, err := dictconv.Metadata(d, "metadata")
	if err != nil {
		return nil, err
	}
	value := d["value"]
	if dictconv.IsDict(value) {
		nested, err := dictconv.SubDict(value)
		if err != nil {
			return nil, err
		}
		value, err = dictconv.Decode(nested)
		if err != nil {
			return nil, err
		}
	}
	return &Attribute{UID: uid, Label: label, Value: value, Metadata: metadata}, nil
}

func init() {
	dictconv.Register(AttributeClassName, func(d dictconv.Dict) (any, error) {
		return AttributeFromDict(d)
	})
}
