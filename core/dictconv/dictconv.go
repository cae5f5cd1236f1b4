// Package dictconv implements the discriminator-tagged dict serialization
// protocol used to persist annotations, spans and attribute values.
//
// Every convertible type produces a flat map carrying a "_class_name" entry
// naming the type that produced it. Decoding goes through a closed registry
// mapping each class name to a decoder function, so unknown discriminators
// fail loudly instead of being skipped.
package dictconv

import (
	"fmt"
	"sort"

	"github.com/stannote/stannote/core/errors"
)

// ClassNameKey is the discriminator key added to every data dict.
const ClassNameKey = "_class_name"

// Dict is a serialized representation of a convertible value.
type Dict = map[string]any

// Convertible is implemented by all types supporting conversion to a data
// dict and re-instantiation from a data dict.
type Convertible interface {
	ToDict() (Dict, error)
}

// DecodeFunc rebuilds a value from a data dict produced by its ToDict method.
type DecodeFunc func(Dict) (any, error)

var decoders = map[string]DecodeFunc{}

// Register adds a decoder for a class name. It panics if the name is already
// taken, since registration happens at package init time and a collision is a
// programming error.
func Register(name string, decode DecodeFunc) {
	if _, ok := decoders[name]; ok {
		panic(fmt.Sprintf("dictconv: decoder already registered for class name %q", name))
	}
	decoders[name] = decode
}

// RegisteredNames returns the sorted class names with registered decoders.
func RegisteredNames() []string {
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddClassName tags a data dict with the class name of the value that
// produced it. It fails if the dict already carries a discriminator.
func AddClassName(d Dict, name string) error {
	if existing, ok := d[ClassNameKey]; ok {
		return errors.NewValidationf("data dict already contains %s entry %v", ClassNameKey, existing)
	}
	d[ClassNameKey] = name
	return nil
}

// ClassName extracts the discriminator from a data dict.
func ClassName(d Dict) (string, error) {
	v, ok := d[ClassNameKey]
	if !ok {
		return "", errors.NewValidationf("data dict has no %s entry; it was not produced by a ToDict method", ClassNameKey)
	}
	name, ok := v.(string)
	if !ok {
		return "", errors.NewValidationf("data dict %s entry is not a string: %v", ClassNameKey, v)
	}
	return name, nil
}

// CheckClass verifies that the discriminator in a data dict matches the
// expected class name, returning a type-mismatch error otherwise.
func CheckClass(d Dict, want string) error {
	got, err := ClassName(d)
	if err != nil {
		return err
	}
	if got != want {
		return &errors.TypeMismatchError{Want: want, Got: got}
	}
	return nil
}

// Decode rebuilds a value from a data dict by dispatching on its
// discriminator. Unknown class names are a validation error.
func Decode(d Dict) (any, error) {
	name, err := ClassName(d)
	if err != nil {
		return nil, err
	}
	decode, ok := decoders[name]
	if !ok {
		return nil, errors.NewValidationf("no decoder registered for class name %q", name)
	}
	return decode(d)
}

// IsDict reports whether a value is a data dict carrying a discriminator,
// meaning it can be passed to Decode.
func IsDict(v any) bool {
	d, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = d[ClassNameKey]
	return ok
}
