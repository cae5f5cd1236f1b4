// Package ident generates the identifiers used for documents, annotations
// and attributes.
package ident

import (
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// New returns a fresh random identifier in UUID form.
func New() string {
	return uuid.New().String()
}

// Deterministic derives an identifier from a reference string. The same
// reference always yields the same identifier, which keeps auto-generated
// items (such as a document's raw segment) stable across runs.
func Deterministic(ref string) string {
	sum := blake3.Sum256([]byte(ref))
	var u uuid.UUID
	copy(u[:], sum[:16])
	// stamp version 4 / RFC 4122 variant bits so the result is a well-formed UUID
	u[6] = (u[6] & 0x0f) | 0x40
	u[8] = (u[8] & 0x3f) | 0x80
	return u.String()
}
