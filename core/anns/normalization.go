package anns

import (
	"fmt"

	"github.com/stannote/stannote/core/dictconv"
)

// NormalizationClassName is the dict serialization discriminator for
// EntityNormalization.
const NormalizationClassName = "EntityNormalization"

// EntityNormalization links an entity to an identifier in a knowledge base.
// Used as the value of a normalization attribute. When both KBName and KBID
// are empty the normalization carries only a normalized term with no
// knowledge-base link.
type EntityNormalization struct {
	// KBName is the knowledge base name (ex: "icd").
	KBName string
	// KBID is the identifier in the knowledge base the entity is linked to.
	KBID string
	// KBVersion is the optional version of the knowledge base.
	KBVersion string
	// Term is the normalized version of the entity text.
	Term string
	// Score is an optional confidence of the link; nil when not set.
	Score *float64
}

// SimpleRepresentation returns a compact human-readable form: "kb:id" for a
// knowledge-base link, or the bare term otherwise.
func (n EntityNormalization) SimpleRepresentation() string {
	if n.KBName == "" && n.KBID == "" {
		return n.Term
	}
	return fmt.Sprintf("%s:%s", n.KBName, n.KBID)
}

// ToDict serializes the normalization.
func (n EntityNormalization) ToDict() (dictconv.Dict, error) {
	var score any
	if n.Score != nil {
		score = *n.Score
	}
	d := dictconv.Dict{
		"kb_name":    nilIfEmpty(n.KBName),
		"kb_id":      nilIfEmpty(n.KBID),
		"kb_version": nilIfEmpty(n.KBVersion),
		"term":       nilIfEmpty(n.Term),
		"score":      score,
	}
	if err := dictconv.AddClassName(d, NormalizationClassName); err != nil {
		return nil, err
	}
	return d, nil
}

// NormalizationFromDict rebuilds an EntityNormalization from a data dict
// produced by ToDict.
func NormalizationFromDict(d dictconv.Dict) (EntityNormalization, error) {
	if err := dictconv.CheckClass(d, NormalizationClassName); err != nil {
		return EntityNormalization{}, err
	}
	var n EntityNormalization
	var err error
	if n.KBName, err = dictconv.OptString(d, "kb_name"); err != nil {
		return EntityNormalization{}, err
	}
	if n.KBID, err = dictconv.OptString(d, "kb_id"); err != nil {
		return EntityNormalization{}, err
	}
	if n.KBVersion, err = dictconv.OptString(d, "kb_version"); err != nil {
		return EntityNormalization{}, err
	}
	if n.Term, err = dictconv.OptString(d, "term"); err != nil {
		return EntityNormalization{}, err
	}
	score, ok, err := dictconv.OptFloat(d, "score")
	if err != nil {
		return EntityNormalization{}, err
	}
	if ok {
		n.Score = &score
	}
	return n, nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func init() {
	dictconv.Register(NormalizationClassName, func(d dictconv.Dict) (any, error) {
		return NormalizationFromDict(d)
	})
}
