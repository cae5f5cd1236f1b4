// Package textops provides reference pipeline operations working on text
// segments: regular-expression entity matching and sentence splitting.
package textops

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/errors"
	"github.com/stannote/stannote/core/span"
)

// RegexpRule describes one pattern matched by RegexpMatcher.
type RegexpRule struct {
	// ID identifies the rule in the produced entity metadata.
	ID string `yaml:"id" json:"id"`
	// Label is the label given to produced entities.
	Label string `yaml:"label" json:"label"`
	// Regexp is the pattern to match.
	Regexp string `yaml:"regexp" json:"regexp"`
	// RegexpExclude suppresses matches in segments also matching this
	// pattern, when set.
	RegexpExclude string `yaml:"regexp_exclude,omitempty" json:"regexp_exclude,omitempty"`
	// Version tags the rule revision in the produced entity metadata.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
	// CaseSensitive disables the default case-insensitive matching.
	CaseSensitive bool `yaml:"case_sensitive,omitempty" json:"case_sensitive,omitempty"`
}

// LoadRules reads regexp rules from a YAML or JSON file, selected by
// extension.
func LoadRules(path string) ([]RegexpRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rules []RegexpRule
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &rules); err != nil {
			return nil, &errors.ValidationError{Message: "malformed rule file", Err: err}
		}
	default:
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, &errors.ValidationError{Message: "malformed rule file", Err: err}
		}
	}
	return rules, nil
}

type compiledRule struct {
	rule    RegexpRule
	pattern *regexp.Regexp
	exclude *regexp.Regexp
}

// RegexpMatcher produces entities from segments matching a set of rules.
type RegexpMatcher struct {
	rules []compiledRule
}

// NewRegexpMatcher compiles the given rules into a matcher.
func NewRegexpMatcher(rules []RegexpRule) (*RegexpMatcher, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		expr := rule.Regexp
		if !rule.CaseSensitive {
			expr = "(?i)" + expr
		}
		pattern, err := regexp.Compile(expr)
		if err != nil {
			return nil, &errors.ValidationError{Field: "regexp", Value: rule.Regexp, Message: "invalid pattern", Err: err}
		}
		cr := compiledRule{rule: rule, pattern: pattern}
		if rule.RegexpExclude != "" {
			cr.exclude, err = regexp.Compile(rule.RegexpExclude)
			if err != nil {
				return nil, &errors.ValidationError{Field: "regexp_exclude", Value: rule.RegexpExclude, Message: "invalid pattern", Err: err}
			}
		}
		compiled = append(compiled, cr)
	}
	return &RegexpMatcher{rules: compiled}, nil
}

// Run matches every rule against every input segment and returns one batch
// containing the produced entities. Entity text and spans are extracted
// from the segment, so they stay aligned with the document coordinates.
func (m *RegexpMatcher) Run(inputs [][]*anns.Segment) ([][]anns.TextAnnotation, error) {
	var out []anns.TextAnnotation
	for _, segments := range inputs {
		for _, seg := range segments {
			for _, cr := range m.rules {
				if cr.exclude != nil && cr.exclude.MatchString(seg.Text) {
					continue
				}
				for _, loc := range cr.pattern.FindAllStringIndex(seg.Text, -1) {
					text, spans, err := span.Extract(seg.Text, seg.Spans, []span.Range{{Start: loc[0], End: loc[1]}})
					if err != nil {
						return nil, err
					}
					entity := anns.NewEntity(cr.rule.Label, text, spans, anns.WithMetadata(map[string]any{
						"rule_id": cr.rule.ID,
						"version": cr.rule.Version,
					}))
					out = append(out, entity)
				}
			}
		}
	}
	return [][]anns.TextAnnotation{out}, nil
}
