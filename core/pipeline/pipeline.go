// Package pipeline wires processing operations together through input and
// output keys.
//
// A pipeline is a list of steps executed in order. Each step reads the
// document annotations tagged with its input keys (or carrying a label
// associated to one of those keys), hands them to its operation, tags
// whatever the operation produces with the step's output keys and adds it
// back to the document. Keys are the only thing the pipeline machinery
// writes on annotations; the core never touches them itself.
package pipeline

import (
	"github.com/stannote/stannote/core/anns"
	"github.com/stannote/stannote/core/document"
	"github.com/stannote/stannote/core/errors"
	"github.com/stannote/stannote/internal/logging"
)

// Operation is a processing stage polymorphic over the pipeline collaborator
// shapes: it may attach attributes to its inputs in place, produce new
// segments, or produce new entities. It receives one batch of segments per
// input key and returns one batch of annotations per output key (none when
// it only decorates its inputs).
type Operation interface {
	Run(inputs [][]*anns.Segment) ([][]anns.TextAnnotation, error)
}

// Step describes how an operation is connected to the rest of a pipeline.
type Step struct {
	// Operation is the operation to run at this step.
	Operation Operation
	// InputKeys name, for each operation input, the key used to select the
	// annotations fed to it.
	InputKeys []string
	// OutputKeys name, for each operation output, the key stamped on the
	// produced annotations. Empty when the operation produces nothing.
	OutputKeys []string
}

// Pipeline is an ordered list of steps applied to a document. Steps are
// executed in the order they were added; there is no dependency detection.
type Pipeline struct {
	steps       []Step
	labelsByKey map[string][]string
}

// New creates an empty pipeline.
func New() *Pipeline {
	return &Pipeline{labelsByKey: map[string][]string{}}
}

// AddStep appends a step to the pipeline. Add steps producing data before
// the steps consuming it.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AssociateLabel feeds pre-existing document annotations into the pipeline:
// steps using the given input key will also receive the document
// annotations carrying the given label.
func (p *Pipeline) AssociateLabel(label, key string) {
	p.labelsByKey[key] = append(p.labelsByKey[key], label)
}

// Run executes all steps against a document. Every annotation produced by
// an operation is tagged with the step's output key and added to the
// document.
func (p *Pipeline) Run(doc *document.TextDocument) error {
	for i, step := range p.steps {
		inputs := make([][]*anns.Segment, len(step.InputKeys))
		for j, key := range step.InputKeys {
			inputs[j] = p.collectInputs(doc, key)
		}

		outputs, err := step.Operation.Run(inputs)
		if err != nil {
			return err
		}
		if len(outputs) != len(step.OutputKeys) {
			return errors.NewValidationf("step %d produced %d outputs, expected %d", i, len(outputs), len(step.OutputKeys))
		}

		for j, key := range step.OutputKeys {
			for _, ann := range outputs[j] {
				ann.Common().AddKey(key)
				if err := doc.AddAnnotation(ann); err != nil {
					return err
				}
			}
			logging.Debug("pipeline step produced annotations", "step", i, "key", key, "count", len(outputs[j]))
		}
	}
	return nil
}

func (p *Pipeline) collectInputs(doc *document.TextDocument, key string) []*anns.Segment {
	segments := doc.Anns.Segments("", key)
	for _, label := range p.labelsByKey[key] {
		segments = append(segments, doc.Anns.Segments(label, "")...)
	}
	// the raw segment is reachable through its label association only
	if raw := doc.RawSegment(); raw != nil {
		for _, label := range p.labelsByKey[key] {
			if label == raw.Label {
				segments = append(segments, raw)
			}
		}
	}
	return segments
}
