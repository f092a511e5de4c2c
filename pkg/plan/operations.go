package plan

import (
	"path"

	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/rules"
	"github.com/arthur-debert/wheelstage/pkg/types"
)

// OpKind names what an Operation does to the staging tree
type OpKind string

const (
	// OpCopy copies one artifact to its destination
	OpCopy OpKind = "copy"
	// OpMarker creates an empty package marker unless one exists
	OpMarker OpKind = "marker"
	// OpLocalConfig assembles the local python configuration headers
	OpLocalConfig OpKind = "local-config"
	// OpMirror duplicates a staged tree
	OpMirror OpKind = "mirror"
	// OpMove relocates a staged file
	OpMove OpKind = "move"
)

// Phase orders operations within a category: every placement runs before
// any finishing step
type Phase int

const (
	PhasePlace Phase = iota
	PhaseFinish
)

// Phase returns the phase the operation belongs to
func (k OpKind) Phase() Phase {
	switch k {
	case OpCopy, OpMarker:
		return PhasePlace
	default:
		return PhaseFinish
	}
}

// Operation is one staging step. Target, and Source for everything but a
// copy, are slash-separated and relative to the staging root; a copy's
// Source is the artifact path as given.
type Operation struct {
	Kind     OpKind         `json:"kind"`
	Category types.Category `json:"category"`
	Source   string         `json:"source,omitempty"`
	Target   string         `json:"target"`
	// Optional operations are skipped when their source is absent
	Optional bool `json:"optional,omitempty"`
}

// OperationsFor returns the operations of one category in the given phase
func (p *Plan) OperationsFor(c types.Category, phase Phase) []Operation {
	var out []Operation
	for _, op := range p.Operations {
		if op.Category == c && op.Kind.Phase() == phase {
			out = append(out, op)
		}
	}
	return out
}

// categoryOperations derives the staging steps of one category from its
// entries. When several artifacts share a destination only the last one is
// copied.
func categoryOperations(cfg *config.Config, cat types.Category, entries []Entry, inputs int) []Operation {
	layout := cfg.Layout.For(cat)

	last := make(map[string]int)
	for i, e := range entries {
		if e.Status == rules.StatusPlaced && !e.Duplicate {
			last[e.Destination] = i
		}
	}

	var ops []Operation
	markers := make(map[string]bool)
	for i, e := range entries {
		if e.Status != rules.StatusPlaced || e.Duplicate || last[e.Destination] != i {
			continue
		}
		ops = append(ops, Operation{Kind: OpCopy, Category: cat, Source: e.Source, Target: e.Destination})

		if !layout.CreateInit {
			continue
		}
		marker := path.Join(path.Dir(e.Destination), cfg.Package.Marker)
		if !markers[marker] {
			markers[marker] = true
			ops = append(ops, Operation{Kind: OpMarker, Category: cat, Target: marker})
		}
	}

	// Finishing steps complete a tree the category populated, so a category
	// given no artifacts has none.
	if inputs == 0 {
		return ops
	}

	if cat == types.CategoryHeaders {
		if dir := cfg.Headers.LocalConfig.Dir; dir != "" {
			ops = append(ops, Operation{Kind: OpLocalConfig, Category: cat, Target: path.Join(layout.Root, dir)})
		}
		for _, m := range cfg.Headers.Mirrors {
			ops = append(ops, Operation{
				Kind:     OpMirror,
				Category: cat,
				Source:   path.Join(layout.Root, m.From),
				Target:   path.Join(layout.Root, m.To),
				Optional: m.Optional,
			})
		}
	}

	for _, m := range layout.Moves {
		ops = append(ops, Operation{
			Kind:     OpMove,
			Category: cat,
			Source:   path.Join(layout.Root, m.From),
			Target:   path.Join(layout.Root, m.To),
		})
	}
	return ops
}
