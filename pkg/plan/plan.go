package plan

import (
	"fmt"
	"path"

	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/rules"
	"github.com/arthur-debert/wheelstage/pkg/types"
)

// Entry is the resolution of one artifact
type Entry struct {
	Category    types.Category `json:"category"`
	Source      string         `json:"source"`
	Destination string         `json:"destination,omitempty"`
	Status      rules.Status   `json:"status"`
	Rule        *rules.Rule    `json:"rule,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	// Duplicate marks a source already listed earlier in the same category
	Duplicate bool `json:"duplicate,omitempty"`
}

// Summary counts entries per status
type Summary struct {
	Total      int `json:"total"`
	Placed     int `json:"placed"`
	Excluded   int `json:"excluded"`
	Skipped    int `json:"skipped"`
	Dropped    int `json:"dropped"`
	Duplicates int `json:"duplicates"`
}

// Plan lists the entries in staging order together with the operations
// that stage them
type Plan struct {
	Entries    []Entry     `json:"entries"`
	Operations []Operation `json:"operations"`
	Summary    Summary     `json:"summary"`
}

// Build resolves every input through the layout of its category and derives
// the staging operations. An artifact that would escape the staging
// directory fails the whole plan.
func Build(cfg *config.Config, in types.Inputs) (*Plan, error) {
	p := &Plan{}
	for _, cat := range types.Categories {
		layout := cfg.Layout.For(cat)
		inputs := in.List(cat)
		first := len(p.Entries)
		seen := make(map[string]bool)
		for _, src := range inputs {
			e := Entry{Category: cat, Source: src}
			if seen[src] {
				e.Duplicate = true
				e.Status = rules.StatusSkipped
				e.Reason = "duplicate"
				p.Summary.Duplicates++
				p.add(e)
				continue
			}
			seen[src] = true

			res, err := layout.Resolve(src)
			if err != nil {
				return nil, err
			}
			e.Status = res.Status
			e.Destination = res.Dest
			e.Rule = res.Rule
			e.Reason = res.Reason
			p.count(e.Status)
			p.add(e)
		}
		p.Operations = append(p.Operations, categoryOperations(cfg, cat, p.Entries[first:], len(inputs))...)
	}
	return p, nil
}

func (p *Plan) add(e Entry) {
	p.Entries = append(p.Entries, e)
	p.Summary.Total++
}

func (p *Plan) count(s rules.Status) {
	switch s {
	case rules.StatusPlaced:
		p.Summary.Placed++
	case rules.StatusExcluded:
		p.Summary.Excluded++
	case rules.StatusSkipped:
		p.Summary.Skipped++
	case rules.StatusDropped:
		p.Summary.Dropped++
	}
}

// ByCategory returns the entries of one category
func (p *Plan) ByCategory(c types.Category) []Entry {
	var out []Entry
	for _, e := range p.Entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Destinations returns the placed destinations, with the ones written more
// than once listed in Collisions
func (p *Plan) Destinations() (dests []string, collisions []string) {
	count := make(map[string]int)
	for _, e := range p.Entries {
		if e.Status != rules.StatusPlaced || e.Duplicate {
			continue
		}
		d := path.Clean(e.Destination)
		if count[d] == 0 {
			dests = append(dests, d)
		}
		count[d]++
		if count[d] == 2 {
			collisions = append(collisions, d)
		}
	}
	return dests, collisions
}

// String formats the summary as a single line
func (s Summary) String() string {
	return fmt.Sprintf("%d artifacts: %d placed, %d excluded, %d skipped, %d dropped, %d duplicates",
		s.Total, s.Placed, s.Excluded, s.Skipped, s.Dropped, s.Duplicates)
}
