// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/arthur-debert/wheelstage/pkg/plan"
	"github.com/arthur-debert/wheelstage/pkg/rearrange"
	"github.com/arthur-debert/wheelstage/pkg/rules"
	"github.com/arthur-debert/wheelstage/pkg/wheel"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders plans and build results as aligned columns
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *plan.Plan:
		return r.renderPlan(v)
	case *wheel.Result:
		return r.renderBuild(v)
	case *rearrange.Report:
		return r.renderReport(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderPlan(p *plan.Plan) error {
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	for _, e := range p.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Category, e.Status, e.Source, Target(e))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.output, p.Summary.String())
	return err
}

func (r *Renderer) renderReport(rep *rearrange.Report) error {
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "category\tplaced\texcluded\tskipped\tdropped\tduplicates\tmoved")
	for _, c := range rep.Categories {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			c.Category, c.Placed, c.Excluded, c.Skipped, c.Dropped, c.Duplicates, c.Moved)
	}
	return tw.Flush()
}

func (r *Renderer) renderBuild(res *wheel.Result) error {
	if res.Report != nil {
		if err := r.renderReport(res.Report); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(r.output, "Output wheel file is in: %s\n", res.DistDir)
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// Target describes where a plan entry goes: its destination when placed,
// the reason it was left out otherwise
func Target(e plan.Entry) string {
	if e.Status == rules.StatusPlaced {
		return e.Destination
	}
	if e.Reason != "" {
		return "(" + e.Reason + ")"
	}
	return ""
}
