// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/plan"
	"github.com/arthur-debert/wheelstage/pkg/rearrange"
	"github.com/arthur-debert/wheelstage/pkg/rules"
	"github.com/arthur-debert/wheelstage/pkg/types"
	"github.com/arthur-debert/wheelstage/pkg/ui/styles"
	"github.com/arthur-debert/wheelstage/pkg/ui/text"
	"github.com/arthur-debert/wheelstage/pkg/wheel"
	"github.com/pterm/pterm"
)

// Renderer draws tables with pterm and colors them with the shared styles
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderResult renders any result type with rich terminal formatting
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
	var out strings.Builder
	out.WriteString(styles.Render("Header", "Staging plan") + "\n")

	for _, cat := range types.Categories {
		entries := p.ByCategory(cat)
		if len(entries) == 0 {
			continue
		}
		data := pterm.TableData{{"Status", "Artifact", "Destination"}}
		for _, e := range entries {
			data = append(data, []string{
				statusCell(e),
				e.Source,
				targetCell(e),
			})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		out.WriteString(styles.Render("SubHeader", string(cat)) + "\n")
		out.WriteString(table + "\n\n")
	}

	out.WriteString(styles.Render("Summary", p.Summary.String()) + "\n")
	_, err := io.WriteString(r.output, out.String())
	return err
}

func (r *Renderer) renderReport(rep *rearrange.Report) error {
	table, err := reportTable(rep)
	if err != nil {
		return err
	}
	_, err = io.WriteString(r.output, table+"\n")
	return err
}

func (r *Renderer) renderBuild(res *wheel.Result) error {
	var out strings.Builder
	out.WriteString(styles.Render("Header", "Wheel built") + "\n")
	if res.Report != nil {
		table, err := reportTable(res.Report)
		if err != nil {
			return err
		}
		out.WriteString(table + "\n\n")
	}
	out.WriteString(fmt.Sprintf("%s %s\n",
		styles.Render("Success", "Output wheel file is in:"),
		styles.Render("FilePath", res.DistDir)))
	_, err := io.WriteString(r.output, out.String())
	return err
}

func reportTable(rep *rearrange.Report) (string, error) {
	data := pterm.TableData{{"Category", "Placed", "Excluded", "Skipped", "Dropped", "Duplicates", "Moved"}}
	for _, c := range rep.Categories {
		data = append(data, []string{
			string(c.Category),
			strconv.Itoa(c.Placed),
			strconv.Itoa(c.Excluded),
			strconv.Itoa(c.Skipped),
			strconv.Itoa(c.Dropped),
			strconv.Itoa(c.Duplicates),
			strconv.Itoa(c.Moved),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func statusCell(e plan.Entry) string {
	if e.Duplicate {
		return styles.Render("Duplicate", "duplicate")
	}
	switch e.Status {
	case rules.StatusPlaced:
		return styles.Render("Placed", string(e.Status))
	case rules.StatusExcluded:
		return styles.Render("Excluded", string(e.Status))
	case rules.StatusSkipped:
		return styles.Render("Skipped", string(e.Status))
	default:
		return styles.Render("Dropped", string(e.Status))
	}
}

func targetCell(e plan.Entry) string {
	if e.Status == rules.StatusPlaced {
		return styles.Render("FilePath", e.Destination)
	}
	return styles.Render("Muted", text.Target(e))
}

// RenderError renders an error with its code and details
func (r *Renderer) RenderError(err error) error {
	var out strings.Builder
	out.WriteString(styles.Render("Error", "Error:") + " " + err.Error() + "\n")
	// Tool output is kept in the details of external tool failures
	if toolOutput, ok := errors.GetErrorDetails(err)["output"].(string); ok && toolOutput != "" {
		out.WriteString(styles.Render("Muted", toolOutput) + "\n")
	}
	_, werr := io.WriteString(r.output, out.String())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, styles.Render("Info", msg))
	return err
}
