package ui

import (
	"os"
	"strings"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how results are written
type Format int

const (
	// FormatAuto picks terminal or text depending on the output
	FormatAuto Format = iota
	// FormatTerminal renders tables with colors
	FormatTerminal
	// FormatText renders aligned plain text
	FormatText
	// FormatJSON renders machine-readable JSON
	FormatJSON
)

// FormatNames lists the accepted --format values
var FormatNames = []string{"auto", "term", "text", "json"}

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat parses a --format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput,
			"unknown format %q, expected one of %s", s, strings.Join(FormatNames, ", "))
	}
}

// Set implements pflag.Value
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value
func (f *Format) Type() string {
	return "format"
}

// DetectFormat chooses terminal output only for color-capable terminals.
// NO_COLOR, pipes and redirects all get plain text.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}
	if termenv.NewOutput(output).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
