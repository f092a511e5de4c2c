package ui_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected ui.Format
	}{
		{"", ui.FormatAuto},
		{"auto", ui.FormatAuto},
		{"term", ui.FormatTerminal},
		{"Terminal", ui.FormatTerminal},
		{"text", ui.FormatText},
		{"plain", ui.FormatText},
		{" json ", ui.FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ui.ParseFormat("yaml")
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "auto, term, text, json")
}

func TestFormatRoundTrip(t *testing.T) {
	for _, name := range ui.FormatNames {
		f, err := ui.ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}
	assert.Equal(t, "unknown", ui.Format(99).String())
}

func TestFormatFlagValue(t *testing.T) {
	var f ui.Format
	require.NoError(t, f.Set("json"))
	assert.Equal(t, ui.FormatJSON, f)
	assert.Equal(t, "format", f.Type())

	assert.Error(t, f.Set("xml"))
	assert.Equal(t, ui.FormatJSON, f)
}

func TestDetectFormat(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	assert.Equal(t, ui.FormatText, ui.DetectFormat(file))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, ui.FormatText, ui.DetectFormat(file))
}
