package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/google/renameio/v2"
	toml "github.com/pelletier/go-toml/v2"
)

// GenerateConfigContent returns the embedded defaults with every value
// commented out, suitable as a starting user config file
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultsContent())
}

// UserConfigPath returns the TOML config location under XDG_CONFIG_HOME,
// creating its parent directory
func UserConfigPath() (string, error) {
	p, err := xdg.ConfigFile(filepath.Join(AppDir, "config.toml"))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrDirCreate, "cannot create config directory")
	}
	return p, nil
}

// WriteUserConfig writes the commented defaults to path. An existing file is
// never replaced.
func WriteUserConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "config file %s already exists", path).
			WithDetail("path", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(path))
	}
	if err := renameio.WriteFile(path, []byte(GenerateConfigContent()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path).
			WithDetail("path", path)
	}
	return nil
}

// Dump encodes the effective configuration as TOML
func Dump(cfg *Config) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(dumpable(cfg)); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.String(), nil
}

// dumpable swaps the timeout for its string form so the dump parses back
func dumpable(cfg *Config) interface{} {
	type packager struct {
		Python      string   `toml:"python"`
		SetupScript string   `toml:"setup_script"`
		Args        []string `toml:"args"`
		ProjectEnv  string   `toml:"project_env"`
		Timeout     string   `toml:"timeout"`
	}
	p := cfg.Packager
	return struct {
		Staging  Staging  `toml:"staging"`
		Layout   Layout   `toml:"layout"`
		Headers  Headers  `toml:"headers"`
		Package  Package  `toml:"package"`
		Patchelf Patchelf `toml:"patchelf"`
		Packager packager `toml:"packager"`
		Service  Service  `toml:"service"`
	}{
		Staging:  cfg.Staging,
		Layout:   cfg.Layout,
		Headers:  cfg.Headers,
		Package:  cfg.Package,
		Patchelf: cfg.Patchelf,
		Packager: packager{
			Python:      p.Python,
			SetupScript: p.SetupScript,
			Args:        p.Args,
			ProjectEnv:  p.ProjectEnv,
			Timeout:     p.Timeout.String(),
		},
		Service: cfg.Service,
	}
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep table headers (e.g., [staging]) as-is. Array entries such as
		// [[layout.headers.rules]] are commented out; an empty entry would
		// replace the whole default list.
		if strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		// Comment out configuration value lines
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
