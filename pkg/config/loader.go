package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/types"
	"github.com/arthur-debert/wheelstage/pkg/utils"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "WHEELSTAGE_"

// AppDir is the directory name below XDG_CONFIG_HOME
const AppDir = "wheelstage"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultsContent returns the embedded defaults as written
func DefaultsContent() string {
	return string(defaultConfig)
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Options select the user layers on top of the embedded defaults
type Options struct {
	// File is an explicit config file; empty means search the XDG config dirs
	File string
	// SkipUserFile disables the XDG search when File is empty
	SkipUserFile bool
	// Overrides are dotted keys applied last, e.g. "packager.python"
	Overrides map[string]interface{}
}

// Load builds the effective configuration
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	path := utils.ExpandPath(opts.File)
	if path == "" && !opts.SkipUserFile {
		path = findUserConfig()
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path).
				WithDetail("path", path)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded user config")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	cfg.Staging.Dir = utils.ExpandPath(cfg.Staging.Dir)
	cfg.Service.UnitDir = utils.ExpandPath(cfg.Service.UnitDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the embedded defaults without any user layer
func Default() *Config {
	cfg, err := Load(Options{SkipUserFile: true})
	if err != nil {
		panic(err)
	}
	return cfg
}

// envKey turns WHEELSTAGE_PACKAGER__SETUP_SCRIPT into packager.setup_script
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config file type: %s", path).
			WithDetail("path", path)
	}
}

func findUserConfig() string {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		if p, err := xdg.SearchConfigFile(filepath.Join(AppDir, name)); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks every layout and the required tool settings
func (c *Config) Validate() error {
	for _, cat := range types.Categories {
		if err := c.Layout.For(cat).Validate(); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "invalid %s layout", cat)
		}
	}
	if c.Staging.Prefix == "" {
		return errors.New(errors.ErrConfigValid, "staging.prefix must not be empty")
	}
	if c.Package.Root == "" {
		return errors.New(errors.ErrConfigValid, "package.root must not be empty")
	}
	if c.Package.Marker == "" {
		return errors.New(errors.ErrConfigValid, "package.marker must not be empty")
	}
	for i, r := range c.Package.Imports.Rewrites {
		if r.From == "" {
			return errors.Newf(errors.ErrConfigValid, "import rewrite %d has an empty from", i)
		}
	}
	for i, m := range c.Headers.Mirrors {
		if m.From == "" || m.To == "" {
			return errors.Newf(errors.ErrConfigValid, "header mirror %d needs both from and to", i)
		}
	}
	if c.Packager.Python == "" || c.Packager.SetupScript == "" {
		return errors.New(errors.ErrConfigValid, "packager.python and packager.setup_script are required")
	}
	if c.Patchelf.Tool == "" && len(c.Patchelf.Patches) > 0 {
		return errors.New(errors.ErrConfigValid, "patchelf.tool is required when patches are configured")
	}
	return nil
}
