// Package config handles configuration management for wheelstage.
//
// Every rule table and post-processing constant lives in configuration, not
// code. Values are layered with koanf, later layers winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. a user file: --config, or $XDG_CONFIG_HOME/wheelstage/config.{toml,yaml}
//  3. WHEELSTAGE_* environment variables, with "__" separating key levels
//     (WHEELSTAGE_PACKAGER__PYTHON=python3.12 sets packager.python)
//  4. explicit overrides passed by the command line
//
// Arrays (rule tables included) are replaced as a whole by a later layer,
// never merged element by element, so table order is always the order of
// the layer that defined it.
package config
