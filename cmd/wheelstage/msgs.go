package wheelstage

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Stage TensorFlow wheel artifacts and build the wheel"
	MsgBuildShort      = "Stage the artifacts and build the wheel"
	MsgPlanShort       = "Show where every artifact would be staged"
	MsgConfigShort     = "Print the effective configuration"
	MsgServiceShort    = "Install the TPU worker systemd service"
	MsgVersionShort    = "Print version information"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgUnitCreated    = "Service file %s created, %s enabled and started"
	MsgConfigWritten  = "Wrote %s"
	MsgNoSubcommand   = "no command specified"
	MsgParamsNotFound = "cannot read params file %s"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Config file (default $XDG_CONFIG_HOME/wheelstage/config.toml)"
	MsgFlagFormat      = "Output format: auto, term, text or json"
	MsgFlagOutputName  = "Output file for the wheel; the wheel is written to its directory"
	MsgFlagProjectName = "Project name passed to the packaging tool"
	MsgFlagHeaders     = "Header file for the wheel (repeatable)"
	MsgFlagDeps        = "Python dependency for the wheel (repeatable)"
	MsgFlagSrcs        = "Source file for the wheel (repeatable)"
	MsgFlagXLAAOT      = "XLA ahead-of-time compiled source (repeatable)"
	MsgFlagVersion     = "TensorFlow version, used to rename versioned libraries"
	MsgFlagDefaults    = "Print a commented configuration template"
	MsgFlagWrite       = "Write the template to the user config file"
	MsgFlagUnitDir     = "Directory the unit file is written to"
	MsgFlagUnitName    = "Unit file name"
	MsgFlagSudo        = "Use sudo for privileged steps (default: when not root)"
	MsgFlagPrint       = "Print the unit file instead of installing it"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/build-long.txt
	msgBuildLongRaw string
	MsgBuildLong    = strings.TrimSpace(msgBuildLongRaw)

	//go:embed msgs/build-example.txt
	msgBuildExampleRaw string
	MsgBuildExample    = strings.TrimRight(msgBuildExampleRaw, "\n")

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/service-long.txt
	msgServiceLongRaw string
	MsgServiceLong    = strings.TrimSpace(msgServiceLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
