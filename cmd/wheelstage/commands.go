package wheelstage

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/arthur-debert/wheelstage/internal/version"
	"github.com/arthur-debert/wheelstage/pkg/cobrax/topics"
	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/filesystem"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/plan"
	"github.com/arthur-debert/wheelstage/pkg/platform"
	"github.com/arthur-debert/wheelstage/pkg/runner"
	"github.com/arthur-debert/wheelstage/pkg/service"
	"github.com/arthur-debert/wheelstage/pkg/types"
	"github.com/arthur-debert/wheelstage/pkg/ui"
	"github.com/arthur-debert/wheelstage/pkg/wheel"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

//go:embed topics
var topicFiles embed.FS

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	configFile string
	format     ui.Format
}

func (g *globalOptions) register(cmd *cobra.Command) {
	cmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	cmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", MsgFlagConfig)
	cmd.PersistentFlags().Var(&g.format, "format", MsgFlagFormat)
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetupLogger(g.verbosity)
		logging.LogCommand(cmd.CommandPath(), args)
	}
}

func (g *globalOptions) loadConfig(overrides map[string]interface{}) (*config.Config, error) {
	return config.Load(config.Options{File: g.configFile, Overrides: overrides})
}

func (g *globalOptions) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	return ui.NewRenderer(g.format, cmd.OutOrStdout())
}

// flagError tags command line mistakes so they map to a failure exit code
func flagError(cmd *cobra.Command, err error) error {
	return errors.Wrap(err, errors.ErrInvalidInput, "invalid arguments")
}

// Execute expands params files in args and runs the root command
func Execute(ctx context.Context, args []string) error {
	expanded, err := ExpandParamsFiles(args)
	if err != nil {
		return err
	}
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(expanded)
	return rootCmd.ExecuteContext(ctx)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:     "wheelstage",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgNoSubcommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	opts.register(rootCmd)
	rootCmd.SetFlagErrorFunc(flagError)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newBuildCmd(opts))
	rootCmd.AddCommand(newPlanCmd(opts))
	rootCmd.AddCommand(newInstallServiceCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if source, err := fs.Sub(topicFiles, "topics"); err == nil {
		_, _ = topics.Initialize(rootCmd, source, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		})
	}

	return rootCmd
}

// NewServiceRootCmd returns the service installer as a standalone root
// command for the tpu-worker-service binary
func NewServiceRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := newInstallServiceCmd(opts)
	cmd.Use = "tpu-worker-service"
	cmd.GroupID = ""
	cmd.Version = version.Version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	opts.register(cmd)
	cmd.SetFlagErrorFunc(flagError)
	return cmd
}

// artifactFlags collects the repeatable artifact flags
type artifactFlags struct {
	headers []string
	deps    []string
	srcs    []string
	aot     []string
}

func (a *artifactFlags) register(flags *pflag.FlagSet) {
	flags.StringArrayVar(&a.headers, "headers", nil, MsgFlagHeaders)
	flags.StringArrayVar(&a.deps, "deps", nil, MsgFlagDeps)
	flags.StringArrayVar(&a.srcs, "srcs", nil, MsgFlagSrcs)
	flags.StringArrayVar(&a.aot, "xla_aot", nil, MsgFlagXLAAOT)
}

func (a *artifactFlags) inputs() types.Inputs {
	return types.Inputs{
		Headers: a.headers,
		Deps:    a.deps,
		Srcs:    a.srcs,
		AOT:     a.aot,
	}
}

func newBuildCmd(opts *globalOptions) *cobra.Command {
	var (
		artifacts   artifactFlags
		outputName  string
		projectName string
		tfVersion   string
	)

	cmd := &cobra.Command{
		Use:     "build",
		Short:   MsgBuildShort,
		Long:    MsgBuildLong,
		Example: MsgBuildExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(nil)
			if err != nil {
				return err
			}
			workDir, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, errors.ErrFileAccess, "cannot determine the working directory")
			}

			builder := &wheel.Builder{
				FS:       filesystem.NewOS(),
				Config:   cfg,
				Platform: platform.Detect(),
				Runner:   runner.NewExecRunner(cmd.ErrOrStderr()),
				WorkDir:  workDir,
			}
			result, err := builder.Build(cmd.Context(), wheel.Request{
				Inputs:      artifacts.inputs(),
				OutputName:  outputName,
				ProjectName: projectName,
				Version:     tfVersion,
			})
			if err != nil {
				return err
			}

			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().StringVar(&outputName, "output-name", "", MsgFlagOutputName)
	cmd.Flags().StringVar(&projectName, "project-name", "", MsgFlagProjectName)
	cmd.Flags().StringVar(&tfVersion, "version", "", MsgFlagVersion)
	artifacts.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("output-name")
	_ = cmd.MarkFlagRequired("project-name")

	return cmd
}

func newPlanCmd(opts *globalOptions) *cobra.Command {
	var artifacts artifactFlags

	cmd := &cobra.Command{
		Use:     "plan",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(nil)
			if err != nil {
				return err
			}
			p, err := plan.Build(cfg, artifacts.inputs())
			if err != nil {
				return err
			}
			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			return renderer.RenderResult(p)
		},
	}
	artifacts.register(cmd.Flags())

	return cmd
}

func newInstallServiceCmd(opts *globalOptions) *cobra.Command {
	var (
		unitDir   string
		name      string
		useSudo   bool
		printOnly bool
	)
	defaults := config.Default().Service

	cmd := &cobra.Command{
		Use:     "install-service",
		Short:   MsgServiceShort,
		Long:    MsgServiceLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("unit-dir") {
				overrides["service.unit_dir"] = unitDir
			}
			if cmd.Flags().Changed("name") {
				overrides["service.name"] = name
			}
			cfg, err := opts.loadConfig(overrides)
			if err != nil {
				return err
			}

			installer := service.NewInstaller(cfg.Service, runner.NewExecRunner(cmd.ErrOrStderr()))
			if cmd.Flags().Changed("sudo") {
				installer.UseSudo = useSudo
			}

			if printOnly {
				content, err := installer.Unit.Render()
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			if err := installer.Install(cmd.Context()); err != nil {
				return err
			}
			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			return renderer.RenderMessage(fmt.Sprintf(MsgUnitCreated, installer.Path(), installer.Name))
		},
	}

	cmd.Flags().StringVar(&unitDir, "unit-dir", defaults.UnitDir, MsgFlagUnitDir)
	cmd.Flags().StringVar(&name, "name", defaults.Name, MsgFlagUnitName)
	cmd.Flags().BoolVar(&useSudo, "sudo", false, MsgFlagSudo)
	cmd.Flags().BoolVar(&printOnly, "print", false, MsgFlagPrint)

	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var (
		defaults bool
		write    bool
	)

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if write {
				path := opts.configFile
				if path == "" {
					var err error
					if path, err = config.UserConfigPath(); err != nil {
						return err
					}
				}
				if err := config.WriteUserConfig(path); err != nil {
					return err
				}
				_, err := fmt.Fprintf(out, MsgConfigWritten+"\n", path)
				return err
			}

			if defaults {
				_, err := fmt.Fprint(out, config.GenerateConfigContent())
				return err
			}

			cfg, err := opts.loadConfig(nil)
			if err != nil {
				return err
			}
			dump, err := config.Dump(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, dump)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.MarkFlagsMutuallyExclusive("defaults", "write")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String(cmd.Root().Name()))
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			helpCmd, _, err := cmd.Root().Find([]string{"help"})
			if err != nil || helpCmd.Run == nil {
				return errors.New(errors.ErrInternal, "help command not found")
			}
			helpCmd.SetOut(cmd.OutOrStdout())
			helpCmd.Run(helpCmd, []string{"topics"})
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
