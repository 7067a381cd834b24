// Package cli provides the Cobra command structure for mdinbox.
package cli

import (
	"cmp"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdinbox/internal/configloader"
	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/internal/ui/pretty"
	"github.com/yaklabco/mdinbox/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	debug      bool
	configPath string
	color      string
	repository string
	folder     string
	isolated   bool
}

// NewRootCommand creates the root mdinbox command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "mdinbox",
		Short: "Capture markdown notes and file them into a remote inbox",
		Long: `mdinbox captures markdown notes and files them into a folder of a remote
repository.

Text typed into the editor is autosaved as a local draft, so nothing is lost
between runs. Publishing sends the document to the repository as a
timestamped file and clears the draft. The inbox can be listed, searched and
linked to with [[name]] cross-references.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// cmd.Print writes to stderr unless an output is set.
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&opts.repository, "repo", "", "repository (owner/name), overrides the config")
	rootCmd.PersistentFlags().StringVar(&opts.folder, "folder", "", "repository folder, overrides the config")
	rootCmd.PersistentFlags().BoolVar(&opts.isolated, "isolated", false,
		"ignore user and project config files and MDINBOX_* variables")

	// Add subcommands.
	rootCmd.AddCommand(newComposeCommand(opts))
	rootCmd.AddCommand(newPublishCommand(opts))
	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(newDraftCommand(opts))
	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newReposCommand(opts))
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(opts.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// loadOptions returns the loader options selected by the global flags.
// overrides carries command flags that map onto config keys.
func (o *globalOptions) loadOptions(overrides *config.Config) configloader.LoadOptions {
	if overrides == nil {
		overrides = &config.Config{}
	}
	overrides.Repository = cmp.Or(o.repository, overrides.Repository)
	overrides.Folder = cmp.Or(o.folder, overrides.Folder)
	overrides.Debug = overrides.Debug || o.debug

	return configloader.LoadOptions{
		ExplicitPath:        o.configPath,
		IgnoreUserConfig:    o.isolated,
		IgnoreProjectConfig: o.isolated,
		IgnoreEnv:           o.isolated,
		CLIConfig:           overrides,
	}
}

// loadConfig resolves the configuration for cmd and returns it with a
// logger at the configured level. Loader warnings are logged.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	return o.loadConfigWith(cmd, nil)
}

// loadConfigWith is loadConfig with command-specific overrides.
func (o *globalOptions) loadConfigWith(
	cmd *cobra.Command,
	overrides *config.Config,
) (*config.Config, *log.Logger, error) {
	result, err := configloader.Load(cmd.Context(), o.loadOptions(overrides))
	if err != nil {
		return nil, nil, &exitError{code: ExitConfigError, err: err}
	}

	cfg := result.Config
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", result.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldRepo, cfg.Repository,
		logging.FieldFolder, cfg.Folder,
		logging.FieldPath, cfg.DraftPath,
	)

	return cfg, logger, nil
}

// styles returns output styles for the command's stdout.
func (o *globalOptions) styles(cmd *cobra.Command) *pretty.Styles {
	return pretty.NewStyles(pretty.IsColorEnabled(o.color, cmd.OutOrStdout()))
}
