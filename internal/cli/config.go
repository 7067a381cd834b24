package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdinbox/internal/configloader"
	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/config"
	"github.com/yaklabco/mdinbox/pkg/fsutil"
)

// projectConfigName is the file written by config init --project.
const projectConfigName = ".mdinbox.yml"

func newConfigCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Long: `mdinbox reads its configuration from, lowest precedence first:

  1. built-in defaults
  2. the user file ($XDG_CONFIG_HOME/mdinbox/config.yaml)
  3. a project file (.mdinbox.yml in the working directory or a parent)
  4. the file given with --config
  5. MDINBOX_* environment variables

The token is a secret: the user file is written private to the user and
the token is masked when shown.`,
	}

	cmd.AddCommand(newConfigInitCommand(opts))
	cmd.AddCommand(newConfigShowCommand(opts))
	cmd.AddCommand(newConfigSetCommand(opts))
	cmd.AddCommand(newConfigPathCommand(opts))
	cmd.AddCommand(newConfigEnvCommand())

	return cmd
}

func newConfigInitCommand(opts *globalOptions) *cobra.Command {
	var (
		project bool
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Long: `Write a config file holding the default settings. By default the user
file is written; --project writes .mdinbox.yml in the current directory
instead. Project files are meant to be shared and never hold the token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.configPath
			switch {
			case project:
				path = projectConfigName
			case path == "":
				path = configloader.UserConfigPath()
			}

			if _, found, err := fsutil.ReadIfExists(cmd.Context(), path); err != nil {
				return &exitError{code: ExitIOError, err: err}
			} else if found && !force {
				return &exitError{code: ExitInvalidUsage,
					err: fmt.Errorf("%s already exists (use --force to overwrite)", path)}
			}

			written, err := configloader.Save(cmd.Context(), config.NewConfig(), path)
			if err != nil {
				return &exitError{code: ExitIOError, err: err}
			}
			logging.FromContext(cmd.Context()).Info("config written", logging.FieldPath, written)
			return nil
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "write "+projectConfigName+" in the current directory")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func newConfigShowCommand(opts *globalOptions) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			shown := cfg
			if !reveal {
				shown = cfg.Redacted()
			}
			data, err := shown.ToYAML()
			if err != nil {
				return err
			}
			cmd.Print(string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "show the token unmasked")

	return cmd
}

func newConfigSetCommand(opts *globalOptions) *cobra.Command {
	keys := settableKeys()

	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the config file",
		Long: `Set a value in the user config file, or in the file given with --config.

Keys: ` + strings.Join(keys, ", ") + `.`,
		Example: `  mdinbox config set token ghp_xxxxxxxxxxxx
  mdinbox config set repository alice/notes
  mdinbox config set folder /inbox`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, opts, args[0], args[1])
		},
	}
}

func runConfigSet(cmd *cobra.Command, opts *globalOptions, key, value string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	path := opts.configPath
	if path == "" {
		path = configloader.UserConfigPath()
	}

	fileCfg, err := configloader.LoadFile(ctx, path)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	if err := configloader.SetField(fileCfg, key, value); err != nil {
		return &exitError{code: ExitInvalidUsage, err: err}
	}

	// The file alone may be partial; validate it over the defaults.
	if err := configloader.MergeAll(config.NewConfig(), fileCfg).Validate(); err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	written, err := configloader.Save(ctx, fileCfg, path)
	if err != nil {
		return &exitError{code: ExitIOError, err: err}
	}

	shown := value
	if key == "token" {
		shown = config.MaskToken(value)
	}
	logger.Info("config updated", "key", key, "value", shown, logging.FieldPath, written)
	return nil
}

func newConfigPathCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config files and the draft location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := configloader.Load(cmd.Context(), opts.loadOptions(nil))
			if err != nil {
				return &exitError{code: ExitConfigError, err: err}
			}

			styles := opts.styles(cmd)
			line := func(label, path string) {
				if path == "" {
					path = styles.Dim.Render("(none)")
				} else if slices.Contains(result.LoadedFrom, path) {
					path = styles.Path.Render(path) + styles.Dim.Render("  (loaded)")
				}
				cmd.Printf("%-9s %s\n", label, path)
			}

			line("user", result.Paths.User)
			line("project", result.Paths.Project)
			line("explicit", result.Paths.Explicit)
			line("draft", result.Config.DraftPath)
			return nil
		},
	}
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the supported environment variables",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			vars := configloader.ListEnvVars()
			names := make([]string, 0, len(vars))
			for name := range vars {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				cmd.Printf("%-26s %s\n", name, vars[name])
			}
		},
	}
}

// settableKeys returns the config keys accepted by config set.
func settableKeys() []string {
	keys := []string{
		"token", "repository", "folder", "api_url", "draft_path",
		"log_level", "autosave_interval", "timeout", "preview_length",
	}
	return slices.DeleteFunc(keys, func(key string) bool {
		return configloader.GetEnvVarName(key) == ""
	})
}
