package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/internal/ui/pretty"
	"github.com/yaklabco/mdinbox/pkg/remote"
)

func newReposCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List repositories visible to the token",
		Long: `List the repositories the configured token can see, most recently updated
first. A successful listing confirms the token is valid; the configured
repository is marked with '*'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Token) == "" {
				return remote.NotConfigured("list repositories")
			}

			client := remote.NewClient(cfg.Repository, cfg.Token,
				remote.WithBaseURL(cfg.APIURL),
				remote.WithTimeout(cfg.Timeout),
				remote.WithLogger(logger))

			repos, err := client.ListRepositories(cmd.Context())
			if err != nil {
				return fmt.Errorf("token check: %w", remote.Classify(err, "list repositories"))
			}
			logger.Debug("listed repositories", logging.FieldEntries, len(repos))

			table := pretty.NewTableFormatter(opts.styles(cmd), pretty.TerminalWidth(cmd.OutOrStdout()))
			cmd.Print(table.FormatRepositories(repos, cfg.Repository))
			return nil
		},
	}
}
