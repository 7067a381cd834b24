package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/internal/ui/pretty"
	"github.com/yaklabco/mdinbox/pkg/config"
	"github.com/yaklabco/mdinbox/pkg/index"
)

type listFlags struct {
	query   string
	json    bool
	link    string
	preview int
}

func newListCommand(opts *globalOptions) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List documents in the remote inbox",
		Long: `List the markdown documents of the configured folder, newest first, with
a plain-text preview of each.

--query keeps the documents whose name, title or preview contains the
query, ignoring case. --link prints the [[name]] reference of a document,
ready to paste into another note.`,
		Example: `  mdinbox list
  mdinbox list --query standup
  mdinbox list --link 20240115103000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.query, "query", "q", "", "filter documents by name, title or preview")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print entries as JSON")
	cmd.Flags().StringVar(&flags.link, "link", "", "print the cross-reference token of a document")
	cmd.Flags().IntVar(&flags.preview, "preview-length", 0, "characters kept in previews (0 = config)")

	return cmd
}

func runList(cmd *cobra.Command, opts *globalOptions, flags *listFlags) error {
	if flags.preview < 0 {
		return &exitError{code: ExitInvalidUsage, err: fmt.Errorf("--preview-length must not be negative")}
	}
	cfg, logger, err := opts.loadConfigWith(cmd, &config.Config{PreviewLength: flags.preview})
	if err != nil {
		return err
	}

	lister := index.New(cfg, index.WithLogger(logger))
	entries, err := lister.Collect(cmd.Context())
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	logger.Debug("listed documents",
		logging.FieldFolder, cfg.Folder,
		logging.FieldEntries, len(entries))

	if flags.link != "" {
		entry, ok := index.Find(entries, flags.link)
		if !ok {
			return &exitError{code: ExitRemoteError, err: fmt.Errorf("no document named %q in %s", flags.link, cfg.Folder)}
		}
		cmd.Println(index.CrossRef(entry))
		return nil
	}

	matches := index.Search(entries, flags.query)

	if flags.json {
		if matches == nil {
			matches = []index.Entry{}
		}
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("encode entries: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	styles := opts.styles(cmd)
	table := pretty.NewTableFormatter(styles, pretty.TerminalWidth(cmd.OutOrStdout()))
	if len(matches) > 0 {
		cmd.Print(table.FormatDocuments(matches))
	}
	cmd.Println(table.FormatListSummary(len(matches), len(entries), cfg.Folder))
	return nil
}
