package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/markdown"
	"github.com/yaklabco/mdinbox/pkg/reporter"
	"github.com/yaklabco/mdinbox/pkg/runner"
)

type checkFlags struct {
	format         string
	exclude        []string
	jobs           int
	followSymlinks bool
	quiet          bool
	compact        bool
}

func newCheckCommand(opts *globalOptions) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Check markdown files for round-trip stability",
		Long: `Check that every markdown file under the given paths survives a
parse/serialize/parse round trip unchanged. Directories are walked
recursively; hidden entries and files starting with an underscore are
skipped.

Constructs the document model cannot represent are reported as warnings.
Unstable files are shown with a diff of the two serializations.`,
		Example: `  mdinbox check
  mdinbox check notes/ --exclude 'archive/**'
  mdinbox check --format json -j 4 a.md b.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "output format: text, json, diff")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns to skip (repeatable)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "concurrent workers (0 = number of CPUs)")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "walk into symlinked directories")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "only report unstable files and errors")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "compact JSON output")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *globalOptions, flags *checkFlags) error {
	ctx := cmd.Context()

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return &exitError{code: ExitInvalidUsage, err: err}
	}

	workDir, err := os.Getwd()
	if err != nil {
		return &exitError{code: ExitIOError, err: err}
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       opts.color,
		Quiet:       flags.quiet,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return &exitError{code: ExitInvalidUsage, err: err}
	}

	r := runner.New(markdown.NewParser(nil), markdown.NewSerializer(nil),
		runner.WithLogger(logging.FromContext(ctx)))
	result, err := r.Run(ctx, runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Exclude:        flags.exclude,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           flags.jobs,
	})
	if err != nil {
		return &exitError{code: ExitIOError, err: err}
	}

	if err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	switch {
	case result.Stats.FilesErrored > 0:
		return &exitError{code: ExitIOError, err: ErrCheckFailed, reported: true}
	case result.Stats.FilesUnstable > 0:
		return ErrRoundTripUnstable
	}
	return nil
}
