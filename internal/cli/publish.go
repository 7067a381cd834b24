package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/internal/ui/pretty"
	"github.com/yaklabco/mdinbox/pkg/persist"
	"github.com/yaklabco/mdinbox/pkg/remotesync"
	"github.com/yaklabco/mdinbox/pkg/session"
)

type publishFlags struct {
	dryRun bool
}

func newPublishCommand(opts *globalOptions) *cobra.Command {
	flags := &publishFlags{}

	cmd := &cobra.Command{
		Use:   "publish [file]",
		Short: "Save a document to the remote inbox",
		Long: `Save a document to the configured repository folder as a new file named
after the current time (YYYYMMDDHHMMSS.md).

Without arguments the local draft is published and, once the remote has
accepted it, cleared. With a file argument (or - for stdin) that file is
parsed and published instead; the draft is left alone.

Nothing is retried: when the remote rejects the document or cannot be
reached, the draft is kept and the error is shown.`,
		Example: `  mdinbox publish
  mdinbox publish meeting.md
  pbpaste | mdinbox publish -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, args, opts, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show the file that would be saved without saving it")

	return cmd
}

func runPublish(cmd *cobra.Command, args []string, opts *globalOptions, flags *publishFlags) (err error) {
	cfg, logger, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	styles := opts.styles(cmd)

	sessOpts := []session.Option{session.WithLogger(logger)}
	if len(args) > 0 {
		sessOpts = append(sessOpts, session.WithSlot(persist.NewMemorySlot()))
	}
	sess := session.New(cfg, sessOpts...)

	if len(args) > 0 {
		source, name, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		result, err := sess.Editor().Load(source)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		cmd.PrintErr(styles.FormatWarnings(name, result.Warnings))
	} else {
		if _, err := sess.Autosaver().Hydrate(ctx); err != nil {
			return &exitError{code: ExitIOError, err: fmt.Errorf("read draft: %w", err)}
		}
		if !flags.dryRun {
			sess.Autosaver().Start(ctx)
			defer func() {
				if closeErr := sess.Close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
					err = &exitError{code: ExitIOError, err: fmt.Errorf("save draft: %w", closeErr)}
				}
			}()
		}
	}

	if flags.dryRun {
		path := remotesync.BuildPath(cfg.Folder, time.Now())
		cmd.Print(styles.Info.Render("Would save") + " " + styles.Path.Render(cfg.Repository+"/"+path) + "\n")
		cmd.Print(withNewline(sess.Editor().SerializeNow()))
		return nil
	}

	result, err := sess.Publish(ctx)
	logger.Debug("publish", logging.FieldOutcome, result.Outcome.String(), logging.FieldPath, result.Path)
	return reportPublish(cmd, styles, cfg.Repository, result, err)
}

// reportPublish prints the outcome of a publish and maps it to the command error.
func reportPublish(
	cmd *cobra.Command,
	styles *pretty.Styles,
	repository string,
	result remotesync.Result,
	err error,
) error {
	if errors.Is(err, session.ErrEmptyDocument) {
		return &exitError{code: ExitInvalidUsage, err: err}
	}
	if err != nil {
		cmd.PrintErr(styles.FormatPublishError(err))
		return reported(err)
	}

	cmd.Print(styles.FormatPublishResult(result, repository))
	if result.Outcome == remotesync.OutcomeDropped {
		return ErrPublishDropped
	}
	return nil
}
