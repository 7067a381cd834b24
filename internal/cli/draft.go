package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/persist"
)

func newDraftCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or discard the local draft",
		Long: `The draft is the autosaved copy of the document being composed. It is
restored by compose and publish, and cleared once a publish succeeds.`,
	}

	cmd.AddCommand(newDraftShowCommand(opts))
	cmd.AddCommand(newDraftClearCommand(opts))
	cmd.AddCommand(newDraftStatusCommand(opts))

	return cmd
}

func newDraftShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slot, err := opts.draftSlot(cmd)
			if err != nil {
				return err
			}
			content, err := slot.Load(cmd.Context())
			if err != nil {
				return &exitError{code: ExitIOError, err: fmt.Errorf("read draft: %w", err)}
			}
			cmd.Print(withNewline(content))
			return nil
		},
	}
}

func newDraftStatusCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the draft is kept and its size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slot, err := opts.draftSlot(cmd)
			if err != nil {
				return err
			}
			content, err := slot.Load(cmd.Context())
			if err != nil {
				return &exitError{code: ExitIOError, err: fmt.Errorf("read draft: %w", err)}
			}
			cmd.Print(opts.styles(cmd).FormatDraftStatus(slot.Path(), len(content)))
			return nil
		},
	}
}

func newDraftClearCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slot, err := opts.draftSlot(cmd)
			if err != nil {
				return err
			}
			if err := slot.Clear(cmd.Context()); err != nil {
				return &exitError{code: ExitIOError, err: fmt.Errorf("clear draft: %w", err)}
			}
			logging.FromContext(cmd.Context()).Info("draft cleared", logging.FieldPath, slot.Path())
			return nil
		},
	}
}

// draftSlot returns the configured draft slot.
func (o *globalOptions) draftSlot(cmd *cobra.Command) (*persist.FileSlot, error) {
	cfg, _, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return persist.NewFileSlot(cfg.DraftPath), nil
}
