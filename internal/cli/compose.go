package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/index"
	"github.com/yaklabco/mdinbox/pkg/session"
)

type composeFlags struct {
	pasteImage string
	code       string
	ref        string
	publish    bool
	quiet      bool
}

func newComposeCommand(opts *globalOptions) *cobra.Command {
	flags := &composeFlags{}

	cmd := &cobra.Command{
		Use:   "compose [file]",
		Short: "Type text into the draft",
		Long: `Type text into the document as if it were entered in the editor.

The local draft is restored first, so compose appends to whatever was left
from earlier runs. Typing applies the editor's shortcuts: a completed
[text](url) becomes a link, ![alt](src) an image, and closed emphasis
markers format their text. The draft is autosaved and written once more
before exit; the resulting markdown is printed.

Without a file argument the text is read from stdin. The input is typed, not
parsed: only inline shortcuts apply, and block syntax such as "# " headings,
"- " lists or fences stays literal text. Use "mdinbox convert" or
"mdinbox publish FILE" for existing markdown files.`,
		Example: `  echo "Call **Alice** about [the report](https://example.com)" | mdinbox compose
  mdinbox compose --paste-image screenshot.png < /dev/null
  mdinbox compose --code main.go --publish notes.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd, args, opts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.pasteImage, "paste-image", "", "insert an image file as pasted data")
	cmd.Flags().StringVar(&flags.code, "code", "", "insert a source file as a code block")
	cmd.Flags().StringVar(&flags.ref, "ref", "", "insert a [[name]] reference to a remote document")
	cmd.Flags().BoolVar(&flags.publish, "publish", false, "publish the document afterwards")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not print the document")

	return cmd
}

func runCompose(cmd *cobra.Command, args []string, opts *globalOptions, flags *composeFlags) (err error) {
	cfg, logger, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	text, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	ctx := logging.With(cmd.Context(), logging.FieldInput, name)
	cmd.SetContext(ctx)

	sess := session.New(cfg, session.WithLogger(logger))
	if _, err := sess.Start(ctx); err != nil {
		logger.Warn("draft not restored", logging.FieldError, err)
	}
	defer func() {
		if closeErr := sess.Close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
			err = &exitError{code: ExitIOError, err: fmt.Errorf("save draft: %w", closeErr)}
		}
	}()

	ed := sess.Editor()
	if err := ed.Type(text); err != nil {
		return fmt.Errorf("type: %w", err)
	}

	if flags.code != "" {
		if err := insertCode(cmd, sess, flags.code); err != nil {
			return err
		}
	}

	if flags.pasteImage != "" {
		if err := pasteImage(cmd, sess, flags.pasteImage); err != nil {
			return err
		}
	}

	if flags.ref != "" {
		if err := insertRef(cmd, sess, flags.ref); err != nil {
			return err
		}
	}

	styles := opts.styles(cmd)
	if flags.publish {
		result, err := sess.Publish(ctx)
		return reportPublish(cmd, styles, cfg.Repository, result, err)
	}

	if err := sess.Flush(ctx); err != nil {
		logger.Warn("autosave failed", logging.FieldError, err)
	}
	if !flags.quiet {
		cmd.Print(withNewline(ed.SerializeNow()))
	}
	return nil
}

func insertCode(cmd *cobra.Command, sess *session.Session, path string) error {
	code, _, err := readInput(cmd, []string{path})
	if err != nil {
		return err
	}
	block, err := sess.Editor().InsertCodeBlock(code, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("insert code: %w", err)
	}
	logging.FromContext(cmd.Context()).Debug("code block inserted",
		logging.FieldPath, path, "language", block.Language)
	return nil
}

func pasteImage(cmd *cobra.Command, sess *session.Session, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &exitError{code: ExitIOError, err: fmt.Errorf("read image: %w", err)}
	}
	if _, err := sess.Editor().PasteImage(data, http.DetectContentType(data), time.Now()); err != nil {
		return &exitError{code: ExitDataError, err: fmt.Errorf("paste %s: %w", path, err)}
	}
	return nil
}

func insertRef(cmd *cobra.Command, sess *session.Session, name string) error {
	entries, err := sess.Index().Collect(cmd.Context())
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	entry, ok := index.Find(entries, name)
	if !ok {
		return &exitError{code: ExitRemoteError, err: fmt.Errorf("no document named %q in the inbox", name)}
	}
	return sess.InsertCrossRef(entry)
}
