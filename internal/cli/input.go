package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdinbox/pkg/fsutil"
)

// stdinName names standard input in arguments and messages.
const stdinName = "-"

// readInput reads the file named by args[0], or stdin when args is empty
// or "-". It returns the content and a display name.
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", &exitError{code: ExitIOError, err: fmt.Errorf("read stdin: %w", err)}
		}
		return string(data), "<stdin>", nil
	}

	path := args[0]
	data, ok, err := fsutil.ReadIfExists(cmd.Context(), path)
	if err != nil {
		return "", "", &exitError{code: ExitIOError, err: fmt.Errorf("read %s: %w", path, err)}
	}
	if !ok {
		return "", "", &exitError{code: ExitIOError, err: fmt.Errorf("read %s: %w", path, os.ErrNotExist)}
	}
	return string(data), path, nil
}

// writeOutput writes content to path, or to the command's stdout when path
// is empty. Files are written atomically and left alone when unchanged.
func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	if _, err := fsutil.WriteAtomicIfChanged(cmd.Context(), path, []byte(content), 0); err != nil {
		return &exitError{code: ExitIOError, err: err}
	}
	return nil
}

// withNewline terminates text with a newline unless it is empty.
func withNewline(text string) string {
	if text == "" || text[len(text)-1] == '\n' {
		return text
	}
	return text + "\n"
}
