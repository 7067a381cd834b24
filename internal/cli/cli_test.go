package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdinbox/internal/cli"
	"github.com/yaklabco/mdinbox/pkg/remote"
	"github.com/yaklabco/mdinbox/pkg/session"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	require.NotNil(t, cmd)
	assert.Equal(t, "mdinbox", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, path := range [][]string{
		{"compose"},
		{"publish"},
		{"list"},
		{"draft", "show"},
		{"draft", "clear"},
		{"draft", "status"},
		{"convert"},
		{"check"},
		{"config", "init"},
		{"config", "show"},
		{"config", "set"},
		{"config", "path"},
		{"config", "env"},
		{"repos"},
		{"version"},
	} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "subcommand %v", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command []string
		flags   []string
	}{
		{[]string{"convert"}, []string{"to", "output", "check"}},
		{[]string{"compose"}, []string{"paste-image", "code", "ref", "publish", "quiet"}},
		{[]string{"publish"}, []string{"dry-run"}},
		{[]string{"check"}, []string{"format", "exclude", "jobs", "follow-symlinks", "quiet", "compact"}},
		{[]string{"list"}, []string{"query", "json", "link", "preview-length"}},
		{[]string{"config", "show"}, []string{"reveal"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.command), func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			sub, _, err := cmd.Find(tt.command)
			require.NoError(t, err)

			for _, name := range tt.flags {
				assert.NotNil(t, sub.Flags().Lookup(name), "flag --%s", name)
			}
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"debug", "config", "color", "repo", "folder", "isolated"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag --%s", name)
	}
	assert.Equal(t, "auto", cmd.PersistentFlags().Lookup("color").DefValue)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"plain", errors.New("boom"), cli.ExitFailure},
		{"dropped", cli.ErrPublishDropped, cli.ExitDropped},
		{"unstable", cli.ErrRoundTripUnstable, cli.ExitDataError},
		{"not configured", fmt.Errorf("publish: %w", remote.NotConfigured("save document")), cli.ExitNotConfigured},
		{"rejected", remote.Classify(&remote.APIError{Status: 409, Message: "conflict"}, "save"), cli.ExitRemoteError},
		{"transport", remote.Classify(&remote.TransportError{Op: "PUT", Err: errors.New("refused")}, "save"), cli.ExitRemoteError},
		{"empty", session.ErrEmptyDocument, cli.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestIsSilent(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.IsSilent(cli.ErrPublishDropped))
	assert.True(t, cli.IsSilent(cli.ErrRoundTripUnstable))
	assert.True(t, cli.IsSilent(fmt.Errorf("check: %w", cli.ErrRoundTripUnstable)))
	assert.False(t, cli.IsSilent(errors.New("boom")))
}
