package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdinbox/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for _, style := range []func(...string) string{
		styles.Bold.Render,
		styles.Failure.Render,
		styles.Name.Render,
		styles.Placeholder.Render,
	} {
		assert.Equal(t, "text", style("text"))
	}
}

func TestIsColorEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "bytes.Buffer is not a TTY")
}

func TestIsColorEnabled_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
	assert.True(t, pretty.IsColorEnabled("always", os.Stdout), "always overrides NO_COLOR")
}

func TestTerminalWidth_NonTTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, 100, pretty.TerminalWidth(&buf))
}
