package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func setupIsolatedState(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STOREWIRE_STATE_DIR", dir)
	t.Setenv("STOREWIRE_CONFIG_PATH", dir+"/missing.toml")
	t.Setenv("STOREWIRE_STORAGE_BACKEND", "file")
	t.Setenv("STOREWIRE_LOGGING_ENABLED", "false")
}

func TestVersionCommand(t *testing.T) {
	setupIsolatedState(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "storewire v")
}

func TestStatusCommand_EmptyState(t *testing.T) {
	setupIsolatedState(t)
	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestStatusCommand_SummaryFormat(t *testing.T) {
	setupIsolatedState(t)
	out, err := execute(t, "status", "--format", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "notifications: 0 unread")
	assert.Contains(t, out, "chat: 0 unread")
}

func TestListCommand_EmptyState(t *testing.T) {
	setupIsolatedState(t)
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestListCommand_RejectsBadType(t *testing.T) {
	setupIsolatedState(t)
	_, err := execute(t, "list", "--type", "smoke_signal")
	require.Error(t, err)
}

func TestMarkReadCommand_RequiresSelector(t *testing.T) {
	setupIsolatedState(t)
	_, err := execute(t, "mark-read")
	require.Error(t, err)
}

func TestClearCommand_UnknownTarget(t *testing.T) {
	setupIsolatedState(t)
	_, err := execute(t, "clear", "everything")
	require.Error(t, err)
}

func TestCleanupCommand_DryRun(t *testing.T) {
	setupIsolatedState(t)
	out, err := execute(t, "cleanup", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would remove 0 notification(s)")
}

func TestOrdersCommand_BadStatus(t *testing.T) {
	setupIsolatedState(t)
	_, err := execute(t, "orders", "--status", "teleported")
	require.Error(t, err)
}
