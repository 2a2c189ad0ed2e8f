package hooks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storewire/storewire/internal/domain"
)

func writeScript(t *testing.T, dir, name, body string, executable bool) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	mode := os.FileMode(0o644)
	if executable {
		mode = 0o755
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), mode))
}

func TestRun_ExecutesScriptsInNameOrder(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	pointDir := filepath.Join(dir, PointNotification)
	writeScript(t, pointDir, "20-second.sh", `echo second >> `+out, true)
	writeScript(t, pointDir, "10-first.sh", `echo first >> `+out, true)

	r := NewRunner(dir, time.Second, true, nil)
	r.Run(PointNotification, nil)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestRun_PassesEventEnvironment(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	writeScript(t, filepath.Join(dir, PointMessage), "dump.sh",
		`echo "$HOOK_POINT $STOREWIRE_SESSION_ID $STOREWIRE_SENDER" > `+out, true)

	r := NewRunner(dir, time.Second, true, nil)
	r.OnMessage("s1", domain.Message{ID: "m1", Text: "hi", Sender: domain.SenderSupport})
	r.Wait()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "on-message s1 support\n", string(data))
}

func TestRun_SkipsNonExecutableScripts(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	writeScript(t, filepath.Join(dir, PointOrder), "plain.sh", `echo ran > `+out, false)

	r := NewRunner(dir, time.Second, true, nil)
	r.Run(PointOrder, nil)

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_MissingPointDirIsNoop(t *testing.T) {
	r := NewRunner(t.TempDir(), time.Second, true, nil)
	r.Run(PointConnect, nil)
}

func TestDispatch_DisabledRunnerDoesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	writeScript(t, filepath.Join(dir, PointOrder), "mark.sh", `echo ran > `+out, true)

	r := NewRunner(dir, time.Second, false, nil)
	r.OnOrder(domain.Order{ID: "o1", OrderNumber: "SW-1", Status: domain.StatusPending}, true)
	r.Wait()

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_FailingScriptDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	pointDir := filepath.Join(dir, PointNotification)
	writeScript(t, pointDir, "10-fail.sh", `exit 1`, true)
	writeScript(t, pointDir, "20-ok.sh", `echo ok > `+out, true)

	r := NewRunner(dir, time.Second, true, nil)
	r.Run(PointNotification, nil)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(data))
}
