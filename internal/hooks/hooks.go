// Package hooks runs user-supplied shell scripts in reaction to
// delivery events. Scripts live under <hooks_dir>/<point>/ and run in
// name order with event details passed as environment variables. Hook
// failures are logged and never fatal; delivery does not depend on
// them.
package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/storewire/storewire/internal/domain"
	"github.com/storewire/storewire/internal/logging"
)

// Hook points fired by the runner.
const (
	PointMessage      = "on-message"
	PointNotification = "on-notification"
	PointOrder        = "on-order"
	PointConnect      = "on-connect"
	PointDisconnect   = "on-disconnect"
)

// Runner executes hook scripts. It satisfies the router's side effect
// interface; events are dispatched on background goroutines so slow
// scripts never stall the read loop.
type Runner struct {
	dir     string
	timeout time.Duration
	enabled bool
	log     logging.Logger
	wg      sync.WaitGroup
}

// NewRunner creates a hook runner rooted at dir. A disabled runner
// accepts events and does nothing.
func NewRunner(dir string, timeout time.Duration, enabled bool, log logging.Logger) *Runner {
	if log == nil {
		log = logging.Noop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		dir:     dir,
		timeout: timeout,
		enabled: enabled,
		log:     log.With("component", "hooks"),
	}
}

// OnMessage fires on-message hooks for an accepted chat message.
func (r *Runner) OnMessage(sessionID string, msg domain.Message) {
	env := map[string]string{
		"STOREWIRE_SESSION_ID": sessionID,
		"STOREWIRE_MESSAGE_ID": msg.ID,
		"STOREWIRE_SENDER":     msg.Sender.String(),
		"STOREWIRE_TEXT":       msg.Text,
	}
	if msg.Attachment != nil {
		env["STOREWIRE_ATTACHMENT_NAME"] = msg.Attachment.Name
		env["STOREWIRE_ATTACHMENT_URL"] = msg.Attachment.URL
	}
	r.dispatch(PointMessage, env)
}

// OnNotification fires on-notification hooks for a stored notification.
func (r *Runner) OnNotification(n domain.Notification) {
	env := map[string]string{
		"STOREWIRE_NOTIFICATION_ID": n.ID,
		"STOREWIRE_TITLE":           n.Title,
		"STOREWIRE_MESSAGE":         n.Message,
		"STOREWIRE_TYPE":            n.Type.String(),
	}
	if n.Order != nil {
		env["STOREWIRE_ORDER_ID"] = n.Order.OrderID
		env["STOREWIRE_ORDER_NUMBER"] = n.Order.OrderNumber
		env["STOREWIRE_ORDER_STATUS"] = n.Order.Status.String()
	}
	r.dispatch(PointNotification, env)
}

// OnOrder fires on-order hooks for an upserted order.
func (r *Runner) OnOrder(order domain.Order, created bool) {
	r.dispatch(PointOrder, map[string]string{
		"STOREWIRE_ORDER_ID":     order.ID,
		"STOREWIRE_ORDER_NUMBER": order.OrderNumber,
		"STOREWIRE_ORDER_STATUS": order.Status.String(),
		"STOREWIRE_CREATED":      strconv.FormatBool(created),
	})
}

// Connection fires on-connect or on-disconnect hooks for a connection
// transition.
func (r *Runner) Connection(connected bool, serverURL string) {
	point := PointDisconnect
	if connected {
		point = PointConnect
	}
	r.dispatch(point, map[string]string{
		"STOREWIRE_SERVER_URL": serverURL,
	})
}

// Wait blocks until all in-flight hooks have finished. Call it on
// shutdown so short-lived commands do not orphan their scripts.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) dispatch(point string, env map[string]string) {
	if !r.enabled {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.Run(point, env)
	}()
}

// Run executes all hook scripts for a point synchronously, in name
// order. Only executable regular files run; a missing point directory
// means no hooks.
func (r *Runner) Run(point string, env map[string]string) {
	pointDir := filepath.Join(r.dir, point)
	entries, err := os.ReadDir(pointDir)
	if err != nil {
		return
	}

	var scripts []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(pointDir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		scripts = append(scripts, path)
	}
	sort.Strings(scripts)
	if len(scripts) == 0 {
		return
	}

	r.log.Debug("running hooks", "point", point, "scripts", len(scripts))
	for _, script := range scripts {
		r.runScript(point, script, env)
	}
}

func (r *Runner) runScript(point, script string, env map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, script)
	cmd.Env = append(os.Environ(),
		"HOOK_POINT="+point,
		"HOOK_TIMESTAMP="+time.Now().Format(time.RFC3339),
	)
	for k, v := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	start := time.Now()
	output, err := cmd.CombinedOutput()
	duration := time.Since(start)
	name := filepath.Base(script)
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		r.log.Warn("hook timed out", "point", point, "script", name, "timeout", r.timeout)
	case err != nil:
		r.log.Warn("hook failed", "point", point, "script", name, "error", err, "output", string(output))
	default:
		r.log.Debug("hook completed", "point", point, "script", name, "duration", duration)
	}
}
