package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ClientID returns the stable client identifier for this installation,
// creating and persisting one on first use. For customers it doubles as
// the chat session id, so it must survive restarts.
func ClientID(stateDir string) (string, error) {
	path := filepath.Join(stateDir, "client_id")
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	id := uuid.NewString()
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("persist client id: %w", err)
	}
	return id, nil
}
