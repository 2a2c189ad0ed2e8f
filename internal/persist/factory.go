package persist

import (
	"fmt"
	"path/filepath"
)

// Backend names accepted by the factory.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// New creates a Port for the configured backend rooted at stateDir.
func New(backend, stateDir string) (Port, error) {
	switch backend {
	case BackendFile, "":
		return NewFilePort(stateDir)
	case BackendSQLite:
		return NewSQLitePort(filepath.Join(stateDir, "storewire.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
