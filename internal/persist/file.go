package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/storewire/storewire/internal/colors"
)

// FilePort persists snapshots as one JSON file per store under a state
// directory. Writes go through a temp file and rename so a crash never
// leaves a half-written snapshot behind.
type FilePort struct {
	dir string
}

// NewFilePort creates a file-backed port rooted at dir.
func NewFilePort(dir string) (*FilePort, error) {
	if dir == "" {
		return nil, fmt.Errorf("file port: state directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("file port: create state directory: %w", err)
	}
	return &FilePort{dir: dir}, nil
}

func (p *FilePort) path(name string) string {
	return filepath.Join(p.dir, name+".json")
}

// Load reads the named snapshot, tolerating missing and corrupt files.
func (p *FilePort) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(p.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, name)
		}
		colors.Debug("snapshot read failed:", err.Error())
		return nil, fmt.Errorf("%w: %s: %v", ErrNoSnapshot, name, err)
	}
	state, err := unwrap(data)
	if err != nil {
		colors.Debug("snapshot unusable, starting empty:", name)
		return nil, err
	}
	return state, nil
}

// Save atomically replaces the named snapshot.
func (p *FilePort) Save(name string, state []byte) error {
	data, err := wrap(state)
	if err != nil {
		return err
	}
	tmp := p.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("file port: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, p.path(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("file port: replace %s: %w", name, err)
	}
	return nil
}

// Clear removes the named snapshot. Missing snapshots are not an error.
func (p *FilePort) Clear(name string) error {
	if err := os.Remove(p.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file port: clear %s: %w", name, err)
	}
	return nil
}

// Close is a no-op for the file port.
func (p *FilePort) Close() error { return nil }
