// Package persist provides the key-value snapshot port the stores
// persist through, with file and sqlite backends. Snapshots are
// best-effort: a store's in-memory state is always the source of truth
// for the running process.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SnapshotVersion is the current snapshot envelope version. A snapshot
// with any other version loads as "no prior state".
const SnapshotVersion = 1

var (
	// ErrNoSnapshot is returned by Load when no usable snapshot exists.
	// Missing, corrupt, and version-mismatched snapshots all surface as
	// this error so callers fall back to an empty default shape.
	ErrNoSnapshot = errors.New("no snapshot")
)

// Port is the persistence port injected into the stores. Implementations
// own durability only; they never interpret the state payload.
type Port interface {
	// Load returns the state payload of the named snapshot.
	Load(name string) ([]byte, error)

	// Save durably replaces the named snapshot with the given state.
	Save(name string, state []byte) error

	// Clear removes the named snapshot.
	Clear(name string) error

	// Close releases any resources held by the port.
	Close() error
}

// envelope is the on-disk snapshot layout.
type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// wrap seals a state payload into a versioned envelope.
func wrap(state []byte) ([]byte, error) {
	data, err := json.Marshal(envelope{Version: SnapshotVersion, State: state})
	if err != nil {
		return nil, fmt.Errorf("wrap snapshot: %w", err)
	}
	return data, nil
}

// unwrap opens an envelope and returns the state payload. Any shape or
// version mismatch is reported as ErrNoSnapshot.
func unwrap(data []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: corrupt envelope: %v", ErrNoSnapshot, err)
	}
	if env.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d", ErrNoSnapshot, env.Version)
	}
	if len(env.State) == 0 {
		return nil, fmt.Errorf("%w: empty state", ErrNoSnapshot)
	}
	return env.State, nil
}
