package persist

import (
	"fmt"
	"sync"
)

// MemoryPort is an in-memory Port for tests and ephemeral runs. It can
// simulate a storage quota so the stores' fallback path is testable.
type MemoryPort struct {
	mu        sync.Mutex
	snapshots map[string][]byte

	// Quota fails saves whose payload exceeds this many bytes. Zero
	// means unlimited.
	Quota int

	// FailSaves fails the next N saves unconditionally.
	FailSaves int

	saves int
}

// NewMemoryPort creates an empty in-memory port.
func NewMemoryPort() *MemoryPort {
	return &MemoryPort{snapshots: make(map[string][]byte)}
}

// Load returns the named snapshot.
func (p *MemoryPort) Load(name string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.snapshots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, name)
	}
	out := make([]byte, len(state))
	copy(out, state)
	return out, nil
}

// Save stores the named snapshot, honoring the simulated quota.
func (p *MemoryPort) Save(name string, state []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.FailSaves > 0 {
		p.FailSaves--
		return fmt.Errorf("memory port: simulated save failure")
	}
	if p.Quota > 0 && len(state) > p.Quota {
		return fmt.Errorf("memory port: quota exceeded (%d > %d bytes)", len(state), p.Quota)
	}
	stored := make([]byte, len(state))
	copy(stored, state)
	p.snapshots[name] = stored
	return nil
}

// Clear removes the named snapshot.
func (p *MemoryPort) Clear(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.snapshots, name)
	return nil
}

// Close is a no-op for the memory port.
func (p *MemoryPort) Close() error { return nil }

// SaveCount reports how many saves were attempted.
func (p *MemoryPort) SaveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}
