// Package store provides the three locally persisted state containers
// (orders, notifications, chat sessions). Mutations are synchronous;
// every mutation persists a partialized projection through the injected
// persistence port. Storage is best-effort: when even the degraded
// write fails, the mutation stays in memory and the caller gets
// ErrMemoryOnly.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/storewire/storewire/internal/colors"
	"github.com/storewire/storewire/internal/persist"
)

// ErrMemoryOnly reports a mutation that succeeded in memory but could
// not be persisted, even after degradation. The in-memory state is
// still valid and remains the source of truth.
var ErrMemoryOnly = errors.New("mutation kept in memory only")

// emergencyCap is the list bound used by the degraded write path. One
// policy for all three stores: strip inline attachment data, truncate
// lists to this bound, retry once.
const emergencyCap = 20

// Subscription is a handle on a store's change feed. The owner must
// call Cancel when done; C receives a signal after each mutation.
type Subscription struct {
	C      <-chan struct{}
	cancel func()
}

// Cancel detaches the subscription from the store.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// subscribers manages a store's subscriptions.
type subscribers struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func (s *subscribers) subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]chan struct{})
	}
	id := s.next
	s.next++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return &Subscription{
		C: ch,
		cancel: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
		},
	}
}

// notify signals all subscribers without blocking; a subscriber that
// has not drained its channel coalesces signals.
func (s *subscribers) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// saveSnapshot persists a partialized state with the uniform
// degradation policy. degraded builds the shrunk projection; it is only
// invoked when the full write fails.
func saveSnapshot(port persist.Port, name string, full any, degraded func() any) error {
	data, err := json.Marshal(full)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrMemoryOnly, name, err)
	}
	saveErr := port.Save(name, data)
	if saveErr == nil {
		return nil
	}
	colors.Warning(fmt.Sprintf("persisting %s failed, retrying degraded: %v", name, saveErr))
	shrunk, err := json.Marshal(degraded())
	if err != nil {
		return fmt.Errorf("%w: marshal degraded %s: %v", ErrMemoryOnly, name, err)
	}
	if err := port.Save(name, shrunk); err != nil {
		colors.Warning(fmt.Sprintf("degraded persist of %s failed too: %v", name, err))
		return fmt.Errorf("%w: %s: %v", ErrMemoryOnly, name, saveErr)
	}
	return nil
}
