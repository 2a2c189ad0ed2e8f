package store

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/storewire/storewire/internal/colors"
	"github.com/storewire/storewire/internal/domain"
	"github.com/storewire/storewire/internal/persist"
)

// ordersSnapshot is the persisted projection of the order store.
type ordersSnapshot struct {
	Orders []domain.Order `json:"orders"`
}

// OrderStore mirrors the orders the event stream has pushed at this
// client, newest first. Order lifecycle is owned by the server; this
// store only upserts what it is told.
type OrderStore struct {
	mu     sync.RWMutex
	orders []domain.Order
	cap    int
	port   persist.Port
	subs   subscribers
}

// NewOrderStore creates an order store backed by port, loading any
// prior snapshot. cap bounds how many orders are retained.
func NewOrderStore(port persist.Port, cap int) *OrderStore {
	s := &OrderStore{port: port, cap: cap}
	data, err := port.Load("orders")
	if err != nil {
		if !errors.Is(err, persist.ErrNoSnapshot) {
			colors.Debug("order snapshot load failed:", err.Error())
		}
		return s
	}
	var snap ordersSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		colors.Warning("order snapshot unreadable, starting empty:", err.Error())
		return s
	}
	s.orders = snap.Orders
	s.trim()
	return s
}

// Upsert inserts or replaces an order by ID. Returns true when the
// order was not known before.
func (s *OrderStore) Upsert(order domain.Order) (bool, error) {
	s.mu.Lock()
	created := true
	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			s.orders[i] = order
			created = false
			break
		}
	}
	if created {
		s.orders = append([]domain.Order{order}, s.orders...)
		s.trim()
	}
	err := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return created, err
}

// Get returns the order with the given ID.
func (s *OrderStore) Get(id string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			return s.orders[i], true
		}
	}
	return domain.Order{}, false
}

// List returns the orders matching the filter, newest first.
func (s *OrderStore) List(filter domain.OrderFilter) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, 0, len(s.orders))
	for i := range s.orders {
		if s.orders[i].Matches(filter) {
			out = append(out, s.orders[i])
		}
	}
	return out
}

// Len returns the number of retained orders.
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Clear drops all orders and their snapshot.
func (s *OrderStore) Clear() error {
	s.mu.Lock()
	s.orders = nil
	err := s.port.Clear("orders")
	s.mu.Unlock()
	s.subs.notify()
	return err
}

// Subscribe returns a subscription signaled after every mutation.
func (s *OrderStore) Subscribe() *Subscription {
	return s.subs.subscribe()
}

func (s *OrderStore) trim() {
	if s.cap > 0 && len(s.orders) > s.cap {
		s.orders = s.orders[:s.cap]
	}
}

func (s *OrderStore) persistLocked() error {
	full := ordersSnapshot{Orders: s.orders}
	return saveSnapshot(s.port, "orders", full, func() any {
		n := len(s.orders)
		if n > emergencyCap {
			n = emergencyCap
		}
		return ordersSnapshot{Orders: s.orders[:n]}
	})
}
