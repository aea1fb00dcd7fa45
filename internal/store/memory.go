package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/imrishuroy/receipt-points/internal/receipts"
)

// ErrClosed is returned by a MemoryStore after Close.
var ErrClosed = errors.New("store closed")

// MemoryStore keeps receipts in a process-local map. Contents are lost on exit.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]receipts.Record
	closed  bool
	newID   IDFunc
	nowFunc func() time.Time
}

// NewMemoryStore returns an empty MemoryStore. A nil newID defaults to NewID.
func NewMemoryStore(newID IDFunc) *MemoryStore {
	if newID == nil {
		newID = NewID
	}
	return &MemoryStore{
		records: map[string]receipts.Record{},
		newID:   newID,
		nowFunc: time.Now,
	}
}

// Save stores r under a fresh id, regenerating on collision up to MaxIDAttempts times.
func (s *MemoryStore) Save(ctx context.Context, r receipts.Receipt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}
	for attempt := 0; attempt < MaxIDAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		id := s.newID()
		if _, exists := s.records[id]; exists {
			continue
		}
		s.records[id] = receipts.Record{
			ID:        id,
			Receipt:   cloneReceipt(r),
			CreatedAt: s.nowFunc().UTC(),
		}
		return id, nil
	}
	return "", fmt.Errorf("save receipt after %d attempts: %w", MaxIDAttempts, ErrIDExhausted)
}

// Get fetches a receipt by id. Returns (nil, nil) if not found.
func (s *MemoryStore) Get(ctx context.Context, id string) (*receipts.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	r := cloneReceipt(rec.Receipt)
	return &r, nil
}

// Len reports the number of stored receipts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close drops every record.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.closed = true
	return nil
}

// cloneReceipt copies the items slice so callers cannot mutate stored state.
func cloneReceipt(r receipts.Receipt) receipts.Receipt {
	items := make([]receipts.Item, len(r.Items))
	copy(items, r.Items)
	r.Items = items
	return r
}
