package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/imrishuroy/receipt-points/internal/receipts"
)

// MaxIDAttempts bounds id regeneration on collision.
const MaxIDAttempts = 10

// ErrIDExhausted is returned when every generated id collided with an existing record.
var ErrIDExhausted = errors.New("could not generate a unique receipt id")

// Store persists accepted receipts under generated ids.
// Records are written once and never updated or deleted.
type Store interface {
	// Save stores r under a fresh id and returns the id.
	Save(ctx context.Context, r receipts.Receipt) (string, error)
	// Get fetches a receipt by id. Returns (nil, nil) if not found.
	Get(ctx context.Context, id string) (*receipts.Receipt, error)
	// Close releases the store. A closed store must not be used again.
	Close() error
}

// IDFunc generates candidate receipt ids.
type IDFunc func() string

// NewID returns a random (version 4) UUID in canonical form.
func NewID() string { return uuid.NewString() }
