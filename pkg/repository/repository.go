package repository

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// ErrSlotNotFound is returned by Get when the slot has never been written
var ErrSlotNotFound = goerr.New("slot not found")

// Repository is a durable key/value store of named slots. Each slot holds
// one serialized collection and is replaced as a whole on Put.
type Repository interface {
	// Get returns the content of a slot or ErrSlotNotFound
	Get(ctx context.Context, slot string) ([]byte, error)

	// Put replaces the content of a slot
	Put(ctx context.Context, slot string, data []byte) error

	// Delete removes a slot. Deleting an absent slot is not an error.
	Delete(ctx context.Context, slot string) error

	// Close releases the underlying resource
	Close() error
}
