package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

type memoryRepo struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemory creates a repository that keeps slots in process memory
func NewMemory() Repository {
	return &memoryRepo{
		slots: make(map[string][]byte),
	}
}

func (r *memoryRepo) Get(ctx context.Context, slot string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.slots[slot]
	if !ok {
		return nil, goerr.Wrap(ErrSlotNotFound, "memory slot not found", goerr.V("slot", slot))
	}
	return append([]byte(nil), data...), nil
}

func (r *memoryRepo) Put(ctx context.Context, slot string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[slot] = append([]byte(nil), data...)
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, slot string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.slots, slot)
	return nil
}

func (r *memoryRepo) Close() error {
	return nil
}
