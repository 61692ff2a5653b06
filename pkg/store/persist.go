package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m-mizutani/edumentor/pkg/repository"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// StorageError reports a failed write of a collection. The in-memory
// mutation that preceded the write is kept.
type StorageError struct {
	Slot string
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s of %s failed: %v", e.Op, e.Slot, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// loadSlot reads a collection. Absent slots and slots that are not a JSON
// array yield an empty collection; only a nil repository is an error.
// Elements are decoded one by one and those that fail to decode or are
// rejected by valid are dropped, keeping the rest.
func loadSlot[T any](ctx context.Context, repo repository.Repository, slot string, valid func(T) bool) ([]T, error) {
	if repo == nil {
		return nil, goerr.New("repository is not configured")
	}

	logger := logging.From(ctx).With("slot", slot)

	data, err := repo.Get(ctx, slot)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			logger.Debug("slot is absent, starting empty")
		} else {
			logger.Warn("failed to read slot, starting empty", "error", err)
		}
		return []T{}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		logger.Warn("slot is corrupt, starting empty", "error", err)
		return []T{}, nil
	}

	kept := make([]T, 0, len(raws))
	for i, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			logger.Warn("dropped undecodable element", "index", i, "error", err)
			continue
		}
		if !valid(item) {
			logger.Warn("dropped malformed element", "index", i)
			continue
		}
		kept = append(kept, item)
	}
	return kept, nil
}

func saveSlot[T any](ctx context.Context, repo repository.Repository, slot string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return &StorageError{Slot: slot, Op: "encode", Err: err}
	}

	if err := repo.Put(ctx, slot, data); err != nil {
		logging.From(ctx).Error("failed to write slot", "slot", slot, "error", err)
		return &StorageError{Slot: slot, Op: "put", Err: err}
	}
	return nil
}

func deleteSlot(ctx context.Context, repo repository.Repository, slot string) error {
	if err := repo.Delete(ctx, slot); err != nil {
		logging.From(ctx).Error("failed to delete slot", "slot", slot, "error", err)
		return &StorageError{Slot: slot, Op: "delete", Err: err}
	}
	return nil
}
