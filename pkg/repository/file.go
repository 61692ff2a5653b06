package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

type fileRepo struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates a repository storing each slot as <dir>/<slot>.json
func NewFile(dir string) (Repository, error) {
	if dir == "" {
		return nil, goerr.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create data directory", goerr.V("dir", dir))
	}
	return &fileRepo{dir: dir}, nil
}

func (r *fileRepo) path(slot string) string {
	return filepath.Join(r.dir, slot+".json")
}

func (r *fileRepo) Get(ctx context.Context, slot string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, goerr.Wrap(ErrSlotNotFound, "slot file not found", goerr.V("slot", slot))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read slot file", goerr.V("slot", slot))
	}
	return data, nil
}

func (r *fileRepo) Put(ctx context.Context, slot string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Write to a temporary file and rename so readers never see a partial slot
	path := r.path(slot)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write slot file", goerr.V("slot", slot))
	}
	if err := os.Rename(tmp, path); err != nil {
		return goerr.Wrap(err, "failed to rename slot file", goerr.V("slot", slot))
	}
	return nil
}

func (r *fileRepo) Delete(ctx context.Context, slot string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path(slot)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "failed to remove slot file", goerr.V("slot", slot))
	}
	return nil
}

func (r *fileRepo) Close() error {
	return nil
}
