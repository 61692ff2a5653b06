package repository

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/edumentor/pkg/adapter"
	"github.com/m-mizutani/goerr/v2"
)

type cloudStorageRepo struct {
	storage adapter.Storage
	prefix  string
}

// NewCloudStorage creates a repository storing each slot as an object
// <prefix>/<slot>.json through the given storage adapter.
func NewCloudStorage(storage adapter.Storage, prefix string) Repository {
	return &cloudStorageRepo{
		storage: storage,
		prefix:  prefix,
	}
}

func (r *cloudStorageRepo) key(slot string) string {
	return path.Join(r.prefix, slot+".json")
}

func (r *cloudStorageRepo) Get(ctx context.Context, slot string) ([]byte, error) {
	reader, err := r.storage.Get(ctx, r.key(slot))
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, goerr.Wrap(ErrSlotNotFound, "slot object not found", goerr.V("slot", slot))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open slot object", goerr.V("slot", slot))
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read slot object", goerr.V("slot", slot))
	}
	return data, nil
}

func (r *cloudStorageRepo) Put(ctx context.Context, slot string, data []byte) error {
	writer, err := r.storage.Put(ctx, r.key(slot))
	if err != nil {
		return goerr.Wrap(err, "failed to create slot writer", goerr.V("slot", slot))
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return goerr.Wrap(err, "failed to write slot object", goerr.V("slot", slot))
	}

	// The object is committed on Close
	if err := writer.Close(); err != nil {
		return goerr.Wrap(err, "failed to commit slot object", goerr.V("slot", slot))
	}
	return nil
}

func (r *cloudStorageRepo) Delete(ctx context.Context, slot string) error {
	err := r.storage.Delete(ctx, r.key(slot))
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return goerr.Wrap(err, "failed to delete slot object", goerr.V("slot", slot))
	}
	return nil
}

func (r *cloudStorageRepo) Close() error {
	return r.storage.Close()
}
