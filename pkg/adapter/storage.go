package adapter

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// Storage is the interface for object storage
type Storage interface {
	// Put returns a writer to save an object. The object is committed on Close.
	Put(ctx context.Context, key string) (io.WriteCloser, error)
	// Get opens an object for reading
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes an object
	Delete(ctx context.Context, key string) error
	// Close releases the client
	Close() error
}

// storageClient implements Storage interface using Cloud Storage
type storageClient struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage client
func NewStorage(ctx context.Context, bucketName string, opts ...option.ClientOption) (Storage, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *storageClient) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	writer := obj.NewWriter(ctx)
	writer.ContentType = "application/json"
	return writer, nil
}

func (s *storageClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read from storage", goerr.Value("key", key))
	}

	return reader, nil
}

func (s *storageClient) Delete(ctx context.Context, key string) error {
	if err := s.client.Bucket(s.bucketName).Object(key).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete from storage", goerr.Value("key", key))
	}
	return nil
}

func (s *storageClient) Close() error {
	return s.client.Close()
}
