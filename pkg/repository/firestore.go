package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is the Firestore collection holding slot documents
const DefaultCollection = "edumentor_slots"

// slotDoc is one slot in Firestore. The payload is kept as a string field,
// so a slot is bounded by the 1 MiB document limit.
type slotDoc struct {
	Data      string    `firestore:"data"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type firestoreRepo struct {
	client     *firestore.Client
	collection string
}

// NewFirestore creates a repository storing one document per slot
func NewFirestore(ctx context.Context, projectID, databaseID, collection string, opts ...option.ClientOption) (Repository, error) {
	if projectID == "" {
		return nil, goerr.New("firestore project is required")
	}
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &firestoreRepo{
		client:     client,
		collection: collection,
	}, nil
}

func (r *firestoreRepo) Get(ctx context.Context, slot string) ([]byte, error) {
	snap, err := r.client.Collection(r.collection).Doc(slot).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, goerr.Wrap(ErrSlotNotFound, "firestore slot not found", goerr.V("slot", slot))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get slot document", goerr.V("slot", slot))
	}

	var doc slotDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode slot document", goerr.V("slot", slot))
	}
	return []byte(doc.Data), nil
}

func (r *firestoreRepo) Put(ctx context.Context, slot string, data []byte) error {
	doc := slotDoc{
		Data:      string(data),
		UpdatedAt: time.Now(),
	}
	if _, err := r.client.Collection(r.collection).Doc(slot).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to set slot document", goerr.V("slot", slot))
	}
	return nil
}

func (r *firestoreRepo) Delete(ctx context.Context, slot string) error {
	_, err := r.client.Collection(r.collection).Doc(slot).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return goerr.Wrap(err, "failed to delete slot document", goerr.V("slot", slot))
	}
	return nil
}

func (r *firestoreRepo) Close() error {
	return r.client.Close()
}
