package adapter

import (
	"context"
	"errors"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// BigQuery is an interface for BigQuery operations
type BigQuery interface {
	// EnsureTable creates the table with the given schema if it does not exist
	EnsureTable(ctx context.Context, datasetID, tableID string, schema bigquery.Schema) error

	// Insert streams rows into a table. rows is a slice of structs or ValueSavers.
	Insert(ctx context.Context, datasetID, tableID string, rows any) error

	// Close releases the client
	Close() error
}

type bigqueryClient struct {
	client *bigquery.Client
}

// NewBigQuery creates a new BigQuery client
func NewBigQuery(ctx context.Context, projectID string, opts ...option.ClientOption) (BigQuery, error) {
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client")
	}

	return &bigqueryClient{
		client: client,
	}, nil
}

func (bq *bigqueryClient) EnsureTable(ctx context.Context, datasetID, tableID string, schema bigquery.Schema) error {
	tbl := bq.client.Dataset(datasetID).Table(tableID)

	_, err := tbl.Metadata(ctx)
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
		return goerr.Wrap(err, "failed to get table metadata",
			goerr.V("dataset", datasetID), goerr.V("table", tableID))
	}

	if err := tbl.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		// Another writer may have created it in between
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
			return nil
		}
		return goerr.Wrap(err, "failed to create table",
			goerr.V("dataset", datasetID), goerr.V("table", tableID))
	}

	return nil
}

func (bq *bigqueryClient) Insert(ctx context.Context, datasetID, tableID string, rows any) error {
	inserter := bq.client.Dataset(datasetID).Table(tableID).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return goerr.Wrap(err, "failed to insert rows",
			goerr.V("dataset", datasetID), goerr.V("table", tableID))
	}
	return nil
}

func (bq *bigqueryClient) Close() error {
	return bq.client.Close()
}
