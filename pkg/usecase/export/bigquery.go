package export

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/edumentor/pkg/adapter"
	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// HistoryRow is the BigQuery row of one history entry
type HistoryRow struct {
	ID           string    `bigquery:"id"`
	Query        string    `bigquery:"query"`
	Kind         string    `bigquery:"type"`
	Timestamp    time.Time `bigquery:"timestamp"`
	ResponseKind string    `bigquery:"response_kind"`
	Difficulty   string    `bigquery:"difficulty"`
	Response     string    `bigquery:"response"`
}

// NewHistoryRow flattens an entry. The response is kept as a JSON string.
func NewHistoryRow(e *model.HistoryEntry) (*HistoryRow, error) {
	row := &HistoryRow{
		ID:        string(e.ID),
		Query:     e.Query,
		Kind:      string(e.Kind),
		Timestamp: e.Timestamp,
	}

	if e.Response != nil {
		raw, err := json.Marshal(e.Response)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal response", goerr.V("id", e.ID))
		}
		row.Response = string(raw)
		row.ResponseKind = string(e.Response.Kind)
		if e.Response.Explanation != nil {
			row.Difficulty = string(e.Response.Explanation.Difficulty)
		}
	}
	return row, nil
}

// HistorySchema returns the table schema of HistoryRow
func HistorySchema() (bigquery.Schema, error) {
	schema, err := bigquery.InferSchema(HistoryRow{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to infer history schema")
	}
	return schema, nil
}

// HistoryToBigQuery creates the table when missing and streams one row per
// entry. It returns the number of rows sent.
func HistoryToBigQuery(ctx context.Context, bq adapter.BigQuery, dataset, table string, entries []*model.HistoryEntry) (int, error) {
	schema, err := HistorySchema()
	if err != nil {
		return 0, err
	}
	if err := bq.EnsureTable(ctx, dataset, table, schema); err != nil {
		return 0, err
	}

	if len(entries) == 0 {
		return 0, nil
	}

	rows := make([]*HistoryRow, 0, len(entries))
	for _, e := range entries {
		row, err := NewHistoryRow(e)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	if err := bq.Insert(ctx, dataset, table, rows); err != nil {
		return 0, err
	}

	logging.From(ctx).Info("history exported to BigQuery",
		"dataset", dataset,
		"table", table,
		"rows", len(rows),
	)
	return len(rows), nil
}
