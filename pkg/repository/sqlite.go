package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS slots (
	name TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at DATETIME NOT NULL
);`

type sqliteRepo struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite database holding one row per slot
func NewSQLite(ctx context.Context, path string) (Repository, error) {
	if path == "" {
		return nil, goerr.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("path", path))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	// A single connection serializes writers; SQLite allows only one anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "failed to initialize sqlite schema", goerr.V("path", path))
	}

	return &sqliteRepo{db: db}, nil
}

func (r *sqliteRepo) Get(ctx context.Context, slot string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM slots WHERE name = ?`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(ErrSlotNotFound, "sqlite slot not found", goerr.V("slot", slot))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query slot", goerr.V("slot", slot))
	}
	return data, nil
}

func (r *sqliteRepo) Put(ctx context.Context, slot string, data []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO slots (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		slot, data, time.Now().UTC())
	if err != nil {
		return goerr.Wrap(err, "failed to upsert slot", goerr.V("slot", slot))
	}
	return nil
}

func (r *sqliteRepo) Delete(ctx context.Context, slot string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, slot); err != nil {
		return goerr.Wrap(err, "failed to delete slot", goerr.V("slot", slot))
	}
	return nil
}

func (r *sqliteRepo) Close() error {
	return r.db.Close()
}
