package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/internal/store"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_collections (
    key        TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

type kvRow struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

type PGRepository struct {
	DB     *sqlx.DB
	prefix string
	now    func() time.Time
}

func NewPGRepository(db *sqlx.DB, prefix string) *PGRepository {
	return &PGRepository{DB: db, prefix: prefix, now: time.Now}
}

// Migrate creates the collection table if it does not exist yet.
func (r *PGRepository) Migrate(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate kv_collections: %w", err)
	}
	return nil
}

func (r *PGRepository) Read(ctx context.Context, c store.Collection) ([]byte, error) {
	var value string
	err := r.DB.GetContext(ctx, &value, `SELECT value FROM kv_collections WHERE key = $1`, c.Key(r.prefix))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(value), nil
}

func (r *PGRepository) WriteAll(ctx context.Context, entries ...store.Entry) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsertQuery := `
        INSERT INTO kv_collections (key, value, updated_at)
        VALUES (:key, CAST(:value AS JSONB), :updated_at)
        ON CONFLICT (key)
        DO UPDATE SET
            value = EXCLUDED.value,
            updated_at = EXCLUDED.updated_at
    `
	now := r.now()
	for _, e := range entries {
		row := kvRow{Key: e.Collection.Key(r.prefix), Value: string(e.Data), UpdatedAt: now}
		if _, err := tx.NamedExecContext(ctx, upsertQuery, row); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.Collection, err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) Close() error {
	return r.DB.Close()
}
