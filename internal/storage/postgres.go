package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pfrederiksen/golfriket-clubs/internal/club"
	"github.com/pfrederiksen/golfriket-clubs/internal/logger"
)

// TableName is the table the PostgreSQL sink writes to
const TableName = "golf_clubs"

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS golf_clubs (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		url TEXT NOT NULL,
		address TEXT NOT NULL,
		address_found BOOLEAN NOT NULL,
		scraped_at TIMESTAMPTZ NOT NULL
	);
`

const upsertSQL = `
	INSERT INTO golf_clubs (id, position, name, latitude, longitude, url, address, address_found, scraped_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		position = EXCLUDED.position,
		name = EXCLUDED.name,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		url = EXCLUDED.url,
		address = EXCLUDED.address,
		address_found = EXCLUDED.address_found,
		scraped_at = EXCLUDED.scraped_at
`

// Beginner starts transactions. *pgx.Conn and *pgxpool.Pool both satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresWriter upserts clubs into the golf_clubs table
type PostgresWriter struct {
	db  Beginner
	now func() time.Time
}

// NewPostgresWriter creates a PostgresWriter on db
func NewPostgresWriter(db Beginner) *PostgresWriter {
	return &PostgresWriter{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Connect opens a single connection for dsn
func Connect(ctx context.Context, dsn string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return conn, nil
}

// Write creates the table if needed and upserts every club in one
// transaction. Rows keep their listing position in the position column.
func (w *PostgresWriter) Write(ctx context.Context, clubs []*club.Club) error {
	logger.Info("Saving data", logger.Fields{"table": TableName, "count": len(clubs)})

	tx, err := w.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if _, err := tx.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	scrapedAt := w.now()
	batch := &pgx.Batch{}
	for i, c := range clubs {
		batch.Queue(upsertSQL, c.ID, i, c.Name, c.Latitude, c.Longitude, c.URL, c.Address, c.AddressFound, scrapedAt)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upserting clubs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
