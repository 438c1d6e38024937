package searchrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/seven-day-fit/internal/domain/location"
)

const schema = `
CREATE TABLE IF NOT EXISTS location_searches (
	id           BIGSERIAL PRIMARY KEY,
	input        TEXT NOT NULL,
	display_name TEXT NOT NULL,
	lat          DOUBLE PRECISION NOT NULL,
	lon          DOUBLE PRECISION NOT NULL,
	confidence   DOUBLE PRECISION NOT NULL,
	accepted     BOOLEAN NOT NULL,
	cached       BOOLEAN NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS location_searches_created_at_idx ON location_searches (created_at DESC);
`

// PostgresRepository stores resolution history in the location_searches table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the history table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

func (r *PostgresRepository) Insert(ctx context.Context, record location.SearchRecord) (location.SearchRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO location_searches (input, display_name, lat, lon, confidence, accepted, cached, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, input, display_name, lat, lon, confidence, accepted, cached, created_at
	`, record.Input, record.DisplayName, record.Lat, record.Lon, record.Confidence, record.Accepted, record.Cached, record.CreatedAt)
	return scanRecord(row)
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]location.SearchRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, input, display_name, lat, lon, confidence, accepted, cached, created_at
		FROM location_searches
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]location.SearchRecord, 0, limit)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (location.SearchRecord, error) {
	var record location.SearchRecord
	err := row.Scan(
		&record.ID,
		&record.Input,
		&record.DisplayName,
		&record.Lat,
		&record.Lon,
		&record.Confidence,
		&record.Accepted,
		&record.Cached,
		&record.CreatedAt,
	)
	if err != nil {
		return location.SearchRecord{}, err
	}
	return record, nil
}

var _ location.HistoryRepository = (*PostgresRepository)(nil)
