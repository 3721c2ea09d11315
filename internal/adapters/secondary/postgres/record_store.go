package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	ports "model-platform-sdk/internal/core/ports/output"
)

const pgUniqueViolation = "23505"

// Schema creates the single document table the record store uses.
const Schema = `
	CREATE TABLE IF NOT EXISTS platform_record (
		kind       TEXT        NOT NULL,
		id         TEXT        NOT NULL,
		payload    JSONB       NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (kind, id)
	)
`

// DBTX is the subset of *pgxpool.Pool the store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type recordStore struct {
	db DBTX
}

// NewRecordStore creates a RecordStore backed by the platform_record table.
func NewRecordStore(db DBTX) ports.RecordStore {
	return &recordStore{db: db}
}

// EnsureSchema creates the record table if it does not exist.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create platform_record table: %w", err)
	}
	return nil
}

func (s *recordStore) Insert(ctx context.Context, kind, id string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}

	query := `INSERT INTO platform_record (kind, id, payload) VALUES ($1, $2, $3)`

	if _, err := s.db.Exec(ctx, query, kind, id, payload); err != nil {
		if isUniqueViolation(err) {
			return ports.ErrRecordExists
		}
		return fmt.Errorf("insert %s record: %w", kind, err)
	}
	return nil
}

func (s *recordStore) Put(ctx context.Context, kind, id string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}

	query := `
		INSERT INTO platform_record (kind, id, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, id) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, kind, id, payload); err != nil {
		return fmt.Errorf("put %s record: %w", kind, err)
	}
	return nil
}

func (s *recordStore) Get(ctx context.Context, kind, id string, v any) error {
	query := `SELECT payload FROM platform_record WHERE kind = $1 AND id = $2`

	var payload []byte
	if err := s.db.QueryRow(ctx, query, kind, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.ErrRecordNotFound
		}
		return fmt.Errorf("get %s record: %w", kind, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode %s record: %w", kind, err)
	}
	return nil
}

func (s *recordStore) Delete(ctx context.Context, kind, id string) error {
	query := `DELETE FROM platform_record WHERE kind = $1 AND id = $2`

	result, err := s.db.Exec(ctx, query, kind, id)
	if err != nil {
		return fmt.Errorf("delete %s record: %w", kind, err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrRecordNotFound
	}
	return nil
}

func (s *recordStore) List(ctx context.Context, kind string, fn func(raw []byte) error) error {
	query := `SELECT payload FROM platform_record WHERE kind = $1 ORDER BY created_at, id`

	rows, err := s.db.Query(ctx, query, kind)
	if err != nil {
		return fmt.Errorf("list %s records: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return fmt.Errorf("scan %s record: %w", kind, err)
		}
		if err := fn(payload); err != nil {
			return err
		}
	}
	return rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
