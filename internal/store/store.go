// File: internal/store/store.go

// Package store persists completed investigation summaries to PostgreSQL.
// The store is optional: it is only wired up when a database URL is
// configured, and the investigation pipeline treats persistence failures as
// non-fatal.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DBPool abstracts pgxpool.Pool so the store can be tested with pgxmock.
type DBPool interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// InvestigationRecord is one persisted investigation summary.
type InvestigationRecord struct {
	ID        string
	URL       string
	Score     int
	Breakdown *schemas.PrivacyScoreBreakdown
	CreatedAt time.Time
}

// Store is the PostgreSQL-backed investigation history.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a store and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{pool: pool, log: logger.Named("store")}, nil
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS investigations (
	id         UUID PRIMARY KEY,
	url        TEXT NOT NULL,
	score      INT NOT NULL,
	breakdown  JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the history table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to ensure investigations schema: %w", err)
	}
	return nil
}

// SaveInvestigation writes one completed investigation summary.
func (s *Store) SaveInvestigation(ctx context.Context, rec InvestigationRecord) error {
	breakdown, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal score breakdown: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO investigations (id, url, score, breakdown, created_at) VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.URL, rec.Score, breakdown, createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert investigation: %w", err)
	}

	s.log.Debug("Investigation persisted.",
		zap.String("id", rec.ID),
		zap.Int("score", rec.Score))
	return nil
}

// RecentInvestigations returns the latest persisted summaries, newest first.
func (s *Store) RecentInvestigations(ctx context.Context, limit int) ([]InvestigationRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, url, score, breakdown, created_at FROM investigations ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query investigations: %w", err)
	}
	defer rows.Close()

	var records []InvestigationRecord
	for rows.Next() {
		var rec InvestigationRecord
		var breakdown []byte
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Score, &breakdown, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan investigation row: %w", err)
		}
		if len(breakdown) > 0 {
			if err := json.Unmarshal(breakdown, &rec.Breakdown); err != nil {
				return nil, fmt.Errorf("failed to unmarshal score breakdown: %w", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read investigation rows: %w", err)
	}
	return records, nil
}
