// Package repository persists statement conversion runs.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrRunNotFound = errors.New("statement run not found")

// Run statuses
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Run is one conversion attempt
type Run struct {
	ID           uuid.UUID `json:"id"`
	Bank         string    `json:"bank"`
	Source       string    `json:"source"`
	Fingerprint  string    `json:"fingerprint"`
	Status       string    `json:"status"`
	Transactions int       `json:"transactions"`
	RowsDropped  int       `json:"rows_dropped"`
	Error        *string   `json:"error,omitempty"`
	Result       []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository stores runs in statement_runs
type Repository interface {
	CreateRun(ctx context.Context, run Run) (*Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	ListRecentRuns(ctx context.Context, limit int) ([]Run, error)
	FindSucceededRun(ctx context.Context, bank, fingerprint string) (*Run, error)
}

// RunStore is the Postgres Repository
type RunStore struct {
	db DBTX
}

func NewRunStore(db DBTX) *RunStore {
	return &RunStore{db: db}
}

const runColumns = `id, bank, source, fingerprint, status, transactions, rows_dropped, error, result, created_at`

// CreateRun inserts a run, assigning an ID when none is set
func (s *RunStore) CreateRun(ctx context.Context, run Run) (*Run, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	query := `
		INSERT INTO statement_runs (
			id, bank, source, fingerprint, status, transactions, rows_dropped, error, result
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := s.db.QueryRow(ctx, query,
		run.ID,
		run.Bank,
		run.Source,
		run.Fingerprint,
		run.Status,
		run.Transactions,
		run.RowsDropped,
		run.Error,
		run.Result,
	).Scan(&run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert statement run: %w", err)
	}
	return &run, nil
}

func (s *RunStore) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM statement_runs WHERE id = $1`

	run, err := scanRun(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get statement run: %w", err)
	}
	return run, nil
}

// FindSucceededRun returns the newest successful run of the same file
// content for a bank
func (s *RunStore) FindSucceededRun(ctx context.Context, bank, fingerprint string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM statement_runs
		WHERE bank = $1 AND fingerprint = $2 AND status = $3
		ORDER BY created_at DESC LIMIT 1`

	run, err := scanRun(s.db.QueryRow(ctx, query, bank, fingerprint, StatusSucceeded))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find statement run: %w", err)
	}
	return run, nil
}

// ListRecentRuns returns the newest runs first
func (s *RunStore) ListRecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + runColumns + ` FROM statement_runs ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list statement runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row) (*Run, error) {
	var r Run
	err := row.Scan(
		&r.ID, &r.Bank, &r.Source, &r.Fingerprint, &r.Status, &r.Transactions,
		&r.RowsDropped, &r.Error, &r.Result, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
