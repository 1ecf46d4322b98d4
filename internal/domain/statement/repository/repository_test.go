package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runRowColumns = []string{
	"id", "bank", "source", "fingerprint", "status", "transactions", "rows_dropped", "error", "result", "created_at",
}

func TestRunStore_CreateRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewRunStore(mock)
	id := uuid.New()
	created := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	payload := []byte(`{"data":[]}`)

	mock.ExpectQuery(`INSERT INTO statement_runs`).
		WithArgs(id, "hdfc", "statement.xlsx", "ab12", StatusSucceeded, 12, 3, (*string)(nil), payload).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	run, err := store.CreateRun(context.Background(), Run{
		ID:           id,
		Bank:         "hdfc",
		Source:       "statement.xlsx",
		Fingerprint:  "ab12",
		Status:       StatusSucceeded,
		Transactions: 12,
		RowsDropped:  3,
		Result:       payload,
	})
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, created, run.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_CreateRunAssignsID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	msg := "no header row found"
	mock.ExpectQuery(`INSERT INTO statement_runs`).
		WithArgs(pgxmock.AnyArg(), "iob", "", "", StatusFailed, 0, 0, &msg, []byte(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	run, err := NewRunStore(mock).CreateRun(context.Background(), Run{
		Bank:   "iob",
		Status: StatusFailed,
		Error:  &msg,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_CreateRunError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(`INSERT INTO statement_runs`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(boom)

	_, err = NewRunStore(mock).CreateRun(context.Background(), Run{Bank: "bob", Status: StatusSucceeded})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_GetRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	created := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, bank, source`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(runRowColumns).
			AddRow(id, "bob", "https://files.example.com/s.xls", "ff00", StatusSucceeded, 4, 1, (*string)(nil), []byte(`{}`), created))

	run, err := NewRunStore(mock).GetRun(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "bob", run.Bank)
	assert.Equal(t, 4, run.Transactions)
	assert.Nil(t, run.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_GetRunNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, bank, source`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewRunStore(mock).GetRun(context.Background(), id)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunStore_ListRecentRuns(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, bank, source`).
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows(runRowColumns).
			AddRow(uuid.New(), "hdfc", "a.xlsx", "", StatusSucceeded, 10, 0, (*string)(nil), []byte(nil), now).
			AddRow(uuid.New(), "iob", "b.xls", "", StatusSucceeded, 7, 2, (*string)(nil), []byte(nil), now.Add(-time.Hour)))

	runs, err := NewRunStore(mock).ListRecentRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "hdfc", runs[0].Bank)
	assert.Equal(t, 2, runs[1].RowsDropped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_FindSucceededRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, bank, source`).
		WithArgs("hdfc", "c0ffee", StatusSucceeded).
		WillReturnRows(pgxmock.NewRows(runRowColumns).
			AddRow(id, "hdfc", "s.xlsx", "c0ffee", StatusSucceeded, 2, 0, (*string)(nil), []byte(`{"data":[]}`), time.Now()))

	run, err := NewRunStore(mock).FindSucceededRun(context.Background(), "hdfc", "c0ffee")
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "c0ffee", run.Fingerprint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_FindSucceededRunMiss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, bank, source`).
		WithArgs("iob", "beef", StatusSucceeded).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewRunStore(mock).FindSucceededRun(context.Background(), "iob", "beef")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
