package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HouseBooking/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	execs      []string
	commitErr  error
}

func (t *fakeTx) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	t.execs = append(t.execs, query)
	return nil, nil
}
func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }
func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}
func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs  []*fakeTx
	opts []*sql.TxOptions
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	b.txs = append(b.txs, tx)
	b.opts = append(b.opts, opts)
	return tx, nil
}

type countingMetrics struct{ reasons []string }

func (m *countingMetrics) IncTxRetry(reason string) { m.reasons = append(m.reasons, reason) }

func newManager(db TxBeginner, retries int, metrics Metrics) *TransactionManager {
	return NewTransactionManagerWithOptions(db, Options{MaxRetries: retries, LockTimeout: DefaultOptions.LockTimeout}, metrics)
}

func TestDoSerializable_CommitsOnSuccess(t *testing.T) {
	db := &fakeBeginner{}
	m := newManager(db, 3, nil)

	var sawTx bool
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		sawTx = dbmetrics.IsInTransaction(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawTx)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.Equal(t, sql.LevelSerializable, db.opts[0].Isolation)
	assert.Equal(t, []string{"SET LOCAL lock_timeout = '5000ms'"}, db.txs[0].execs)
}

func TestDoSerializable_RetriesSerializationFailures(t *testing.T) {
	db := &fakeBeginner{}
	metrics := &countingMetrics{}
	m := newManager(db, 3, metrics)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"serialization_failure", "serialization_failure"}, metrics.reasons)
	assert.True(t, db.txs[0].rolledBack)
	assert.True(t, db.txs[2].committed)
}

func TestDoSerializable_ExhaustsRetries(t *testing.T) {
	db := &fakeBeginner{}
	m := newManager(db, 2, nil)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("wrapped: %w", ErrConcurrentUpdate)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 3, calls)
}

func TestDoSerializable_BusinessErrorIsNotRetried(t *testing.T) {
	db := &fakeBeginner{}
	m := newManager(db, 3, nil)
	businessErr := errors.New("conflict")

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return businessErr
	})

	assert.Same(t, businessErr, err)
	assert.Equal(t, 1, calls)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
}

func TestDo_NestedCallJoinsOuterTransaction(t *testing.T) {
	db := &fakeBeginner{}
	m := newManager(db, 0, nil)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, db.txs, 1)
}

func TestDoSerializable_CommitFailure(t *testing.T) {
	db := &commitFailingBeginner{err: errors.New("connection reset")}
	m := newManager(db, 3, nil)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrCommit)
	assert.Equal(t, 1, db.begins)
}

type commitFailingBeginner struct {
	err    error
	begins int
}

func (b *commitFailingBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	return &fakeTx{commitErr: b.err}, nil
}

func TestRetryReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: errors.New("boom"), want: ""},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, want: "deadlock"},
		{name: "lock timeout", err: fmt.Errorf("x: %w", &pq.Error{Code: "55P03"}), want: "lock_timeout"},
		{name: "exclusion", err: &pq.Error{Code: "23P01"}, want: "exclusion_violation"},
		{name: "unique", err: &pq.Error{Code: "23505"}, want: ""},
		{name: "version", err: ErrConcurrentUpdate, want: "version_conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetryReason(tt.err))
		})
	}
}
