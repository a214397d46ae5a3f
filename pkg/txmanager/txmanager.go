package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-HouseBooking/pkg/dbmetrics"
)

var (
	// ErrConcurrentUpdate оборачивается репозиториями при провале оптимистичной проверки версии
	// Такие ошибки считаются временными: транзакция будет повторена целиком
	ErrConcurrentUpdate = errors.New("txmanager: concurrent update detected")

	// ErrRetriesExhausted возвращается, когда транзакция не прошла за отведенное число попыток
	ErrRetriesExhausted = errors.New("txmanager: transaction retries exhausted")

	// ErrBegin возвращается при ошибке открытия транзакции
	ErrBegin = errors.New("txmanager: failed to begin transaction")

	// ErrCommit возвращается при ошибке фиксации транзакции
	ErrCommit = errors.New("txmanager: failed to commit transaction")
)

// SQLSTATE коды Postgres, при которых транзакцию имеет смысл повторить
const (
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
	codeLockNotAvailable     pq.ErrorCode = "55P03"
	codeExclusionViolation   pq.ErrorCode = "23P01"
)

// TxBeginner интерфейс для начала транзакций (реализуется *dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// Metrics интерфейс для учета повторов
type Metrics interface {
	IncTxRetry(reason string)
}

// Options параметры менеджера транзакций
type Options struct {
	MaxRetries  int           // сколько раз повторять транзакцию после первой попытки
	Backoff     time.Duration // базовая пауза между попытками (растет линейно)
	LockTimeout time.Duration // ограничение ожидания блокировки строки внутри транзакции
}

// DefaultOptions значения по умолчанию
var DefaultOptions = Options{
	MaxRetries:  3,
	Backoff:     20 * time.Millisecond,
	LockTimeout: 5 * time.Second,
}

// TransactionManager выполняет функции в транзакции и повторяет их при конфликтах сериализации
// Повторяется транзакция целиком: бизнес-решение заново принимается на свежем состоянии
type TransactionManager struct {
	db      TxBeginner
	opts    Options
	metrics Metrics
}

// NewTransactionManager создает менеджер транзакций с опциями по умолчанию
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return NewTransactionManagerWithOptions(db, DefaultOptions, nil)
}

// NewTransactionManagerWithOptions создает менеджер транзакций; metrics может быть nil
func NewTransactionManagerWithOptions(db TxBeginner, opts Options, metrics Metrics) *TransactionManager {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &TransactionManager{db: db, opts: opts, metrics: metrics}
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
// Используется для захвата диапазона дат и для решений по бронированию
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов присоединяется к уже открытой транзакции
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 0; attempt <= m.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			reason := RetryReason(lastErr)
			if m.metrics != nil {
				m.metrics.IncTxRetry(reason)
			}
			if err := m.sleep(ctx, attempt); err != nil {
				return err
			}
		}

		lastErr = m.runOnce(ctx, opts, fn)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) || ctx.Err() != nil {
			return lastErr
		}
	}

	return fmt.Errorf("%w: after %d attempts: %v", ErrRetriesExhausted, m.opts.MaxRetries+1, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBegin, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if m.opts.LockTimeout > 0 {
		// SET LOCAL действует только до конца транзакции
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.opts.LockTimeout.Milliseconds())
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if err = fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		if IsRetryable(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}

	return nil
}

func (m *TransactionManager) sleep(ctx context.Context, attempt int) error {
	if m.opts.Backoff <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(attempt) * m.opts.Backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetryable сообщает, является ли ошибка временной ошибкой конкурентного доступа
func IsRetryable(err error) bool {
	return RetryReason(err) != ""
}

// RetryReason возвращает метку причины повтора или пустую строку, если повтор не нужен
func RetryReason(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrConcurrentUpdate) {
		return "version_conflict"
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return ""
	}

	switch pqErr.Code {
	case codeSerializationFailure:
		return "serialization_failure"
	case codeDeadlockDetected:
		return "deadlock"
	case codeLockNotAvailable:
		return "lock_timeout"
	case codeExclusionViolation:
		return "exclusion_violation"
	default:
		return ""
	}
}
