package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-HouseBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-HouseBooking/pkg/timeprovider"
)

// Repository репозиторий бронирований и их строк согласования
// Бронирование и его три строки approvals читаются и пишутся вместе
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование и три строки согласования
// Должен вызываться внутри транзакции: иначе бронирование может остаться без approvals
func (r *Repository) Create(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"id",
			"requester_email",
			"requester_first_name",
			"start_date",
			"end_date",
			"party_size",
			"affiliation",
			"description",
			"status",
			"version",
			"created_at",
			"updated_at",
			"last_activity_at",
			"archived_at",
		).
		Values(
			b.ID.String(),
			b.RequesterEmail,
			b.RequesterFirstName,
			b.Range.Start,
			b.Range.End,
			b.PartySize,
			b.Affiliation.String(),
			b.Description,
			string(b.Status),
			b.Version,
			b.CreatedAt,
			b.UpdatedAt,
			b.LastActivityAt,
			b.ArchivedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	insert := psqlbuilder.Insert(tableApprovals).Columns(approvalColumns...)
	for _, p := range domain.AllParties {
		a := b.Approvals.Get(p)
		insert = insert.Values(b.ID.String(), p.String(), string(a.Decision), a.Comment, a.DecidedAt)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build approvals insert: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - insert approvals: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает бронирование со строками согласования
// В транзакции блокирует строку бронирования, затем строки approvals (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	forUpdate := dbmetrics.IsInTransaction(ctx)

	query, args, err := selectByID(id, forUpdate).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	if err := r.loadApprovals(ctx, []*domain.Booking{b}, forUpdate); err != nil {
		return nil, err
	}

	return b, nil
}

// Update сохраняет изменения бронирования и его согласований
// Оптимистичная проверка: WHERE version = b.Version; при успехе версия увеличивается
func (r *Repository) Update(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("requester_first_name", b.RequesterFirstName).
		Set("start_date", b.Range.Start).
		Set("end_date", b.Range.End).
		Set("party_size", b.PartySize).
		Set("affiliation", b.Affiliation.String()).
		Set("description", b.Description).
		Set("status", string(b.Status)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", b.UpdatedAt).
		Set("last_activity_at", b.LastActivityAt).
		Set("archived_at", b.ArchivedAt).
		Where(squirrel.Eq{"id": b.ID.String()}).
		Where(squirrel.Eq{"version": b.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrVersionConflict
	}

	for _, p := range domain.AllParties {
		if err := r.updateApproval(ctx, executor, b.ID, b.Approvals.Get(p)); err != nil {
			return err
		}
	}

	b.Version++
	return nil
}

func (r *Repository) updateApproval(ctx context.Context, executor DBExecutor, bookingID uuid.UUID, a domain.Approval) error {
	query, args, err := psqlbuilder.Update(tableApprovals).
		Set("decision", string(a.Decision)).
		Set("comment", a.Comment).
		Set("decided_at", a.DecidedAt).
		Where(squirrel.Eq{"booking_id": bookingID.String()}).
		Where(squirrel.Eq{"party": a.Party.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: updateApproval - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: updateApproval - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updateApproval - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: updateApproval - booking=%s party=%s", ErrIncompleteQuorum, bookingID, a.Party)
	}

	return nil
}

// ListBlocking Pending/Confirmed бронирования вне архива, пересекающие диапазон
// В транзакции строки блокируются в порядке (start_date, id)
func (r *Repository) ListBlocking(ctx context.Context, rng domain.DateRange, exclude uuid.UUID) ([]*domain.Booking, error) {
	forUpdate := dbmetrics.IsInTransaction(ctx)
	return r.list(ctx, "ListBlocking", selectBlocking(rng, exclude, forUpdate), forUpdate)
}

// ListOutstanding Pending бронирования, по которым сторона еще не ответила
func (r *Repository) ListOutstanding(ctx context.Context, party domain.Party, limit int) ([]*domain.Booking, error) {
	return r.list(ctx, "ListOutstanding", selectOutstanding(party, uint64(limit)), false)
}

// ListHistory все бронирования с участием стороны, включая архив
func (r *Repository) ListHistory(ctx context.Context, party domain.Party, limit int) ([]*domain.Booking, error) {
	return r.list(ctx, "ListHistory", selectHistory(party, uint64(limit)), false)
}

// ListAwaitingFuture Pending бронирования с датой начала после today
func (r *Repository) ListAwaitingFuture(ctx context.Context, today time.Time) ([]*domain.Booking, error) {
	return r.list(ctx, "ListAwaitingFuture", selectAwaitingFuture(today), false)
}

// ListLapsedPendingIDs ID Pending бронирований с end_date < today
func (r *Repository) ListLapsedPendingIDs(ctx context.Context, today time.Time) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectLapsedPending(today).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListLapsedPendingIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListLapsedPendingIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListLapsedPendingIDs - scan id: %w", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListLapsedPendingIDs - rows error: %w", ErrScanRow, err)
	}

	return ids, nil
}

// DeletePurgeable физически удаляет архивные Canceled старше archivedBefore
// и Denied с end_date < today; approvals и timeline удаляются каскадно
func (r *Repository) DeletePurgeable(ctx context.Context, archivedBefore, today time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := deletePurgeable(archivedBefore, today).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeletePurgeable - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeletePurgeable - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeletePurgeable - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder, forUpdate bool) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadApprovals(ctx, bookings, forUpdate); err != nil {
		return nil, err
	}

	return bookings, nil
}

// loadApprovals подгружает строки согласования одним запросом
func (r *Repository) loadApprovals(ctx context.Context, bookings []*domain.Booking, forUpdate bool) error {
	if len(bookings) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	byID := make(map[uuid.UUID]*domain.Booking, len(bookings))
	ids := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query, args, err := selectApprovals(ids, forUpdate).ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadApprovals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadApprovals - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	seen := make(map[uuid.UUID]int, len(bookings))
	for rows.Next() {
		var (
			bookingID uuid.UUID
			a         domain.Approval
			decision  string
			decidedAt sql.NullTime
		)
		if err := rows.Scan(&bookingID, &a.Party, &decision, &a.Comment, &decidedAt); err != nil {
			return fmt.Errorf("%w: loadApprovals - scan approval: %w", ErrScanRow, err)
		}
		a.Decision = domain.Decision(decision)
		if decidedAt.Valid {
			t := decidedAt.Time
			a.DecidedAt = &t
		}

		b, ok := byID[bookingID]
		if !ok || !a.Party.Valid() {
			continue
		}
		b.Approvals[a.Party] = a
		seen[bookingID]++
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadApprovals - rows error: %w", ErrScanRow, err)
	}

	for _, b := range bookings {
		if seen[b.ID] != domain.PartyCount {
			return fmt.Errorf("%w: booking=%s has %d", ErrIncompleteQuorum, b.ID, seen[b.ID])
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b          domain.Booking
		start, end time.Time
		status     string
		archivedAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.RequesterEmail,
		&b.RequesterFirstName,
		&start,
		&end,
		&b.PartySize,
		&b.Affiliation,
		&b.Description,
		&status,
		&b.Version,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.LastActivityAt,
		&archivedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Range = domain.DateRange{Start: timeprovider.DateOf(start), End: timeprovider.DateOf(end)}
	b.Status = domain.BookingStatus(status)
	if archivedAt.Valid {
		t := archivedAt.Time
		b.ArchivedAt = &t
	}

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
