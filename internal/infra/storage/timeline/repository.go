package timeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-HouseBooking/pkg/psqlbuilder"
)

const tableTimeline = "timeline_events"

// Repository журнал событий бронирований (только добавление)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет события и проставляет им seq из последовательности БД
func (r *Repository) Append(ctx context.Context, events []domain.TimelineEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for i := range events {
		query, args, err := buildInsert(events[i])
		if err != nil {
			return err
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&events[i].Seq); err != nil {
			return fmt.Errorf("%w: Append - insert event kind=%s: %w", ErrExecQuery, events[i].Kind, err)
		}
	}

	return nil
}

// ListByBooking события бронирования в порядке (occurred_at, seq)
func (r *Repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.TimelineEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectByBooking(bookingID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]domain.TimelineEvent, 0)
	for rows.Next() {
		var (
			e       domain.TimelineEvent
			kind    string
			payload []byte
		)
		if err := rows.Scan(&e.Seq, &e.BookingID, &e.OccurredAt, &kind, &e.Actor, &payload); err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan event: %w", ErrScanRow, err)
		}
		e.Kind = domain.EventKind(kind)
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, fmt.Errorf("%w: ListByBooking - seq=%d: %v", ErrPayload, e.Seq, err)
			}
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %w", ErrScanRow, err)
	}

	return events, nil
}

func buildInsert(e domain.TimelineEvent) (string, []interface{}, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: buildInsert - marshal: %v", ErrPayload, err)
	}

	query, args, err := psqlbuilder.Insert(tableTimeline).
		Columns("booking_id", "occurred_at", "kind", "actor", "payload").
		Values(e.BookingID.String(), e.OccurredAt, string(e.Kind), e.Actor, string(payload)).
		Suffix("RETURNING seq").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: buildInsert - build insert query: %v", ErrBuildQuery, err)
	}

	return query, args, nil
}

func selectByBooking(bookingID uuid.UUID) squirrel.SelectBuilder {
	return psqlbuilder.Select("seq", "booking_id", "occurred_at", "kind", "actor", "payload").
		From(tableTimeline).
		Where(squirrel.Eq{"booking_id": bookingID.String()}).
		OrderBy("occurred_at ASC", "seq ASC")
}
