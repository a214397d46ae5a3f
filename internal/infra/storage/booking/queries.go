package booking

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/pkg/psqlbuilder"
)

const (
	tableBookings  = "bookings"
	tableApprovals = "approvals"
)

// bookingColumns порядок колонок должен совпадать со scanBooking
var bookingColumns = []string{
	"b.id",
	"b.requester_email",
	"b.requester_first_name",
	"b.start_date",
	"b.end_date",
	"b.party_size",
	"b.affiliation",
	"b.description",
	"b.status",
	"b.version",
	"b.created_at",
	"b.updated_at",
	"b.last_activity_at",
	"b.archived_at",
}

var approvalColumns = []string{
	"booking_id",
	"party",
	"decision",
	"comment",
	"decided_at",
}

func blockingStatuses() []string {
	statuses := make([]string, len(domain.BlockingStatuses))
	for i, s := range domain.BlockingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// idStrings uuid.UUID - массив байт, squirrel развернул бы его в IN (...)
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).From(tableBookings + " b")
}

// selectByID бронирование по ID; в транзакции строка блокируется
func selectByID(id uuid.UUID, forUpdate bool) squirrel.SelectBuilder {
	q := selectBookings().Where(squirrel.Eq{"b.id": id.String()})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	return q
}

// selectApprovals строки согласования; блокируются после строк бронирований
func selectApprovals(ids []uuid.UUID, forUpdate bool) squirrel.SelectBuilder {
	q := psqlbuilder.Select(approvalColumns...).
		From(tableApprovals).
		Where(squirrel.Eq{"booking_id": idStrings(ids)}).
		OrderBy("booking_id ASC", "party ASC")
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	return q
}

// selectBlocking активные Pending/Confirmed бронирования, пересекающие диапазон
// Сортировка стабильная, чтобы конкурирующие транзакции брали блокировки в одном порядке
func selectBlocking(rng domain.DateRange, exclude uuid.UUID, forUpdate bool) squirrel.SelectBuilder {
	// пересечение: start <= rng.End AND end >= rng.Start
	q := selectBookings().
		Where(squirrel.Eq{"b.status": blockingStatuses()}).
		Where(squirrel.Eq{"b.archived_at": nil}).
		Where(squirrel.LtOrEq{"b.start_date": rng.End}).
		Where(squirrel.GtOrEq{"b.end_date": rng.Start})

	if exclude != uuid.Nil {
		q = q.Where(squirrel.NotEq{"b.id": exclude.String()})
	}
	q = q.OrderBy("b.start_date ASC", "b.id ASC")
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	return q
}

// selectOutstanding Pending бронирования, ожидающие ответа стороны
func selectOutstanding(party domain.Party, limit uint64) squirrel.SelectBuilder {
	return selectBookings().
		Join(tableApprovals+" a ON a.booking_id = b.id").
		Where(squirrel.Eq{"a.party": party.String()}).
		Where(squirrel.Eq{"a.decision": string(domain.DecisionNoResponse)}).
		Where(squirrel.Eq{"b.status": string(domain.StatusPending)}).
		Where(squirrel.Eq{"b.archived_at": nil}).
		OrderBy("b.last_activity_at DESC", "b.id ASC").
		Limit(limit)
}

// selectHistory все бронирования с участием стороны, включая архив
func selectHistory(party domain.Party, limit uint64) squirrel.SelectBuilder {
	return selectBookings().
		Join(tableApprovals+" a ON a.booking_id = b.id").
		Where(squirrel.Eq{"a.party": party.String()}).
		OrderBy("b.last_activity_at DESC", "b.id ASC").
		Limit(limit)
}

// selectAwaitingFuture Pending бронирования, которые еще не начались
func selectAwaitingFuture(today time.Time) squirrel.SelectBuilder {
	return selectBookings().
		Where(squirrel.Eq{"b.status": string(domain.StatusPending)}).
		Where(squirrel.Eq{"b.archived_at": nil}).
		Where(squirrel.Gt{"b.start_date": today}).
		OrderBy("b.start_date ASC", "b.id ASC")
}

// selectLapsedPending Pending бронирования, диапазон которых уже прошел
func selectLapsedPending(today time.Time) squirrel.SelectBuilder {
	return psqlbuilder.Select("b.id").
		From(tableBookings+" b").
		Where(squirrel.Eq{"b.status": string(domain.StatusPending)}).
		Where(squirrel.Eq{"b.archived_at": nil}).
		Where(squirrel.Lt{"b.end_date": today}).
		OrderBy("b.end_date ASC", "b.id ASC")
}

// deletePurgeable архивные Canceled старше порога и прошедшие Denied
// Confirmed не удаляются никогда
func deletePurgeable(archivedBefore, today time.Time) squirrel.DeleteBuilder {
	return psqlbuilder.Delete(tableBookings).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.Eq{"status": string(domain.StatusCanceled)},
				squirrel.NotEq{"archived_at": nil},
				squirrel.Lt{"archived_at": archivedBefore},
			},
			squirrel.And{
				squirrel.Eq{"status": string(domain.StatusDenied)},
				squirrel.Lt{"end_date": today},
			},
		}).
		Where(squirrel.NotEq{"status": string(domain.StatusConfirmed)})
}
