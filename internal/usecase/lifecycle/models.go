package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// SubmitRequest запрос на создание бронирования
type SubmitRequest struct {
	Actor             domain.Actor // Requester, email берется отсюда
	FirstName         string
	Start             time.Time
	End               time.Time
	PartySize         int
	Affiliation       domain.Party
	Description       *string
	LongStayConfirmed bool // подтверждение длинного пребывания
}

// DecideRequest решение стороны по бронированию
type DecideRequest struct {
	Actor     domain.Actor // Party
	BookingID uuid.UUID
	Party     domain.Party
	Decision  domain.Decision // Approved или Denied
	Comment   *string         // обязателен для Denied
}

// EditRequest изменение Pending бронирования; nil поля не меняются
type EditRequest struct {
	Actor             domain.Actor // Requester-владелец
	BookingID         uuid.UUID
	Start             *time.Time
	End               *time.Time
	PartySize         *int
	Affiliation       *domain.Party
	FirstName         *string
	Description       *string
	LongStayConfirmed bool
}

// CancelRequest отмена бронирования владельцем
type CancelRequest struct {
	Actor     domain.Actor // Requester-владелец
	BookingID uuid.UUID
	Comment   *string
	// ConfirmedCancel явное подтверждение отмены уже подтвержденного бронирования
	ConfirmedCancel bool
}

// ReopenRequest повторное открытие отклоненного бронирования
type ReopenRequest struct {
	Actor             domain.Actor // Requester-владелец
	BookingID         uuid.UUID
	Start             *time.Time // скорректированный диапазон (опционально)
	End               *time.Time
	LongStayConfirmed bool
}

// Result новый снимок бронирования и события, добавленные этой операцией
type Result struct {
	Booking  *domain.Booking
	Timeline []domain.TimelineEvent
}

// Outcome результат решения стороны
type Outcome string

const (
	// OutcomeApplied решение записано
	OutcomeApplied Outcome = "Applied"
	// OutcomeAlreadyResolved бронирование уже вышло из состояния, где решение имеет смысл
	OutcomeAlreadyResolved Outcome = "AlreadyResolved"
)

// DecideResult результат Decide
type DecideResult struct {
	Result
	Outcome Outcome
}
