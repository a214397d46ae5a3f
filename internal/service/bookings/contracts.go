package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
// Чтения выполняются вне транзакции, поэтому строки не блокируются
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListBlocking(ctx context.Context, rng domain.DateRange, exclude uuid.UUID) ([]*domain.Booking, error)
	ListOutstanding(ctx context.Context, party domain.Party, limit int) ([]*domain.Booking, error)
	ListHistory(ctx context.Context, party domain.Party, limit int) ([]*domain.Booking, error)
}

// TimelineRepository интерфейс журнала событий
type TimelineRepository interface {
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.TimelineEvent, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
