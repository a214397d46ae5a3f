package digest

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListAwaitingFuture(ctx context.Context, today time.Time) ([]*domain.Booking, error)
}

// Notifier передает напоминание во внешнюю доставку
type Notifier interface {
	NotifyDigest(ctx context.Context, d domain.PartyDigest) error
}

// Clock текущее время и гражданская дата в часовом поясе сервиса
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
