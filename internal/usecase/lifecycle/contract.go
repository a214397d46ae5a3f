package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking) error
	DeletePurgeable(ctx context.Context, archivedBefore, today time.Time) (int64, error)
}

// TimelineRepository интерфейс журнала событий
type TimelineRepository interface {
	Append(ctx context.Context, events []domain.TimelineEvent) error
}

// Resolver протоколы сериализации (см. service/resolver)
type Resolver interface {
	Run(ctx context.Context, op string, fn func(ctx context.Context) error) error
	AcquireRange(ctx context.Context, op string, rng domain.DateRange, exclude uuid.UUID) error
	WithBookingLocked(ctx context.Context, op string, id uuid.UUID, fn func(ctx context.Context, b *domain.Booking) error) error
}

// Notifier передает уведомления во внешнюю доставку
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// Clock текущее время и гражданская дата в часовом поясе сервиса
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// Metrics интерфейс для метрик переходов
type Metrics interface {
	IncTransition(kind string)
	IncAlreadyResolved(decision string)
	IncNotifyFailure(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
