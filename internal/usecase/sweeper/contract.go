package sweeper

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListLapsedPendingIDs(ctx context.Context, today time.Time) ([]uuid.UUID, error)
}

// Lifecycle переходы, через которые sweeper меняет состояние
type Lifecycle interface {
	AutoCancel(ctx context.Context, id uuid.UUID) (*lifecycle.Result, bool, error)
	Purge(ctx context.Context) (int64, error)
}

// Clock гражданская дата в часовом поясе сервиса
type Clock interface {
	Today() time.Time
}

// Metrics интерфейс для метрик прогонов
type Metrics interface {
	AddSweepAffected(sweep string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
