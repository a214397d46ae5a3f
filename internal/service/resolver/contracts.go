package resolver

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
// В транзакции оба метода берут блокировки строк (FOR UPDATE)
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListBlocking(ctx context.Context, rng domain.DateRange, exclude uuid.UUID) ([]*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
// Повторяет замыкание целиком при ошибках сериализации
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для учета конфликтов
type Metrics interface {
	IncConflict(op string)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
