package get_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/service/bookings/models"
)

type BookingService interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*models.BookingDetailsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
