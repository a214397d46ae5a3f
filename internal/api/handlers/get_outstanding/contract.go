package get_outstanding

import (
	"context"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/internal/service/bookings/models"
)

type BookingService interface {
	ListOutstanding(ctx context.Context, party domain.Party) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
