package get_conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HouseBooking/internal/service/bookings/models"
)

type BookingService interface {
	ListConflicts(ctx context.Context, start, end time.Time) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
