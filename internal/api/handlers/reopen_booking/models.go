package reopen_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
)

// ReopenBookingRequest HTTP request model; даты опциональны
type ReopenBookingRequest struct {
	StartDate         *string `json:"startDate,omitempty"`
	EndDate           *string `json:"endDate,omitempty"`
	LongStayConfirmed bool    `json:"longStayConfirmed,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReopenBookingRequest) ToUseCaseRequest(actor domain.Actor, bookingID uuid.UUID) (*lifecycle.ReopenRequest, error) {
	start, err := handlers.ParseOptionalDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseOptionalDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &lifecycle.ReopenRequest{
		Actor:             actor,
		BookingID:         bookingID,
		Start:             start,
		End:               end,
		LongStayConfirmed: r.LongStayConfirmed,
	}, nil
}
