package decide_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
)

// DecideBookingRequest HTTP request model
// Сторона берется из личности вызывающего
type DecideBookingRequest struct {
	Decision string  `json:"decision"` // Approved | Denied
	Comment  *string `json:"comment,omitempty"`
}

// DecisionResponse бронирование, новые события и исход решения
type DecisionResponse struct {
	models.BookingDetailsResponse
	Outcome string `json:"outcome"` // Applied | AlreadyResolved
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *DecideBookingRequest) ToUseCaseRequest(actor domain.Actor, bookingID uuid.UUID) *lifecycle.DecideRequest {
	return &lifecycle.DecideRequest{
		Actor:     actor,
		BookingID: bookingID,
		Party:     actor.Party,
		Decision:  domain.Decision(r.Decision),
		Comment:   r.Comment,
	}
}

// FromUseCaseResult конвертирует результат use case в HTTP response
func FromUseCaseResult(res *lifecycle.DecideResult) *DecisionResponse {
	return &DecisionResponse{
		BookingDetailsResponse: *models.FromDomainDetails(res.Booking, res.Timeline),
		Outcome:                string(res.Outcome),
	}
}
