package update_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
)

// UpdateBookingRequest HTTP request model; отсутствующие поля не меняются
type UpdateBookingRequest struct {
	FirstName         *string `json:"firstName,omitempty"`
	StartDate         *string `json:"startDate,omitempty"`
	EndDate           *string `json:"endDate,omitempty"`
	PartySize         *int    `json:"partySize,omitempty"`
	Affiliation       *string `json:"affiliation,omitempty"`
	Description       *string `json:"description,omitempty"`
	LongStayConfirmed bool    `json:"longStayConfirmed,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(actor domain.Actor, bookingID uuid.UUID) (*lifecycle.EditRequest, error) {
	start, err := handlers.ParseOptionalDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseOptionalDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	req := &lifecycle.EditRequest{
		Actor:             actor,
		BookingID:         bookingID,
		Start:             start,
		End:               end,
		PartySize:         r.PartySize,
		FirstName:         r.FirstName,
		Description:       r.Description,
		LongStayConfirmed: r.LongStayConfirmed,
	}

	if r.Affiliation != nil {
		affiliation, err := domain.ParseParty(*r.Affiliation)
		if err != nil {
			return nil, err
		}
		req.Affiliation = &affiliation
	}

	return req, nil
}
