package create_booking

import (
	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FirstName         string  `json:"firstName"`
	StartDate         string  `json:"startDate"` // "2025-10-15"
	EndDate           string  `json:"endDate"`
	PartySize         int     `json:"partySize"`
	Affiliation       string  `json:"affiliation"` // Ingeborg | Cornelia | Angelika
	Description       *string `json:"description,omitempty"`
	LongStayConfirmed bool    `json:"longStayConfirmed,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*lifecycle.SubmitRequest, error) {
	start, err := handlers.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}
	affiliation, err := domain.ParseParty(r.Affiliation)
	if err != nil {
		return nil, err
	}

	return &lifecycle.SubmitRequest{
		Actor:             actor,
		FirstName:         r.FirstName,
		Start:             start,
		End:               end,
		PartySize:         r.PartySize,
		Affiliation:       affiliation,
		Description:       r.Description,
		LongStayConfirmed: r.LongStayConfirmed,
	}, nil
}
