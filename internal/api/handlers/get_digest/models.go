package get_digest

import (
	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/internal/service/bookings/models"
)

// PartyDigestResponse напоминание одной стороне
type PartyDigestResponse struct {
	Party    string                   `json:"party"`
	Bookings []models.BookingResponse `json:"bookings"`
}

// DigestResponse HTTP response model
type DigestResponse struct {
	Digests []PartyDigestResponse `json:"digests"`
}

// FromDomainDigests конвертирует результат use case в HTTP response
func FromDomainDigests(digests []domain.PartyDigest) *DigestResponse {
	resp := &DigestResponse{Digests: make([]PartyDigestResponse, 0, len(digests))}
	for _, d := range digests {
		resp.Digests = append(resp.Digests, PartyDigestResponse{
			Party:    d.Party.String(),
			Bookings: models.FromDomainBookingList(d.Bookings).Bookings,
		})
	}
	return resp
}
