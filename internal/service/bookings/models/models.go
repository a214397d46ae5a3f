package models

import (
	"time"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// Response модели

// ApprovalResponse решение одной стороны
type ApprovalResponse struct {
	Party     string     `json:"party"`
	Decision  string     `json:"decision"`
	Comment   *string    `json:"comment,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 string             `json:"id"`
	RequesterEmail     string             `json:"requesterEmail"`
	RequesterFirstName string             `json:"requesterFirstName"`
	StartDate          string             `json:"startDate"` // "2025-10-15"
	EndDate            string             `json:"endDate"`
	TotalDays          int                `json:"totalDays"`
	PartySize          int                `json:"partySize"`
	Affiliation        string             `json:"affiliation"`
	Description        *string            `json:"description,omitempty"`
	Status             string             `json:"status"`
	Version            int64              `json:"version"`
	Approvals          []ApprovalResponse `json:"approvals"`

	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	LastActivityAt time.Time  `json:"lastActivityAt"`
	ArchivedAt     *time.Time `json:"archivedAt,omitempty"`
}

// TimelineEventResponse запись журнала
type TimelineEventResponse struct {
	Seq        int64               `json:"seq"`
	OccurredAt time.Time           `json:"occurredAt"`
	Kind       string              `json:"kind"`
	Actor      string              `json:"actor"`
	Payload    domain.EventPayload `json:"payload"`
}

// BookingDetailsResponse бронирование вместе с журналом
type BookingDetailsResponse struct {
	Booking  BookingResponse         `json:"booking"`
	Timeline []TimelineEventResponse `json:"timeline"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID.String(),
		RequesterEmail:     b.RequesterEmail,
		RequesterFirstName: b.RequesterFirstName,
		StartDate:          b.Range.Start.Format(domain.DateFormat),
		EndDate:            b.Range.End.Format(domain.DateFormat),
		TotalDays:          b.TotalDays(),
		PartySize:          b.PartySize,
		Affiliation:        b.Affiliation.String(),
		Description:        b.Description,
		Status:             string(b.Status),
		Version:            b.Version,
		Approvals:          make([]ApprovalResponse, 0, domain.PartyCount),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		LastActivityAt:     b.LastActivityAt,
		ArchivedAt:         b.ArchivedAt,
	}

	for _, a := range b.Approvals {
		resp.Approvals = append(resp.Approvals, ApprovalResponse{
			Party:     a.Party.String(),
			Decision:  string(a.Decision),
			Comment:   a.Comment,
			DecidedAt: a.DecidedAt,
		})
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainTimeline конвертирует события журнала в DTO
func FromDomainTimeline(events []domain.TimelineEvent) []TimelineEventResponse {
	out := make([]TimelineEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, TimelineEventResponse{
			Seq:        e.Seq,
			OccurredAt: e.OccurredAt,
			Kind:       string(e.Kind),
			Actor:      e.Actor,
			Payload:    e.Payload,
		})
	}
	return out
}

// FromDomainDetails бронирование и его журнал
func FromDomainDetails(b *domain.Booking, events []domain.TimelineEvent) *BookingDetailsResponse {
	return &BookingDetailsResponse{
		Booking:  *FromDomainBooking(b),
		Timeline: FromDomainTimeline(events),
	}
}
