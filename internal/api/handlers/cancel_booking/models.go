package cancel_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
	"github.com/m04kA/SMC-HouseBooking/pkg/ptr"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
	// ConfirmCancel обязателен для отмены подтвержденного бронирования
	ConfirmCancel *bool `json:"confirmCancel,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(actor domain.Actor, bookingID uuid.UUID) *lifecycle.CancelRequest {
	return &lifecycle.CancelRequest{
		Actor:           actor,
		BookingID:       bookingID,
		Comment:         r.CancellationReason,
		ConfirmedCancel: ptr.Deref(r.ConfirmCancel, false),
	}
}
