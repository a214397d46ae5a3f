package update_booking

import (
	"net/http"

	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HouseBooking/internal/api/middleware"
	"github.com/m04kA/SMC-HouseBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFields      = "некорректный формат даты (ожидается YYYY-MM-DD) или стороны"
	msgMissingActor       = "отсутствует личность вызывающего"
)

type Handler struct {
	useCase EditUseCase
	logger  Logger
}

func NewHandler(useCase EditUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	bookingID, err := handlers.ParseBookingID(r)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor, bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields)
		return
	}

	result, err := h.useCase.Edit(r.Context(), useCaseReq)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /bookings/{id} - Failed to edit booking: booking_id=%s, error=%v", bookingID, err)
		} else {
			h.logger.Warn("PATCH /bookings/{id} - Rejected: booking_id=%s, status=%d, error=%v", bookingID, status, err)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking edited: booking_id=%s, events=%d", bookingID, len(result.Timeline))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainDetails(result.Booking, result.Timeline))
}
