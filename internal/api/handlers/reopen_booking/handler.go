package reopen_booking

import (
	"net/http"

	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HouseBooking/internal/api/middleware"
	"github.com/m04kA/SMC-HouseBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingActor       = "отсутствует личность вызывающего"
)

type Handler struct {
	useCase ReopenUseCase
	logger  Logger
}

func NewHandler(useCase ReopenUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/reopen
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	bookingID, err := handlers.ParseBookingID(r)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reopen - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ReopenBookingRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /bookings/{id}/reopen - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	useCaseReq, err := req.ToUseCaseRequest(actor, bookingID)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reopen - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Reopen(r.Context(), useCaseReq)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("POST /bookings/{id}/reopen - Failed to reopen booking: booking_id=%s, error=%v", bookingID, err)
		} else {
			h.logger.Warn("POST /bookings/{id}/reopen - Rejected: booking_id=%s, status=%d, error=%v", bookingID, status, err)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/reopen - Booking reopened: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainDetails(result.Booking, result.Timeline))
}
