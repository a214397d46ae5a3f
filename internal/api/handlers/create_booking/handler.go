package create_booking

import (
	"net/http"

	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HouseBooking/internal/api/middleware"
	"github.com/m04kA/SMC-HouseBooking/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFields      = "некорректный формат даты (ожидается YYYY-MM-DD) или стороны"
	msgMissingActor       = "отсутствует личность вызывающего"
)

type Handler struct {
	useCase SubmitUseCase
	logger  Logger
}

func NewHandler(useCase SubmitUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields)
		return
	}

	result, err := h.useCase.Submit(r.Context(), useCaseReq)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("POST /bookings - Failed to submit booking: requester=%s, error=%v", actor.Email, err)
		} else {
			h.logger.Warn("POST /bookings - Rejected: requester=%s, status=%d, error=%v", actor.Email, status, err)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking submitted: booking_id=%s, requester=%s", result.Booking.ID, actor.Email)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainDetails(result.Booking, result.Timeline))
}
