package decide_booking

import (
	"net/http"

	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HouseBooking/internal/api/middleware"
	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgPartyOnly          = "решение может принять только сторона"
)

type Handler struct {
	useCase DecideUseCase
	logger  Logger
}

func NewHandler(useCase DecideUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/decisions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok || actor.Kind != domain.ActorParty {
		handlers.RespondForbidden(w, msgPartyOnly)
		return
	}

	bookingID, err := handlers.ParseBookingID(r)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/decisions - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req DecideBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/decisions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Decide(r.Context(), req.ToUseCaseRequest(actor, bookingID))
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("POST /bookings/{id}/decisions - Failed: booking_id=%s, party=%s, error=%v", bookingID, actor.Party, err)
		} else {
			h.logger.Warn("POST /bookings/{id}/decisions - Rejected: booking_id=%s, party=%s, status=%d, error=%v",
				bookingID, actor.Party, status, err)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/decisions - booking_id=%s, party=%s, decision=%s, outcome=%s",
		bookingID, actor.Party, req.Decision, result.Outcome)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResult(result))
}
