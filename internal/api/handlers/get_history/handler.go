package get_history

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

const (
	msgInvalidParty = "неизвестная сторона"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/parties/{party}/history
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	party, err := domain.ParseParty(mux.Vars(r)["party"])
	if err != nil {
		h.logger.Warn("GET /parties/{party}/history - Invalid party: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParty)
		return
	}

	resp, err := h.service.ListHistory(r.Context(), party)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("GET /parties/{party}/history - Failed: party=%s, error=%v", party, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
