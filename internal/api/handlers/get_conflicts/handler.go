package get_conflicts

import (
	"net/http"

	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
)

const (
	msgInvalidDate = "параметры start и end обязательны, формат YYYY-MM-DD"
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

// Handle GET /api/v1/conflicts?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := handlers.ParseDate(query.Get("start"))
	if err != nil {
		h.logger.Warn("GET /conflicts - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	end, err := handlers.ParseDate(query.Get("end"))
	if err != nil {
		h.logger.Warn("GET /conflicts - Invalid end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	resp, err := h.service.ListConflicts(r.Context(), start, end)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("GET /conflicts - Failed to list conflicts: error=%v", err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
