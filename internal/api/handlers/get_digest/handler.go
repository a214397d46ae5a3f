package get_digest

import (
	"net/http"

	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
)

type Handler struct {
	useCase DigestUseCase
	logger  Logger
}

func NewHandler(useCase DigestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/digest
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	digests, err := h.useCase.ListDigest(r.Context())
	if err != nil {
		h.logger.Error("GET /digest - Failed to build digest: %v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainDigests(digests))
}
