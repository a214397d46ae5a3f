package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", domain.NewValidationError("first_name", "too long"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("Submit: %w", domain.NewValidationError("range", "x")), http.StatusBadRequest},
		{"conflict", &domain.ConflictError{BookingID: uuid.New(), FirstName: "Anna", Status: domain.StatusPending}, http.StatusConflict},
		{"past item", domain.ErrPastItem, http.StatusUnprocessableEntity},
		{"not found", fmt.Errorf("%w: GetByID", domain.ErrNotFound), http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"storage", domain.ErrInternalStorage, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			status := RespondDomainError(w, tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestRespondDomainError_ConflictDetails(t *testing.T) {
	id := uuid.New()
	w := httptest.NewRecorder()

	RespondDomainError(w, fmt.Errorf("Submit: %w", &domain.ConflictError{
		BookingID: id,
		FirstName: "Anna",
		Status:    domain.StatusConfirmed,
	}))

	var body struct {
		Error   string          `json:"error"`
		Details ConflictDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, msgConflict, body.Error)
	assert.Equal(t, ConflictDetails{BookingID: id.String(), FirstName: "Anna", Status: "Confirmed"}, body.Details)
}
