package decide_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HouseBooking/internal/api/middleware"
	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
	"github.com/m04kA/SMC-HouseBooking/pkg/logger"
)

type fakeDecideUseCase struct {
	got    *lifecycle.DecideRequest
	result *lifecycle.DecideResult
	err    error
}

func (f *fakeDecideUseCase) Decide(_ context.Context, req *lifecycle.DecideRequest) (*lifecycle.DecideResult, error) {
	f.got = req
	return f.result, f.err
}

func serve(t *testing.T, uc DecideUseCase, actor *domain.Actor, bookingID, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}/decisions", NewHandler(uc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPost, "/bookings/"+bookingID+"/decisions", strings.NewReader(body))
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandle_PartyDecision(t *testing.T) {
	id := uuid.New()
	uc := &fakeDecideUseCase{result: &lifecycle.DecideResult{
		Result:  lifecycle.Result{Booking: &domain.Booking{ID: id, Status: domain.StatusPending}},
		Outcome: lifecycle.OutcomeApplied,
	}}
	actor := domain.PartyActor(domain.PartyCornelia)

	w := serve(t, uc, &actor, id.String(), `{"decision":"Approved"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, id, uc.got.BookingID)
	assert.Equal(t, domain.PartyCornelia, uc.got.Party)
	assert.Equal(t, domain.DecisionApproved, uc.got.Decision)

	var resp struct {
		Booking struct {
			ID string `json:"id"`
		} `json:"booking"`
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id.String(), resp.Booking.ID)
	assert.Equal(t, "Applied", resp.Outcome)
}

func TestHandle_Rejections(t *testing.T) {
	party := domain.PartyActor(domain.PartyIngeborg)
	requester := domain.RequesterActor("guest@example.com")

	tests := []struct {
		name       string
		actor      *domain.Actor
		bookingID  string
		body       string
		err        error
		wantStatus int
	}{
		{"no identity", nil, uuid.NewString(), `{"decision":"Approved"}`, nil, http.StatusForbidden},
		{"requester cannot decide", &requester, uuid.NewString(), `{"decision":"Approved"}`, nil, http.StatusForbidden},
		{"bad id", &party, "not-a-uuid", `{"decision":"Approved"}`, nil, http.StatusBadRequest},
		{"unknown field", &party, uuid.NewString(), `{"decision":"Approved","party":"Angelika"}`, nil, http.StatusBadRequest},
		{"past booking", &party, uuid.NewString(), `{"decision":"Approved"}`, domain.ErrPastItem, http.StatusUnprocessableEntity},
		{"denial without comment", &party, uuid.NewString(), `{"decision":"Denied"}`,
			domain.NewValidationError("comment", "required when denying"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeDecideUseCase{err: tt.err}

			w := serve(t, uc, tt.actor, tt.bookingID, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.err == nil {
				assert.Nil(t, uc.got, "use case must not be called")
			}
		})
	}
}
