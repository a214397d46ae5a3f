package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/internal/service/resolver"
	"github.com/m04kA/SMC-HouseBooking/internal/testutil/memstore"
	"github.com/m04kA/SMC-HouseBooking/pkg/logger"
	"github.com/m04kA/SMC-HouseBooking/pkg/timeprovider"
)

const (
	guestEmail    = "guest@example.com"
	ingeborgEmail = "ingeborg@example.com"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Today() time.Time {
	return timeprovider.DateOf(c.Now())
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) kinds() []domain.EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.EventKind, 0, len(n.sent))
	for _, msg := range n.sent {
		out = append(out, msg.Kind)
	}
	return out
}

func (n *recordingNotifier) last() domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

type recordingMetrics struct {
	mu              sync.Mutex
	transitions     map[string]int
	alreadyResolved int
	notifyFailures  int
}

func (m *recordingMetrics) IncTransition(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[kind]++
}

func (m *recordingMetrics) IncAlreadyResolved(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alreadyResolved++
}

func (m *recordingMetrics) IncNotifyFailure(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyFailures++
}

type testEnv struct {
	uc       *UseCase
	store    *memstore.Store
	clock    *fakeClock
	notifier *recordingNotifier
	metrics  *recordingMetrics
	rules    domain.Rules
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.New()
	log := logger.NewNop()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{}
	metrics := &recordingMetrics{transitions: make(map[string]int)}
	rules := domain.DefaultRules([domain.PartyCount]string{ingeborgEmail, "cornelia@example.com", "angelika@example.com"})

	res := resolver.NewResolver(store, store, nil, log)
	uc := NewUseCase(store, store, res, notifier, clock, rules, metrics, log)

	return &testEnv{uc: uc, store: store, clock: clock, notifier: notifier, metrics: metrics, rules: rules}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (e *testEnv) submitRequest(email, firstName string, start, end time.Time) *SubmitRequest {
	return &SubmitRequest{
		Actor:       domain.RequesterActor(email),
		FirstName:   firstName,
		Start:       start,
		End:         end,
		PartySize:   2,
		Affiliation: domain.PartyCornelia,
	}
}

func (e *testEnv) submit(t *testing.T, email string, start, end time.Time) *domain.Booking {
	t.Helper()
	res, err := e.uc.Submit(context.Background(), e.submitRequest(email, "Gudrun", start, end))
	require.NoError(t, err)
	return res.Booking
}

func (e *testEnv) decide(t *testing.T, id uuid.UUID, p domain.Party, d domain.Decision, comment *string) *DecideResult {
	t.Helper()
	res, err := e.uc.Decide(context.Background(), &DecideRequest{
		Actor:     domain.PartyActor(p),
		BookingID: id,
		Party:     p,
		Decision:  d,
		Comment:   comment,
	})
	require.NoError(t, err)
	return res
}

func (e *testEnv) approveAll(t *testing.T, id uuid.UUID) *domain.Booking {
	t.Helper()
	var b *domain.Booking
	for _, p := range domain.AllParties {
		res := e.decide(t, id, p, domain.DecisionApproved, nil)
		b = res.Booking
	}
	return b
}

// put кладет бронирование напрямую, например с датами в прошлом
func (e *testEnv) put(status domain.BookingStatus, start, end time.Time, archivedAt *time.Time) *domain.Booking {
	now := e.clock.Now()
	b := &domain.Booking{
		ID:                 uuid.New(),
		RequesterEmail:     guestEmail,
		RequesterFirstName: "Gudrun",
		Range:              domain.DateRange{Start: start, End: end},
		PartySize:          2,
		Affiliation:        domain.PartyAngelika,
		Status:             status,
		Version:            1,
		Approvals:          domain.NewQuorum(nil, now),
		CreatedAt:          now,
		UpdatedAt:          now,
		LastActivityAt:     now,
		ArchivedAt:         archivedAt,
	}
	e.store.Put(b)
	return b
}

func (e *testEnv) timeline(t *testing.T, id uuid.UUID) []domain.EventKind {
	t.Helper()
	events, err := e.store.ListByBooking(context.Background(), id)
	require.NoError(t, err)
	out := make([]domain.EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}
