package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/internal/testutil/memstore"
	"github.com/m04kA/SMC-HouseBooking/pkg/logger"
	"github.com/m04kA/SMC-HouseBooking/pkg/timeprovider"
)

type recordingNotifier struct {
	sent    []domain.PartyDigest
	failFor map[domain.Party]bool
}

func (n *recordingNotifier) NotifyDigest(_ context.Context, d domain.PartyDigest) error {
	if n.failFor[d.Party] {
		return errors.New("queue down")
	}
	n.sent = append(n.sent, d)
	return nil
}

var now = time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func put(store *memstore.Store, status domain.BookingStatus, start time.Time, submitted time.Time) *domain.Booking {
	b := &domain.Booking{
		ID:                 uuid.New(),
		RequesterEmail:     "guest@example.com",
		RequesterFirstName: "Gudrun",
		Range:              domain.DateRange{Start: start, End: start.AddDate(0, 0, 1)},
		PartySize:          2,
		Status:             status,
		Version:            1,
		Approvals:          domain.NewQuorum(nil, submitted),
		CreatedAt:          submitted,
		UpdatedAt:          submitted,
		LastActivityAt:     submitted,
	}
	store.Put(b)
	return b
}

func newUseCase(store *memstore.Store, notifier Notifier) *UseCase {
	rules := domain.DefaultRules([domain.PartyCount]string{"i@example.com", "c@example.com", "a@example.com"})
	return NewUseCase(store, notifier, timeprovider.Fixed(now, time.UTC), rules, logger.NewNop())
}

func TestListDigest(t *testing.T) {
	store := memstore.New()

	// возраст 5 дней, ровно на пороге
	later := put(store, domain.StatusPending, day(4, 20), now.AddDate(0, 0, -5))
	sooner := put(store, domain.StatusPending, day(4, 1), now.AddDate(0, 0, -10))
	sooner.Approvals.Approve(domain.PartyIngeborg, now)
	store.Put(sooner)

	// слишком свежее
	put(store, domain.StatusPending, day(4, 5), now.AddDate(0, 0, -4))
	// уже началось
	put(store, domain.StatusPending, day(3, 20), now.AddDate(0, 0, -10))
	// не Pending
	put(store, domain.StatusConfirmed, day(4, 7), now.AddDate(0, 0, -10))

	digests, err := newUseCase(store, &recordingNotifier{}).ListDigest(context.Background())
	require.NoError(t, err)
	require.Len(t, digests, 3)

	assert.Equal(t, domain.PartyIngeborg, digests[0].Party)
	require.Len(t, digests[0].Bookings, 1)
	assert.Equal(t, later.ID, digests[0].Bookings[0].ID)

	for _, d := range digests[1:] {
		require.Len(t, d.Bookings, 2)
		assert.Equal(t, sooner.ID, d.Bookings[0].ID)
		assert.Equal(t, later.ID, d.Bookings[1].ID)
	}
}

func TestListDigest_OmitsEmptyParties(t *testing.T) {
	store := memstore.New()
	b := put(store, domain.StatusPending, day(4, 1), now.AddDate(0, 0, -7))
	b.Approvals.Approve(domain.PartyIngeborg, now)
	b.Approvals.Approve(domain.PartyAngelika, now)
	store.Put(b)

	digests, err := newUseCase(store, &recordingNotifier{}).ListDigest(context.Background())
	require.NoError(t, err)
	require.Len(t, digests, 1)
	assert.Equal(t, domain.PartyCornelia, digests[0].Party)
}

func TestListDigest_AgeUsesServiceTimezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	store := memstore.New()
	// 23:30 UTC 15 марта - уже 16 марта в Берлине, возраст 4 дня, а не 5
	put(store, domain.StatusPending, day(4, 1), time.Date(2025, 3, 15, 23, 30, 0, 0, time.UTC))

	rules := domain.DefaultRules([domain.PartyCount]string{"i@example.com", "c@example.com", "a@example.com"})
	uc := NewUseCase(store, &recordingNotifier{}, timeprovider.Fixed(now, berlin), rules, logger.NewNop())

	digests, err := uc.ListDigest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, digests)
}

func TestDispatch(t *testing.T) {
	store := memstore.New()
	put(store, domain.StatusPending, day(4, 1), now.AddDate(0, 0, -6))

	notifier := &recordingNotifier{failFor: map[domain.Party]bool{domain.PartyCornelia: true}}
	sent, err := newUseCase(store, notifier).Dispatch(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, domain.PartyIngeborg, notifier.sent[0].Party)
	assert.Equal(t, domain.PartyAngelika, notifier.sent[1].Party)
}
