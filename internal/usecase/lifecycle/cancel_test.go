package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/pkg/ptr"
)

func TestCancel_Pending(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 3))
	e.notifier.reset()

	res, err := e.uc.Cancel(context.Background(), &CancelRequest{
		Actor:     domain.RequesterActor(guestEmail),
		BookingID: b.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCanceled, res.Booking.Status)
	require.NotNil(t, res.Booking.ArchivedAt)
	assert.Equal(t, e.clock.Now(), *res.Booking.ArchivedAt)

	require.Len(t, res.Timeline, 1)
	assert.Equal(t, domain.EventCanceled, res.Timeline[0].Kind)
	assert.Equal(t, string(domain.StatusPending), res.Timeline[0].Payload.PriorStatus)
	assert.False(t, res.Timeline[0].Payload.Automatic)

	require.Len(t, e.notifier.sent, 1)
	assert.Equal(t, domain.AllPartyRecipients(), e.notifier.sent[0].Recipients)

	// диапазон освобожден
	_, err = e.uc.Submit(context.Background(), e.submitRequest("other@example.com", "Bo", day(2025, 4, 1), day(2025, 4, 3)))
	assert.NoError(t, err)
}

func TestCancel_Confirmed(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 3))
	e.approveAll(t, b.ID)

	t.Run("reason required", func(t *testing.T) {
		_, err := e.uc.Cancel(context.Background(), &CancelRequest{
			Actor:           domain.RequesterActor(guestEmail),
			BookingID:       b.ID,
			ConfirmedCancel: true,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("explicit confirmation required", func(t *testing.T) {
		_, err := e.uc.Cancel(context.Background(), &CancelRequest{
			Actor:     domain.RequesterActor(guestEmail),
			BookingID: b.ID,
			Comment:   ptr.Ptr("plans changed"),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, domain.StatusConfirmed, e.store.Get(b.ID).Status)
	})

	t.Run("canceled", func(t *testing.T) {
		res, err := e.uc.Cancel(context.Background(), &CancelRequest{
			Actor:           domain.RequesterActor(guestEmail),
			BookingID:       b.ID,
			Comment:         ptr.Ptr("plans changed"),
			ConfirmedCancel: true,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCanceled, res.Booking.Status)
		assert.Equal(t, "plans changed", res.Timeline[0].Payload.Comment)
		assert.Equal(t, string(domain.StatusConfirmed), res.Timeline[0].Payload.PriorStatus)
	})
}

func TestCancel_DeniedNotifiesRequesterOnly(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 3))
	e.decide(t, b.ID, domain.PartyCornelia, domain.DecisionDenied, ptr.Ptr("no"))

	_, err := e.uc.Cancel(context.Background(), &CancelRequest{Actor: domain.RequesterActor(guestEmail), BookingID: b.ID})
	require.NoError(t, err)

	assert.Equal(t, []domain.Recipient{domain.RequesterRecipient()}, e.notifier.last().Recipients)
}

func TestCancel_Twice(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 3))
	req := &CancelRequest{Actor: domain.RequesterActor(guestEmail), BookingID: b.ID}

	_, err := e.uc.Cancel(context.Background(), req)
	require.NoError(t, err)
	version := e.store.Get(b.ID).Version

	res, err := e.uc.Cancel(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, res.Timeline)
	assert.Equal(t, version, e.store.Get(b.ID).Version)
	assert.Equal(t, 1, e.metrics.transitions[string(domain.EventCanceled)])
}

func TestCancel_Rejections(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 3))

	_, err := e.uc.Cancel(context.Background(), &CancelRequest{Actor: domain.RequesterActor("other@example.com"), BookingID: b.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.uc.Cancel(context.Background(), &CancelRequest{Actor: domain.PartyActor(domain.PartyIngeborg), BookingID: b.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	past := e.put(domain.StatusConfirmed, day(2025, 3, 1), day(2025, 3, 2), nil)
	_, err = e.uc.Cancel(context.Background(), &CancelRequest{Actor: domain.RequesterActor(guestEmail), BookingID: past.ID})
	assert.ErrorIs(t, err, domain.ErrPastItem)

	assert.Equal(t, domain.StatusPending, e.store.Get(b.ID).Status)
}
