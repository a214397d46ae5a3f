package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/pkg/ptr"
)

func TestEdit_ShortenKeepsApprovals(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 5))
	e.decide(t, b.ID, domain.PartyIngeborg, domain.DecisionApproved, nil)
	e.notifier.reset()

	res, err := e.uc.Edit(context.Background(), &EditRequest{
		Actor:     domain.RequesterActor(guestEmail),
		BookingID: b.ID,
		Start:     ptr.Ptr(day(2025, 4, 2)),
		End:       ptr.Ptr(day(2025, 4, 4)),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Booking.TotalDays())
	assert.Equal(t, domain.DecisionApproved, res.Booking.Approvals.Get(domain.PartyIngeborg).Decision)

	require.Len(t, res.Timeline, 1)
	ev := res.Timeline[0]
	assert.Equal(t, domain.EventDateEdited, ev.Kind)
	assert.Equal(t, domain.EditShortened.String(), ev.Payload.EditImpact)
	assert.Equal(t, "2025-04-01", ev.Payload.OldStart)
	assert.Equal(t, "2025-04-04", ev.Payload.NewEnd)

	require.Len(t, e.notifier.sent, 1)
	assert.Equal(t, domain.AllPartyRecipients(), e.notifier.sent[0].Recipients)
}

func TestEdit_ExtendResetsApprovals(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, ingeborgEmail, day(2025, 4, 1), day(2025, 4, 3))
	e.decide(t, b.ID, domain.PartyCornelia, domain.DecisionApproved, nil)

	res, err := e.uc.Edit(context.Background(), &EditRequest{
		Actor:     domain.RequesterActor(ingeborgEmail),
		BookingID: b.ID,
		End:       ptr.Ptr(day(2025, 4, 4)),
	})
	require.NoError(t, err)

	q := res.Booking.Approvals
	assert.Equal(t, domain.DecisionApproved, q.Get(domain.PartyIngeborg).Decision)
	assert.Equal(t, domain.DecisionNoResponse, q.Get(domain.PartyCornelia).Decision)
	assert.Equal(t, domain.DecisionNoResponse, q.Get(domain.PartyAngelika).Decision)

	require.Len(t, res.Timeline, 2)
	assert.Equal(t, domain.EditExtended.String(), res.Timeline[0].Payload.EditImpact)
	assert.True(t, res.Timeline[1].Payload.SelfApproval)
}

func TestEdit_ShiftIsExtended(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 3))
	e.decide(t, b.ID, domain.PartyCornelia, domain.DecisionApproved, nil)

	res, err := e.uc.Edit(context.Background(), &EditRequest{
		Actor:     domain.RequesterActor(guestEmail),
		BookingID: b.ID,
		Start:     ptr.Ptr(day(2025, 4, 2)),
		End:       ptr.Ptr(day(2025, 4, 4)),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionNoResponse, res.Booking.Approvals.Get(domain.PartyCornelia).Decision)
}

func TestEdit_FieldsOnly(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 3))

	res, err := e.uc.Edit(context.Background(), &EditRequest{
		Actor:       domain.RequesterActor(guestEmail),
		BookingID:   b.ID,
		PartySize:   ptr.Ptr(4),
		Description: ptr.Ptr("bringing the dog"),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Booking.PartySize)
	assert.Empty(t, res.Timeline)
	assert.Equal(t, b.Version+1, res.Booking.Version)

	stored := e.store.Get(b.ID)
	require.NotNil(t, stored.Description)
	assert.Equal(t, "bringing the dog", *stored.Description)
}

func TestEdit_NothingChanged(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 3))

	res, err := e.uc.Edit(context.Background(), &EditRequest{
		Actor:     domain.RequesterActor(guestEmail),
		BookingID: b.ID,
		Start:     ptr.Ptr(day(2025, 4, 1)),
		PartySize: ptr.Ptr(2),
	})
	require.NoError(t, err)

	assert.Empty(t, res.Timeline)
	assert.Equal(t, b.Version, e.store.Get(b.ID).Version)
}

func TestEdit_Conflict(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 3))
	_, err := e.uc.Submit(context.Background(), e.submitRequest("other@example.com", "Bo", day(2025, 4, 5), day(2025, 4, 6)))
	require.NoError(t, err)

	_, err = e.uc.Edit(context.Background(), &EditRequest{
		Actor:     domain.RequesterActor(guestEmail),
		BookingID: b.ID,
		End:       ptr.Ptr(day(2025, 4, 5)),
	})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "Bo", conflict.FirstName)

	assert.Equal(t, day(2025, 4, 3), e.store.Get(b.ID).Range.End)
	assert.Len(t, e.timeline(t, b.ID), 1)
}

func TestEdit_Rejections(t *testing.T) {
	e := newTestEnv(t)
	b := e.submit(t, guestEmail, day(2025, 4, 1), day(2025, 4, 3))

	t.Run("not the owner", func(t *testing.T) {
		_, err := e.uc.Edit(context.Background(), &EditRequest{
			Actor:     domain.RequesterActor("other@example.com"),
			BookingID: b.ID,
			PartySize: ptr.Ptr(3),
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("extension into long stay needs confirmation", func(t *testing.T) {
		_, err := e.uc.Edit(context.Background(), &EditRequest{
			Actor:     domain.RequesterActor(guestEmail),
			BookingID: b.ID,
			End:       ptr.Ptr(day(2025, 4, 10)),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("invalid party size", func(t *testing.T) {
		_, err := e.uc.Edit(context.Background(), &EditRequest{
			Actor:     domain.RequesterActor(guestEmail),
			BookingID: b.ID,
			PartySize: ptr.Ptr(20),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("confirmed booking", func(t *testing.T) {
		confirmed := e.submit(t, guestEmail, day(2025, 5, 1), day(2025, 5, 2))
		e.approveAll(t, confirmed.ID)

		_, err := e.uc.Edit(context.Background(), &EditRequest{
			Actor:     domain.RequesterActor(guestEmail),
			BookingID: confirmed.ID,
			PartySize: ptr.Ptr(3),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("past booking", func(t *testing.T) {
		past := e.put(domain.StatusPending, day(2025, 3, 1), day(2025, 3, 9), nil)

		_, err := e.uc.Edit(context.Background(), &EditRequest{
			Actor:     domain.RequesterActor(guestEmail),
			BookingID: past.ID,
			PartySize: ptr.Ptr(3),
		})
		assert.ErrorIs(t, err, domain.ErrPastItem)
	})

	assert.Equal(t, 2, e.store.Get(b.ID).PartySize)
}
