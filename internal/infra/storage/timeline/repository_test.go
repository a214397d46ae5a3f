package timeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

func TestBuildInsert(t *testing.T) {
	id := uuid.New()
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query, args, err := buildInsert(domain.TimelineEvent{
		BookingID:  id,
		OccurredAt: at,
		Kind:       domain.EventApproved,
		Actor:      "Ingeborg",
		Payload:    domain.EventPayload{SelfApproval: true},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO timeline_events (booking_id,occurred_at,kind,actor,payload) VALUES ($1,$2,$3,$4,$5) RETURNING seq",
		query)
	require.Len(t, args, 5)
	assert.Equal(t, id.String(), args[0])
	assert.Equal(t, "Approved", args[2])
	assert.JSONEq(t, `{"self_approval":true}`, args[4].(string))
}

func TestBuildInsert_EmptyPayload(t *testing.T) {
	_, args, err := buildInsert(domain.TimelineEvent{BookingID: uuid.New(), Kind: domain.EventSubmitted})
	require.NoError(t, err)
	assert.Equal(t, "{}", args[4])
}

func TestSelectByBooking(t *testing.T) {
	id := uuid.New()

	query, args, err := selectByBooking(id).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT seq, booking_id, occurred_at, kind, actor, payload FROM timeline_events WHERE booking_id = $1 ORDER BY occurred_at ASC, seq ASC",
		query)
	assert.Equal(t, []interface{}{id.String()}, args)
}
