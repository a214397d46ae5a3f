package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

func testRange(t *testing.T) domain.DateRange {
	t.Helper()
	rng, err := domain.NewDateRange(
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return rng
}

func TestSelectByID(t *testing.T) {
	id := uuid.New()

	t.Run("outside transaction", func(t *testing.T) {
		query, args, err := selectByID(id, false).ToSql()
		require.NoError(t, err)
		assert.Contains(t, query, "FROM bookings b WHERE b.id = $1")
		assert.NotContains(t, query, "FOR UPDATE")
		assert.Equal(t, []interface{}{id.String()}, args)
	})

	t.Run("inside transaction", func(t *testing.T) {
		query, _, err := selectByID(id, true).ToSql()
		require.NoError(t, err)
		assert.Contains(t, query, "FOR UPDATE")
	})
}

func TestSelectBlocking(t *testing.T) {
	rng := testRange(t)
	exclude := uuid.New()

	query, args, err := selectBlocking(rng, exclude, true).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "b.status IN ($1,$2)")
	assert.Contains(t, query, "b.archived_at IS NULL")
	assert.Contains(t, query, "b.start_date <= $3")
	assert.Contains(t, query, "b.end_date >= $4")
	assert.Contains(t, query, "b.id <> $5")
	assert.Contains(t, query, "ORDER BY b.start_date ASC, b.id ASC FOR UPDATE")
	assert.Equal(t, []interface{}{"Pending", "Confirmed", rng.End, rng.Start, exclude.String()}, args)

	query, args, err = selectBlocking(rng, uuid.Nil, false).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "b.id <>")
	assert.NotContains(t, query, "FOR UPDATE")
	assert.Len(t, args, 4)
}

func TestSelectApprovals(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	query, args, err := selectApprovals(ids, true).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "FROM approvals WHERE booking_id IN ($1,$2)")
	assert.Contains(t, query, "FOR UPDATE")
	assert.Equal(t, []interface{}{ids[0].String(), ids[1].String()}, args)
}

func TestSelectOutstanding(t *testing.T) {
	query, args, err := selectOutstanding(domain.PartyCornelia, domain.OutstandingListLimit).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "JOIN approvals a ON a.booking_id = b.id")
	assert.Contains(t, query, "a.party = $1")
	assert.Contains(t, query, "a.decision = $2")
	assert.Contains(t, query, "b.status = $3")
	assert.Contains(t, query, "ORDER BY b.last_activity_at DESC")
	assert.Contains(t, query, "LIMIT 50")
	assert.Equal(t, []interface{}{"Cornelia", "NoResponse", "Pending"}, args)
}

func TestSelectHistory(t *testing.T) {
	query, args, err := selectHistory(domain.PartyAngelika, domain.HistoryListLimit).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, query, "archived_at")
	assert.Contains(t, query, "LIMIT 100")
	assert.Equal(t, []interface{}{"Angelika"}, args)
}

func TestSelectLapsedPending(t *testing.T) {
	today := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	query, args, err := selectLapsedPending(today).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "SELECT b.id FROM bookings b")
	assert.Contains(t, query, "b.end_date < $2")
	assert.Equal(t, []interface{}{"Pending", today}, args)
}

func TestDeletePurgeable(t *testing.T) {
	cutoff := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	query, args, err := deletePurgeable(cutoff, today).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "DELETE FROM bookings")
	assert.Contains(t, query, "archived_at IS NOT NULL")
	assert.Contains(t, query, " OR ")
	assert.Contains(t, query, "status <> $5")
	assert.Equal(t, []interface{}{"Canceled", cutoff, "Denied", today, "Confirmed"}, args)
}
