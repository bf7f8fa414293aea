package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewService(NewMemoryRepository())
}

func hour(h int) *int {
	return &h
}

func createTestSlots(t *testing.T, svc Service, req CreateSlotsRequest) []SlotResponse {
	t.Helper()
	created, err := svc.CreateSlots(context.Background(), req)
	require.NoError(t, err)
	return created
}

func TestCreateSlots_GeneratesGrid(t *testing.T) {
	svc := newTestService()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	created := createTestSlots(t, svc, CreateSlotsRequest{
		StartDate:   start,
		Days:        2,
		SlotsPerDay: 3,
		Capacity:    50,
		OpeningHour: hour(9),
		SlotMinutes: 60,
	})

	require.Len(t, created, 6)

	assert.Equal(t, "2026-09-01", created[0].Date)
	assert.Equal(t, "09:00", created[0].StartTime)
	assert.Equal(t, "10:00", created[0].EndTime)
	assert.Equal(t, "10:00", created[1].StartTime)
	assert.Equal(t, "11:00", created[2].StartTime)
	assert.Equal(t, "2026-09-02", created[3].Date)

	for _, slot := range created {
		assert.Equal(t, 50, slot.Capacity)
		assert.Equal(t, 0, slot.IssuedCount)
		assert.Equal(t, 50, slot.Remaining)
	}
}

func TestCreateSlots_Defaults(t *testing.T) {
	svc := newTestService()

	created := createTestSlots(t, svc, CreateSlotsRequest{
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Days:        1,
		SlotsPerDay: 2,
		Capacity:    100,
	})

	require.Len(t, created, 2)
	assert.Equal(t, "10:00", created[0].StartTime)
	assert.Equal(t, "12:00", created[0].EndTime)
	assert.Equal(t, "12:00", created[1].StartTime)
	assert.Equal(t, "14:00", created[1].EndTime)
}

func TestCreateSlots_MidnightOpening(t *testing.T) {
	svc := newTestService()

	created := createTestSlots(t, svc, CreateSlotsRequest{
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Days:        1,
		SlotsPerDay: 2,
		Capacity:    30,
		OpeningHour: hour(0),
		SlotMinutes: 90,
	})

	require.Len(t, created, 2)
	assert.Equal(t, "00:00", created[0].StartTime)
	assert.Equal(t, "01:30", created[0].EndTime)
	assert.Equal(t, "01:30", created[1].StartTime)
}

func TestCreateSlots_OpeningHourOutOfRange(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Days:        1,
		SlotsPerDay: 1,
		Capacity:    30,
		OpeningHour: hour(24),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCreateSlots_InvalidRange(t *testing.T) {
	svc := newTestService()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{
		StartDate: start, Days: 0, SlotsPerDay: 2, Capacity: 50,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.CreateSlots(context.Background(), CreateSlotsRequest{
		StartDate: start, Days: 3, SlotsPerDay: 2, Capacity: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestListUpcoming_FiltersPastDays(t *testing.T) {
	svc := newTestService()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	createTestSlots(t, svc, CreateSlotsRequest{
		StartDate:   start,
		Days:        3,
		SlotsPerDay: 2,
		Capacity:    40,
	})

	// Reference inside day two: day one must drop out
	upcoming, err := svc.ListUpcoming(context.Background(), start.AddDate(0, 0, 1).Add(9*time.Hour))
	require.NoError(t, err)
	require.Len(t, upcoming, 4)
	assert.Equal(t, "2026-09-02", upcoming[0].Date)
	assert.Equal(t, "2026-09-03", upcoming[2].Date)
}

func TestListUpcoming_SortedByDateThenTime(t *testing.T) {
	svc := newTestService()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	createTestSlots(t, svc, CreateSlotsRequest{
		StartDate:   start,
		Days:        2,
		SlotsPerDay: 3,
		Capacity:    40,
	})

	upcoming, err := svc.ListUpcoming(context.Background(), start)
	require.NoError(t, err)
	require.Len(t, upcoming, 6)

	for i := 1; i < len(upcoming); i++ {
		prev, cur := upcoming[i-1], upcoming[i]
		if prev.Date == cur.Date {
			assert.Less(t, prev.StartTime, cur.StartTime)
		} else {
			assert.Less(t, prev.Date, cur.Date)
		}
	}
}

func TestReserveCapacity_EnforcesLimit(t *testing.T) {
	svc := newTestService()
	created := createTestSlots(t, svc, CreateSlotsRequest{
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Days:        1,
		SlotsPerDay: 1,
		Capacity:    10,
	})
	slotID := uuid.MustParse(created[0].ID)
	ctx := context.Background()

	require.NoError(t, svc.ReserveCapacity(ctx, slotID, 8))

	// Partial oversell is rejected outright, not trimmed
	err := svc.ReserveCapacity(ctx, slotID, 3)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	remaining, err := svc.RemainingCapacity(ctx, slotID)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	require.NoError(t, svc.ReserveCapacity(ctx, slotID, 2))

	remaining, err = svc.RemainingCapacity(ctx, slotID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestReserveCapacity_UnknownSlot(t *testing.T) {
	svc := newTestService()
	err := svc.ReserveCapacity(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestReleaseCapacity_RestoresAvailability(t *testing.T) {
	svc := newTestService()
	created := createTestSlots(t, svc, CreateSlotsRequest{
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Days:        1,
		SlotsPerDay: 1,
		Capacity:    10,
	})
	slotID := uuid.MustParse(created[0].ID)
	ctx := context.Background()

	require.NoError(t, svc.ReserveCapacity(ctx, slotID, 10))
	require.NoError(t, svc.ReleaseCapacity(ctx, slotID, 4))

	remaining, err := svc.RemainingCapacity(ctx, slotID)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}
