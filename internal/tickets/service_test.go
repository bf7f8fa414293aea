package tickets

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"launidad/internal/calendar"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock SlotService ---

type mockSlotService struct {
	mu       sync.Mutex
	capacity int
	issued   int
	slotID   uuid.UUID

	reserveErr error
	getErr     error
}

func newMockSlotService(capacity int) *mockSlotService {
	return &mockSlotService{
		capacity: capacity,
		slotID:   uuid.New(),
	}
}

func (m *mockSlotService) GetSlot(ctx context.Context, id uuid.UUID) (*calendar.Slot, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if id != m.slotID {
		return nil, calendar.ErrSlotNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &calendar.Slot{ID: m.slotID, Capacity: m.capacity, IssuedCount: m.issued}, nil
}

func (m *mockSlotService) ReserveCapacity(ctx context.Context, id uuid.UUID, n int) error {
	if m.reserveErr != nil {
		return m.reserveErr
	}
	if id != m.slotID {
		return calendar.ErrSlotNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.issued+n > m.capacity {
		return calendar.ErrCapacityExceeded
	}
	m.issued += n
	return nil
}

func (m *mockSlotService) ReleaseCapacity(ctx context.Context, id uuid.UUID, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued -= n
	if m.issued < 0 {
		m.issued = 0
	}
	return nil
}

func (m *mockSlotService) issuedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.issued
}

// --- Tests ---

func TestIssueOnline_Success(t *testing.T) {
	slots := newMockSlotService(100)
	svc := NewService(NewMemoryRepository(), slots)

	issued, err := svc.IssueOnline(context.Background(), slots.slotID, 3, "María López", "30123456")

	require.NoError(t, err)
	require.Len(t, issued, 3)
	assert.Equal(t, 3, slots.issuedCount())

	seen := make(map[string]bool)
	for _, ticket := range issued {
		assert.True(t, strings.HasPrefix(ticket.Code, "TK-"), "code %q", ticket.Code)
		assert.False(t, seen[ticket.Code], "duplicate code %q", ticket.Code)
		seen[ticket.Code] = true

		assert.Equal(t, StatusUnused, ticket.Status)
		assert.Equal(t, SourceOnline, ticket.Source)
		assert.Equal(t, CategoryGeneral, ticket.Category)
		assert.Equal(t, "María López", ticket.HolderName)
	}
}

func TestIssueOnline_InvalidQuantity(t *testing.T) {
	slots := newMockSlotService(100)
	svc := NewService(NewMemoryRepository(), slots)

	_, err := svc.IssueOnline(context.Background(), slots.slotID, 0, "María", "30123456")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 0, slots.issuedCount())
}

func TestIssueOnline_CapacityExceeded(t *testing.T) {
	slots := newMockSlotService(10)
	svc := NewService(NewMemoryRepository(), slots)
	ctx := context.Background()

	_, err := svc.IssueOnline(ctx, slots.slotID, 8, "A", "1")
	require.NoError(t, err)

	// 8 + 3 > 10: rejected as a whole, nothing issued
	_, err = svc.IssueOnline(ctx, slots.slotID, 3, "B", "2")
	assert.ErrorIs(t, err, calendar.ErrCapacityExceeded)
	assert.Equal(t, 8, slots.issuedCount())

	// The remaining pair still fits
	issued, err := svc.IssueOnline(ctx, slots.slotID, 2, "C", "3")
	require.NoError(t, err)
	assert.Len(t, issued, 2)
	assert.Equal(t, 10, slots.issuedCount())
}

func TestIssueOnline_UnknownSlot(t *testing.T) {
	slots := newMockSlotService(10)
	svc := NewService(NewMemoryRepository(), slots)

	_, err := svc.IssueOnline(context.Background(), uuid.New(), 1, "A", "1")
	assert.ErrorIs(t, err, calendar.ErrSlotNotFound)
}

func TestIssueOnline_RollsBackReservationOnStoreFailure(t *testing.T) {
	slots := newMockSlotService(10)
	storeErr := errors.New("store unavailable")
	repo := &mockTicketRepo{
		createBatchFn: func(ctx context.Context, batch []*Ticket) error {
			return storeErr
		},
	}
	svc := NewService(repo, slots)

	_, err := svc.IssueOnline(context.Background(), slots.slotID, 4, "A", "1")

	assert.ErrorContains(t, err, "store unavailable")
	assert.Equal(t, 0, slots.issuedCount(), "reservation must be released on failure")
}

func TestIssueManual_Success(t *testing.T) {
	slots := newMockSlotService(50)
	svc := NewService(NewMemoryRepository(), slots)

	ticket, err := svc.IssueManual(context.Background(), slots.slotID, "Jorge Fernández", "28987654", CategoryEstudiante)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ticket.Code, "MT-"), "code %q", ticket.Code)
	assert.Equal(t, SourceManual, ticket.Source)
	assert.Equal(t, CategoryEstudiante, ticket.Category)
	assert.Equal(t, StatusUnused, ticket.Status)
	assert.Equal(t, 1, slots.issuedCount())
}

func TestIssueManual_MissingHolder(t *testing.T) {
	slots := newMockSlotService(50)
	svc := NewService(NewMemoryRepository(), slots)
	ctx := context.Background()

	_, err := svc.IssueManual(ctx, slots.slotID, "  ", "28987654", CategoryGeneral)
	assert.ErrorIs(t, err, ErrMissingHolder)

	_, err = svc.IssueManual(ctx, slots.slotID, "Jorge", "", CategoryGeneral)
	assert.ErrorIs(t, err, ErrMissingHolder)

	assert.Equal(t, 0, slots.issuedCount())
}

func TestIssueManual_InvalidCategory(t *testing.T) {
	slots := newMockSlotService(50)
	svc := NewService(NewMemoryRepository(), slots)

	_, err := svc.IssueManual(context.Background(), slots.slotID, "Jorge", "28987654", Category("vip"))
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestIssueManual_RetriesOnCodeCollision(t *testing.T) {
	slots := newMockSlotService(50)
	attempts := 0
	repo := &mockTicketRepo{
		createBatchFn: func(ctx context.Context, batch []*Ticket) error {
			attempts++
			if attempts < 3 {
				return ErrCodeConflict
			}
			return nil
		},
	}
	svc := NewService(repo, slots)

	ticket, err := svc.IssueManual(context.Background(), slots.slotID, "Jorge", "28987654", CategoryGeneral)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.NotEmpty(t, ticket.Code)
}

func TestMarkUsed_RoundTrip(t *testing.T) {
	slots := newMockSlotService(50)
	svc := NewService(NewMemoryRepository(), slots)
	ctx := context.Background()

	issued, err := svc.IssueOnline(ctx, slots.slotID, 1, "María", "30123456")
	require.NoError(t, err)
	code := issued[0].Code

	used, err := svc.MarkUsed(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, StatusUsed, used.Status)
	require.NotNil(t, used.UsedAt)

	_, err = svc.MarkUsed(ctx, code)
	assert.ErrorIs(t, err, ErrAlreadyUsed)
}

func TestMarkUsed_NormalizesCode(t *testing.T) {
	slots := newMockSlotService(50)
	svc := NewService(NewMemoryRepository(), slots)
	ctx := context.Background()

	issued, err := svc.IssueOnline(ctx, slots.slotID, 1, "María", "30123456")
	require.NoError(t, err)

	sloppy := "  " + strings.ToLower(issued[0].Code) + " "
	used, err := svc.MarkUsed(ctx, sloppy)
	require.NoError(t, err)
	assert.Equal(t, issued[0].Code, used.Code)
}

func TestMarkUsed_NotFound(t *testing.T) {
	slots := newMockSlotService(50)
	svc := NewService(NewMemoryRepository(), slots)

	_, err := svc.MarkUsed(context.Background(), "TK-2026-9999")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestSearchByDNI(t *testing.T) {
	slots := newMockSlotService(50)
	svc := NewService(NewMemoryRepository(), slots)
	ctx := context.Background()

	_, err := svc.IssueOnline(ctx, slots.slotID, 2, "María", "30123456")
	require.NoError(t, err)
	_, err = svc.IssueManual(ctx, slots.slotID, "Jorge", "28987654", CategoryGeneral)
	require.NoError(t, err)

	found, err := svc.SearchByDNI(ctx, "30123456")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.SearchByDNI(ctx, "99999999")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = svc.SearchByDNI(ctx, "   ")
	assert.ErrorIs(t, err, ErrMissingHolder)
}

func TestCountForSlot_TalliesBySourceAndUse(t *testing.T) {
	slots := newMockSlotService(50)
	svc := NewService(NewMemoryRepository(), slots)
	ctx := context.Background()

	online, err := svc.IssueOnline(ctx, slots.slotID, 3, "María", "30123456")
	require.NoError(t, err)
	_, err = svc.IssueManual(ctx, slots.slotID, "Jorge", "28987654", CategoryGeneral)
	require.NoError(t, err)

	_, err = svc.MarkUsed(ctx, online[0].Code)
	require.NoError(t, err)

	tally, err := svc.CountForSlot(ctx, slots.slotID)
	require.NoError(t, err)
	assert.Equal(t, 3, tally.Online)
	assert.Equal(t, 1, tally.Manual)
	assert.Equal(t, 1, tally.Used)
}

func TestSlotSellsOutAcrossBothChannels(t *testing.T) {
	slots := newMockSlotService(100)
	svc := NewService(NewMemoryRepository(), slots)
	ctx := context.Background()

	// 80 online, then 20 at the box office fills the slot exactly
	_, err := svc.IssueOnline(ctx, slots.slotID, 80, "Grupo Escolar", "20111222")
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		_, err := svc.IssueManual(ctx, slots.slotID, "Visitante", "40000000", CategoryGeneral)
		require.NoError(t, err)
	}

	assert.Equal(t, 100, slots.issuedCount())

	_, err = svc.IssueManual(ctx, slots.slotID, "Tarde", "40000001", CategoryGeneral)
	assert.ErrorIs(t, err, calendar.ErrCapacityExceeded)
	_, err = svc.IssueOnline(ctx, slots.slotID, 1, "Tarde", "40000001")
	assert.ErrorIs(t, err, calendar.ErrCapacityExceeded)
}

// --- Mock Repository ---

type mockTicketRepo struct {
	createBatchFn      func(ctx context.Context, batch []*Ticket) error
	getByCodeFn        func(ctx context.Context, code string) (*Ticket, error)
	markUsedFn         func(ctx context.Context, code string, at time.Time) (*Ticket, error)
	listByHolderDNIFn  func(ctx context.Context, dni string) ([]Ticket, error)
	countForSlotFn     func(ctx context.Context, slotID uuid.UUID) (SlotTally, error)
	countUsedBetweenFn func(ctx context.Context, from, to time.Time) (int, error)
}

func (m *mockTicketRepo) CreateBatch(ctx context.Context, batch []*Ticket) error {
	return m.createBatchFn(ctx, batch)
}

func (m *mockTicketRepo) GetByCode(ctx context.Context, code string) (*Ticket, error) {
	return m.getByCodeFn(ctx, code)
}

func (m *mockTicketRepo) MarkUsed(ctx context.Context, code string, at time.Time) (*Ticket, error) {
	return m.markUsedFn(ctx, code, at)
}

func (m *mockTicketRepo) ListByHolderDNI(ctx context.Context, dni string) ([]Ticket, error) {
	return m.listByHolderDNIFn(ctx, dni)
}

func (m *mockTicketRepo) CountForSlot(ctx context.Context, slotID uuid.UUID) (SlotTally, error) {
	return m.countForSlotFn(ctx, slotID)
}

func (m *mockTicketRepo) CountUsedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return m.countUsedBetweenFn(ctx, from, to)
}
