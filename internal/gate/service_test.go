package gate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"launidad/internal/admissions"
	"launidad/internal/calendar"
	"launidad/internal/tickets"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gateFixture wires a real ticket ledger and calendar on in-memory storage
// behind the gate service, so validations run the same code paths as the
// server does.
type gateFixture struct {
	gate     Service
	tickets  tickets.Service
	calendar calendar.Service
	slotID   uuid.UUID
	producer *mockProducer
}

func newGateFixture(t *testing.T, recentLimit int) *gateFixture {
	t.Helper()

	calendarService := calendar.NewService(calendar.NewMemoryRepository())
	created, err := calendarService.CreateSlots(context.Background(), calendar.CreateSlotsRequest{
		StartDate:   time.Now(),
		Days:        1,
		SlotsPerDay: 1,
		Capacity:    200,
	})
	require.NoError(t, err)

	ticketService := tickets.NewService(tickets.NewMemoryRepository(), calendarService)
	producer := &mockProducer{}
	gateService := NewService(ticketService, calendarService, producer, recentLimit, "Puerta Principal")

	return &gateFixture{
		gate:     gateService,
		tickets:  ticketService,
		calendar: calendarService,
		slotID:   uuid.MustParse(created[0].ID),
		producer: producer,
	}
}

func (f *gateFixture) issueOne(t *testing.T, name, dni string) string {
	t.Helper()
	issued, err := f.tickets.IssueOnline(context.Background(), f.slotID, 1, name, dni)
	require.NoError(t, err)
	return issued[0].Code
}

type mockProducer struct {
	mu     sync.Mutex
	events []*admissions.Event
	err    error
}

func (m *mockProducer) PublishAdmission(ctx context.Context, event *admissions.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockProducer) Close() error { return nil }

func (m *mockProducer) published() []*admissions.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*admissions.Event, len(m.events))
	copy(out, m.events)
	return out
}

// --- Tests ---

func TestValidate_AdmitsValidTicket(t *testing.T) {
	f := newGateFixture(t, 5)
	code := f.issueOne(t, "María López", "30123456")

	result, err := f.gate.Validate(context.Background(), code)

	require.NoError(t, err)
	assert.Equal(t, OutcomeAdmitted, result.Outcome)
	assert.Empty(t, result.Reason)
	assert.Equal(t, code, result.Code)
	assert.Equal(t, "María López", result.HolderName)
}

func TestValidate_DeniesUnknownCode(t *testing.T) {
	f := newGateFixture(t, 5)

	result, err := f.gate.Validate(context.Background(), "TK-2026-0000")

	require.NoError(t, err, "a denial is a result, not an error")
	assert.Equal(t, OutcomeDenied, result.Outcome)
	assert.Equal(t, ReasonNotFound, result.Reason)
}

func TestValidate_DeniesSecondUse(t *testing.T) {
	f := newGateFixture(t, 5)
	code := f.issueOne(t, "María López", "30123456")
	ctx := context.Background()

	first, err := f.gate.Validate(ctx, code)
	require.NoError(t, err)
	require.Equal(t, OutcomeAdmitted, first.Outcome)

	second, err := f.gate.Validate(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDenied, second.Outcome)
	assert.Equal(t, ReasonAlreadyUsed, second.Reason)
}

func TestValidate_CaseAndWhitespaceInsensitive(t *testing.T) {
	f := newGateFixture(t, 5)
	code := f.issueOne(t, "María López", "30123456")
	ctx := context.Background()

	result, err := f.gate.Validate(ctx, "  "+strings.ToLower(code)+" ")
	require.NoError(t, err)
	require.Equal(t, OutcomeAdmitted, result.Outcome)

	// The pristine form of the same code is now spent
	again, err := f.gate.Validate(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDenied, again.Outcome)
	assert.Equal(t, ReasonAlreadyUsed, again.Reason)
}

func TestValidate_ConcurrentScansAdmitOnce(t *testing.T) {
	f := newGateFixture(t, 5)
	code := f.issueOne(t, "María López", "30123456")

	const scans = 32
	results := make([]*ValidationResult, scans)

	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := f.gate.Validate(context.Background(), code)
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, result := range results {
		require.NotNil(t, result)
		if result.Outcome == OutcomeAdmitted {
			admitted++
		} else {
			assert.Equal(t, ReasonAlreadyUsed, result.Reason)
		}
	}
	assert.Equal(t, 1, admitted, "exactly one scan may admit")
}

func TestRecent_BoundedNewestFirst(t *testing.T) {
	f := newGateFixture(t, 5)
	ctx := context.Background()

	var codes []string
	for i := 0; i < 7; i++ {
		code := f.issueOne(t, fmt.Sprintf("Visitante %d", i), "40000000")
		result, err := f.gate.Validate(ctx, code)
		require.NoError(t, err)
		require.Equal(t, OutcomeAdmitted, result.Outcome)
		codes = append(codes, code)
	}

	recent := f.gate.Recent()
	require.Len(t, recent, 5, "log keeps only the last five admissions")

	// Newest first: the last admitted code leads
	assert.Equal(t, codes[6], recent[0].Code)
	assert.Equal(t, codes[2], recent[4].Code)
}

func TestRecent_DenialsLeaveNoTrace(t *testing.T) {
	f := newGateFixture(t, 5)
	ctx := context.Background()

	_, err := f.gate.Validate(ctx, "TK-2026-0000")
	require.NoError(t, err)

	code := f.issueOne(t, "María López", "30123456")
	_, err = f.gate.Validate(ctx, code)
	require.NoError(t, err)
	_, err = f.gate.Validate(ctx, code) // already used
	require.NoError(t, err)

	recent := f.gate.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, code, recent[0].Code)
}

func TestValidate_PublishesEveryDecision(t *testing.T) {
	f := newGateFixture(t, 5)
	ctx := context.Background()

	code := f.issueOne(t, "María López", "30123456")
	_, err := f.gate.Validate(ctx, code)
	require.NoError(t, err)
	_, err = f.gate.Validate(ctx, "TK-2026-0000")
	require.NoError(t, err)

	events := f.producer.published()
	require.Len(t, events, 2)
	assert.Equal(t, string(OutcomeAdmitted), events[0].Outcome)
	assert.Equal(t, "Puerta Principal", events[0].Gate)
	assert.Equal(t, string(OutcomeDenied), events[1].Outcome)
	assert.Equal(t, string(ReasonNotFound), events[1].Reason)
}

func TestValidate_PublishFailureDoesNotChangeOutcome(t *testing.T) {
	f := newGateFixture(t, 5)
	f.producer.err = fmt.Errorf("broker unreachable")

	code := f.issueOne(t, "María López", "30123456")
	result, err := f.gate.Validate(context.Background(), code)

	require.NoError(t, err)
	assert.Equal(t, OutcomeAdmitted, result.Outcome)
}

func TestValidate_WorksWithoutProducer(t *testing.T) {
	calendarService := calendar.NewService(calendar.NewMemoryRepository())
	created, err := calendarService.CreateSlots(context.Background(), calendar.CreateSlotsRequest{
		StartDate:   time.Now(),
		Days:        1,
		SlotsPerDay: 1,
		Capacity:    10,
	})
	require.NoError(t, err)

	ticketService := tickets.NewService(tickets.NewMemoryRepository(), calendarService)
	gateService := NewService(ticketService, calendarService, nil, 5, "Puerta Principal")

	issued, err := ticketService.IssueOnline(context.Background(), uuid.MustParse(created[0].ID), 1, "María", "30123456")
	require.NoError(t, err)

	result, err := gateService.Validate(context.Background(), issued[0].Code)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdmitted, result.Outcome)
}

func TestSummary_CountsAdmissionsAndCapacity(t *testing.T) {
	f := newGateFixture(t, 5)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		code := f.issueOne(t, "Visitante", "40000000")
		result, err := f.gate.Validate(ctx, code)
		require.NoError(t, err)
		require.Equal(t, OutcomeAdmitted, result.Outcome)
	}

	summary, err := f.gate.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.VisitorsToday)
	assert.Equal(t, 3, summary.CurrentOccupancy)
	assert.Equal(t, 200, summary.DailyCapacity)
}
