package gate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"launidad/internal/admissions"
	"launidad/internal/calendar"
	"launidad/internal/tickets"
	"launidad/pkg/logger"
)

// visitWindow approximates how long an admitted visitor stays inside; it
// drives the live occupancy KPI.
const visitWindow = 2 * time.Hour

// TicketService is the slice of the ledger the gate needs.
type TicketService interface {
	MarkUsed(ctx context.Context, code string) (*tickets.Ticket, error)
	CountUsedBetween(ctx context.Context, from, to time.Time) (int, error)
}

// SlotService is the slice of the calendar the gate needs.
type SlotService interface {
	ListUpcoming(ctx context.Context, reference time.Time) ([]calendar.SlotResponse, error)
}

type Service interface {
	Validate(ctx context.Context, code string) (*ValidationResult, error)
	Recent() []RecentEntry
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	tickets  TicketService
	slots    SlotService
	producer admissions.Producer
	log      *activityLog
	logger   *logger.Logger
	gateName string
	now      func() time.Time
}

func NewService(ticketService TicketService, slotService SlotService, producer admissions.Producer, recentLimit int, gateName string) Service {
	return &service{
		tickets:  ticketService,
		slots:    slotService,
		producer: producer,
		log:      newActivityLog(recentLimit),
		logger:   logger.GetDefault(),
		gateName: gateName,
		now:      time.Now,
	}
}

// Validate decides admission for a presented code. The single MarkUsed
// compare-and-swap yields all three outcomes, so concurrent scans of one
// code admit at most once.
func (s *service) Validate(ctx context.Context, code string) (*ValidationResult, error) {
	normalized := tickets.NormalizeCode(code)
	at := s.now()

	ticket, err := s.tickets.MarkUsed(ctx, normalized)
	if err != nil {
		var result *ValidationResult
		switch {
		case errors.Is(err, tickets.ErrTicketNotFound):
			result = &ValidationResult{Outcome: OutcomeDenied, Reason: ReasonNotFound, Code: normalized, ValidatedAt: at}
		case errors.Is(err, tickets.ErrAlreadyUsed):
			result = &ValidationResult{Outcome: OutcomeDenied, Reason: ReasonAlreadyUsed, Code: normalized, ValidatedAt: at}
		default:
			return nil, err
		}
		s.publish(ctx, result)
		return result, nil
	}

	result := &ValidationResult{
		Outcome:     OutcomeAdmitted,
		Code:        ticket.Code,
		HolderName:  ticket.HolderName,
		Category:    ticket.Category,
		ValidatedAt: at,
	}

	s.log.Append(RecentEntry{
		Time:       at,
		Code:       ticket.Code,
		HolderName: ticket.HolderName,
		Category:   ticket.Category,
	})
	s.publish(ctx, result)

	s.logger.LogAdmission(ctx, ticket.Code, string(ticket.Category))
	return result, nil
}

func (s *service) Recent() []RecentEntry {
	return s.log.Snapshot()
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today := startOfDay.Format("2006-01-02")

	visitorsToday, err := s.tickets.CountUsedBetween(ctx, startOfDay, now)
	if err != nil {
		return nil, err
	}

	occupancy, err := s.tickets.CountUsedBetween(ctx, now.Add(-visitWindow), now)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.slots.ListUpcoming(ctx, now)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Now:              now,
		VisitorsToday:    visitorsToday,
		CurrentOccupancy: occupancy,
	}

	nowLabel := now.Format("15:04")
	for _, slot := range upcoming {
		if slot.Date == today {
			summary.DailyCapacity += slot.Capacity
		}
		if summary.NextSlot == nil && (slot.Date != today || slot.StartTime > nowLabel) {
			summary.NextSlot = &SummarySlot{
				ID:           slot.ID,
				StartTime:    slot.StartTime,
				Date:         slot.Date,
				Reservations: slot.IssuedCount,
				Capacity:     slot.Capacity,
			}
		}
	}

	return summary, nil
}

func (s *service) publish(ctx context.Context, result *ValidationResult) {
	if s.producer == nil {
		return
	}
	event := &admissions.Event{
		Code:       result.Code,
		Outcome:    string(result.Outcome),
		Reason:     string(result.Reason),
		HolderName: result.HolderName,
		Category:   string(result.Category),
		Gate:       s.gateName,
		At:         result.ValidatedAt,
	}
	if err := s.producer.PublishAdmission(ctx, event); err != nil {
		s.logger.Warn("failed to publish admission event",
			slog.String("code", result.Code),
			slog.Any("error", err),
		)
	}
}
