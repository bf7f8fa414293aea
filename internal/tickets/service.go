package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"launidad/internal/calendar"

	"github.com/google/uuid"
)

// The online code space is only four digits per year, so large batches can
// collide with the ledger or themselves. Retries regenerate the whole batch.
const codeRetries = 8

// SlotService is the slice of the calendar the ledger needs. The calendar
// service satisfies it; tests substitute a mock.
type SlotService interface {
	GetSlot(ctx context.Context, id uuid.UUID) (*calendar.Slot, error)
	ReserveCapacity(ctx context.Context, id uuid.UUID, n int) error
	ReleaseCapacity(ctx context.Context, id uuid.UUID, n int) error
}

type Service interface {
	IssueOnline(ctx context.Context, slotID uuid.UUID, quantity int, holderName, holderDNI string) ([]TicketResponse, error)
	IssueManual(ctx context.Context, slotID uuid.UUID, holderName, holderDNI string, category Category) (*TicketResponse, error)
	FindByCode(ctx context.Context, code string) (*Ticket, error)
	MarkUsed(ctx context.Context, code string) (*Ticket, error)
	SearchByDNI(ctx context.Context, dni string) ([]TicketResponse, error)
	CountForSlot(ctx context.Context, slotID uuid.UUID) (SlotTally, error)
	CountUsedBetween(ctx context.Context, from, to time.Time) (int, error)
}

type service struct {
	repo  Repository
	slots SlotService
	now   func() time.Time
}

func NewService(repo Repository, slots SlotService) Service {
	return &service{
		repo:  repo,
		slots: slots,
		now:   time.Now,
	}
}

// NormalizeCode makes presented codes comparable: scanners and operators may
// hand over stray whitespace or lower-case input.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) IssueOnline(ctx context.Context, slotID uuid.UUID, quantity int, holderName, holderDNI string) ([]TicketResponse, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.slots.GetSlot(ctx, slotID); err != nil {
		return nil, err
	}

	// Reserve first: the capacity check and count bump are one atomic step,
	// so two concurrent purchases can never oversell the slot.
	if err := s.slots.ReserveCapacity(ctx, slotID, quantity); err != nil {
		return nil, err
	}

	issuedAt := s.now()
	var batch []*Ticket
	err := s.withCodeRetry(func() error {
		batch = batch[:0]
		for i := 0; i < quantity; i++ {
			code, err := newOnlineCode(issuedAt)
			if err != nil {
				return err
			}
			batch = append(batch, &Ticket{
				Code:       code,
				SlotID:     slotID,
				HolderName: strings.TrimSpace(holderName),
				HolderDNI:  strings.TrimSpace(holderDNI),
				Category:   CategoryGeneral,
				Status:     StatusUnused,
				Source:     SourceOnline,
				IssuedAt:   issuedAt,
			})
		}
		return s.repo.CreateBatch(ctx, batch)
	})
	if err != nil {
		// Roll the reservation back so a failed issuance leaves no trace.
		_ = s.slots.ReleaseCapacity(ctx, slotID, quantity)
		return nil, fmt.Errorf("failed to issue tickets: %w", err)
	}

	responses := make([]TicketResponse, len(batch))
	for i, t := range batch {
		responses[i] = t.ToResponse()
	}
	return responses, nil
}

func (s *service) IssueManual(ctx context.Context, slotID uuid.UUID, holderName, holderDNI string, category Category) (*TicketResponse, error) {
	holderName = strings.TrimSpace(holderName)
	holderDNI = strings.TrimSpace(holderDNI)
	if holderName == "" || holderDNI == "" {
		return nil, ErrMissingHolder
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}

	if _, err := s.slots.GetSlot(ctx, slotID); err != nil {
		return nil, err
	}

	if err := s.slots.ReserveCapacity(ctx, slotID, 1); err != nil {
		return nil, err
	}

	issuedAt := s.now()
	var ticket *Ticket
	attempt := 0
	err := s.withCodeRetry(func() error {
		ticket = &Ticket{
			Code:       newManualCode(issuedAt, attempt),
			SlotID:     slotID,
			HolderName: holderName,
			HolderDNI:  holderDNI,
			Category:   category,
			Status:     StatusUnused,
			Source:     SourceManual,
			IssuedAt:   issuedAt,
		}
		attempt++
		return s.repo.CreateBatch(ctx, []*Ticket{ticket})
	})
	if err != nil {
		_ = s.slots.ReleaseCapacity(ctx, slotID, 1)
		return nil, fmt.Errorf("failed to issue manual ticket: %w", err)
	}

	resp := ticket.ToResponse()
	return &resp, nil
}

func (s *service) FindByCode(ctx context.Context, code string) (*Ticket, error) {
	return s.repo.GetByCode(ctx, NormalizeCode(code))
}

// MarkUsed is the sole status mutator. The repository performs the
// compare-and-swap, so concurrent calls on one code admit at most once.
func (s *service) MarkUsed(ctx context.Context, code string) (*Ticket, error) {
	return s.repo.MarkUsed(ctx, NormalizeCode(code), s.now())
}

func (s *service) SearchByDNI(ctx context.Context, dni string) ([]TicketResponse, error) {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return nil, ErrMissingHolder
	}
	found, err := s.repo.ListByHolderDNI(ctx, dni)
	if err != nil {
		return nil, err
	}
	responses := make([]TicketResponse, len(found))
	for i := range found {
		responses[i] = found[i].ToResponse()
	}
	return responses, nil
}

func (s *service) CountForSlot(ctx context.Context, slotID uuid.UUID) (SlotTally, error) {
	return s.repo.CountForSlot(ctx, slotID)
}

func (s *service) CountUsedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return s.repo.CountUsedBetween(ctx, from, to)
}

func (s *service) withCodeRetry(create func() error) error {
	var err error
	for i := 0; i < codeRetries; i++ {
		err = create()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrCodeConflict) {
			return err
		}
	}
	return err
}
