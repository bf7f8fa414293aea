package tickets

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository is the default in-process ledger. All checks and state
// transitions happen under one mutex, which is what makes MarkUsed a true
// compare-and-swap and CreateBatch all-or-nothing.
type memoryRepository struct {
	mu      sync.Mutex
	tickets map[string]*Ticket
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		tickets: make(map[string]*Ticket),
	}
}

func (r *memoryRepository) CreateBatch(ctx context.Context, batch []*Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{}, len(batch))
	for _, t := range batch {
		if _, exists := r.tickets[t.Code]; exists {
			return ErrCodeConflict
		}
		// A batch can collide with itself: the code space is small.
		if _, dup := seen[t.Code]; dup {
			return ErrCodeConflict
		}
		seen[t.Code] = struct{}{}
	}
	for _, t := range batch {
		clone := *t
		r.tickets[t.Code] = &clone
	}
	return nil
}

func (r *memoryRepository) GetByCode(ctx context.Context, code string) (*Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[code]
	if !ok {
		return nil, ErrTicketNotFound
	}
	clone := *ticket
	return &clone, nil
}

func (r *memoryRepository) MarkUsed(ctx context.Context, code string, at time.Time) (*Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[code]
	if !ok {
		return nil, ErrTicketNotFound
	}
	if ticket.Status == StatusUsed {
		return nil, ErrAlreadyUsed
	}
	used := at
	ticket.Status = StatusUsed
	ticket.UsedAt = &used
	clone := *ticket
	return &clone, nil
}

func (r *memoryRepository) ListByHolderDNI(ctx context.Context, dni string) ([]Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Ticket
	for _, t := range r.tickets {
		if t.HolderDNI == dni {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].IssuedAt.After(result[j].IssuedAt)
	})
	return result, nil
}

func (r *memoryRepository) CountForSlot(ctx context.Context, slotID uuid.UUID) (SlotTally, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tally SlotTally
	for _, t := range r.tickets {
		if t.SlotID != slotID {
			continue
		}
		switch t.Source {
		case SourceOnline:
			tally.Online++
		case SourceManual:
			tally.Manual++
		}
		if t.Status == StatusUsed {
			tally.Used++
		}
	}
	return tally, nil
}

func (r *memoryRepository) CountUsedBetween(ctx context.Context, from, to time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, t := range r.tickets {
		if t.Status != StatusUsed || t.UsedAt == nil {
			continue
		}
		if !t.UsedAt.Before(from) && t.UsedAt.Before(to) {
			count++
		}
	}
	return count, nil
}
