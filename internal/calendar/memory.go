package calendar

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository keeps the slot horizon in process memory. It is the
// default backend: the service starts with no external storage, the same way
// the original console kept everything in transient state.
type memoryRepository struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*Slot
	order []uuid.UUID
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		slots: make(map[uuid.UUID]*Slot),
	}
}

func (r *memoryRepository) CreateBatch(ctx context.Context, slots []*Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, slot := range slots {
		clone := *slot
		r.slots[slot.ID] = &clone
		r.order = append(r.order, slot.ID)
	}
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	clone := *slot
	return &clone, nil
}

func (r *memoryRepository) ListFrom(ctx context.Context, from time.Time) ([]Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Slot
	for _, id := range r.order {
		slot := r.slots[id]
		if slot.Date.Before(from) {
			continue
		}
		result = append(result, *slot)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Position < result[j].Position
	})
	return result, nil
}

func (r *memoryRepository) ReserveCapacity(ctx context.Context, id uuid.UUID, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return ErrSlotNotFound
	}
	if slot.IssuedCount+n > slot.Capacity {
		return ErrCapacityExceeded
	}
	slot.IssuedCount += n
	return nil
}

func (r *memoryRepository) ReleaseCapacity(ctx context.Context, id uuid.UUID, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return ErrSlotNotFound
	}
	slot.IssuedCount -= n
	if slot.IssuedCount < 0 {
		slot.IssuedCount = 0
	}
	return nil
}
