package calendar

import (
	"context"
	"fmt"
	"time"

	"launidad/internal/shared/constants"
	"launidad/pkg/cache"

	"github.com/google/uuid"
)

const (
	defaultOpeningHour = 10
	defaultSlotMinutes = 120
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	CreateSlots(ctx context.Context, req CreateSlotsRequest) ([]SlotResponse, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*Slot, error)
	RemainingCapacity(ctx context.Context, id uuid.UUID) (int, error)
	ListUpcoming(ctx context.Context, reference time.Time) ([]SlotResponse, error)
	ReserveCapacity(ctx context.Context, id uuid.UUID, n int) error
	ReleaseCapacity(ctx context.Context, id uuid.UUID, n int) error
}

type service struct {
	repo         Repository
	cacheService cache.Service
	now          func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateSlots(ctx context.Context, req CreateSlotsRequest) ([]SlotResponse, error) {
	if req.Days <= 0 || req.SlotsPerDay <= 0 {
		return nil, ErrInvalidRange
	}
	if req.Capacity <= 0 {
		return nil, ErrInvalidRange
	}

	openingHour := defaultOpeningHour
	if req.OpeningHour != nil {
		if *req.OpeningHour < 0 || *req.OpeningHour > 23 {
			return nil, ErrInvalidRange
		}
		openingHour = *req.OpeningHour
	}
	slotMinutes := req.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = defaultSlotMinutes
	}

	startDate := dateOnly(req.StartDate)
	slots := make([]*Slot, 0, req.Days*req.SlotsPerDay)
	for day := 0; day < req.Days; day++ {
		date := startDate.AddDate(0, 0, day)
		for idx := 0; idx < req.SlotsPerDay; idx++ {
			startMin := openingHour*60 + idx*slotMinutes
			endMin := startMin + slotMinutes
			slots = append(slots, &Slot{
				ID:        uuid.New(),
				Date:      date,
				StartTime: clockLabel(startMin),
				EndTime:   clockLabel(endMin),
				Capacity:  req.Capacity,
				Position:  idx,
			})
		}
	}

	if err := s.repo.CreateBatch(ctx, slots); err != nil {
		return nil, fmt.Errorf("failed to create slots: %w", err)
	}

	s.invalidateSlotCache(ctx)

	responses := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = slot.ToResponse()
	}
	return responses, nil
}

func (s *service) GetSlot(ctx context.Context, id uuid.UUID) (*Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) RemainingCapacity(ctx context.Context, id uuid.UUID) (int, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return slot.Remaining(), nil
}

func (s *service) ListUpcoming(ctx context.Context, reference time.Time) ([]SlotResponse, error) {
	ref := dateOnly(reference)
	cacheKey := constants.BuildSlotListKey(ref.Format("2006-01-02"))

	var cached []SlotResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	slots, err := s.repo.ListFrom(ctx, ref)
	if err != nil {
		return nil, err
	}

	responses := make([]SlotResponse, len(slots))
	for i := range slots {
		responses[i] = slots[i].ToResponse()
	}

	// A failed cache write only costs the next request a repo read.
	_ = s.setCache(ctx, cacheKey, responses, constants.TTL_SLOT_LIST)
	return responses, nil
}

func (s *service) ReserveCapacity(ctx context.Context, id uuid.UUID, n int) error {
	if n <= 0 {
		return ErrInvalidRange
	}
	if err := s.repo.ReserveCapacity(ctx, id, n); err != nil {
		return err
	}
	s.invalidateSlotCache(ctx)
	return nil
}

func (s *service) ReleaseCapacity(ctx context.Context, id uuid.UUID, n int) error {
	if n <= 0 {
		return ErrInvalidRange
	}
	if err := s.repo.ReleaseCapacity(ctx, id, n); err != nil {
		return err
	}
	s.invalidateSlotCache(ctx)
	return nil
}

// Cache helper methods
func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return fmt.Errorf("cache service not available")
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.cacheService == nil {
		return nil
	}
	return s.cacheService.Set(ctx, key, value, ttl)
}

func (s *service) invalidateSlotCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	// Best effort: availability has a short TTL anyway.
	_ = s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_SLOTS)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func clockLabel(minutes int) string {
	minutes = minutes % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
