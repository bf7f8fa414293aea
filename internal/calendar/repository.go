package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(ctx context.Context, slots []*Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	ListFrom(ctx context.Context, from time.Time) ([]Slot, error)
	// ReserveCapacity atomically bumps the issued count by n, failing with
	// ErrCapacityExceeded when the slot cannot absorb n more admissions.
	ReserveCapacity(ctx context.Context, id uuid.UUID, n int) error
	ReleaseCapacity(ctx context.Context, id uuid.UUID, n int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, slots []*Slot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(slots).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	var slot Slot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *repository) ListFrom(ctx context.Context, from time.Time) ([]Slot, error) {
	var slots []Slot
	err := r.db.WithContext(ctx).
		Where("date >= ?", from).
		Order("date ASC, position ASC").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

func (r *repository) ReserveCapacity(ctx context.Context, id uuid.UUID, n int) error {
	res := r.db.WithContext(ctx).Model(&Slot{}).
		Where("id = ? AND issued_count + ? <= capacity", id, n).
		UpdateColumn("issued_count", gorm.Expr("issued_count + ?", n))
	if res.Error != nil {
		return fmt.Errorf("failed to reserve capacity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the slot does not exist or it is full.
		var count int64
		if err := r.db.WithContext(ctx).Model(&Slot{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to reserve capacity: %w", err)
		}
		if count == 0 {
			return ErrSlotNotFound
		}
		return ErrCapacityExceeded
	}
	return nil
}

func (r *repository) ReleaseCapacity(ctx context.Context, id uuid.UUID, n int) error {
	res := r.db.WithContext(ctx).Model(&Slot{}).
		Where("id = ? AND issued_count - ? >= 0", id, n).
		UpdateColumn("issued_count", gorm.Expr("issued_count - ?", n))
	if res.Error != nil {
		return fmt.Errorf("failed to release capacity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}
