package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(ctx context.Context, batch []*Ticket) error
	GetByCode(ctx context.Context, code string) (*Ticket, error)
	// MarkUsed flips status unused -> used as a compare-and-swap and returns
	// the updated ticket. ErrAlreadyUsed when the swap lost, ErrTicketNotFound
	// when the code was never issued.
	MarkUsed(ctx context.Context, code string, at time.Time) (*Ticket, error)
	ListByHolderDNI(ctx context.Context, dni string) ([]Ticket, error)
	CountForSlot(ctx context.Context, slotID uuid.UUID) (SlotTally, error)
	CountUsedBetween(ctx context.Context, from, to time.Time) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, batch []*Ticket) error {
	if len(batch) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Create(batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCodeConflict
		}
		return fmt.Errorf("failed to create tickets: %w", err)
	}
	return nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) MarkUsed(ctx context.Context, code string, at time.Time) (*Ticket, error) {
	res := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("code = ? AND status = ?", code, StatusUnused).
		Updates(map[string]interface{}{"status": StatusUsed, "used_at": at})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark ticket used: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		ticket, err := r.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if ticket.Status == StatusUsed {
			return nil, ErrAlreadyUsed
		}
		// Lost a race against a concurrent admit that has not committed yet.
		return nil, ErrAlreadyUsed
	}
	return r.GetByCode(ctx, code)
}

func (r *repository) ListByHolderDNI(ctx context.Context, dni string) ([]Ticket, error) {
	var result []Ticket
	err := r.db.WithContext(ctx).
		Where("holder_dni = ?", dni).
		Order("issued_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search tickets: %w", err)
	}
	return result, nil
}

func (r *repository) CountForSlot(ctx context.Context, slotID uuid.UUID) (SlotTally, error) {
	var tally SlotTally
	type row struct {
		Source Source
		Status Status
		N      int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&Ticket{}).
		Select("source, status, COUNT(*) as n").
		Where("slot_id = ?", slotID).
		Group("source, status").
		Scan(&rows).Error
	if err != nil {
		return tally, fmt.Errorf("failed to count tickets: %w", err)
	}
	for _, r := range rows {
		switch r.Source {
		case SourceOnline:
			tally.Online += r.N
		case SourceManual:
			tally.Manual += r.N
		}
		if r.Status == StatusUsed {
			tally.Used += r.N
		}
	}
	return tally, nil
}

func (r *repository) CountUsedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("status = ? AND used_at >= ? AND used_at < ?", StatusUsed, from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count admissions: %w", err)
	}
	return int(count), nil
}
