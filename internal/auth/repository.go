package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, operator *Operator) error
	GetByEmail(ctx context.Context, email string) (*Operator, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, operator *Operator) error {
	return r.db.WithContext(ctx).Create(operator).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Operator, error) {
	var operator Operator
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&operator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}
	return &operator, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Operator{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// memoryRepository backs operator accounts when the service runs without
// Postgres.
type memoryRepository struct {
	mu        sync.RWMutex
	operators map[string]*Operator
}

func NewMemoryRepository() Repository {
	return &memoryRepository{operators: make(map[string]*Operator)}
}

func (r *memoryRepository) Create(ctx context.Context, operator *Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(operator.Email)
	if _, exists := r.operators[email]; exists {
		return ErrOperatorExists
	}
	clone := *operator
	r.operators[email] = &clone
	return nil
}

func (r *memoryRepository) GetByEmail(ctx context.Context, email string) (*Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	operator, ok := r.operators[strings.ToLower(email)]
	if !ok {
		return nil, ErrOperatorNotFound
	}
	clone := *operator
	return &clone, nil
}

func (r *memoryRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.operators[strings.ToLower(email)]
	return ok, nil
}
