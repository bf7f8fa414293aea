package tickets

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrAlreadyUsed     = errors.New("ticket already used")
	ErrCodeConflict    = errors.New("ticket code already exists")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrMissingHolder   = errors.New("holder name and DNI are required")
	ErrInvalidCategory = errors.New("invalid ticket category")
)

type Status string

const (
	StatusUnused Status = "unused"
	StatusUsed   Status = "used"
)

type Source string

const (
	SourceOnline Source = "online"
	SourceManual Source = "manual"
)

type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryEstudiante Category = "estudiante"
	CategoryJubilado   Category = "jubilado"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryEstudiante, CategoryJubilado:
		return true
	}
	return false
}

// Ticket is a single admission right issued against a slot. Status moves
// unused -> used exactly once; MarkUsed is the only mutator.
type Ticket struct {
	Code       string     `json:"code" gorm:"primaryKey;size:32"`
	SlotID     uuid.UUID  `json:"slot_id" gorm:"type:uuid;not null;index"`
	HolderName string     `json:"holder_name" gorm:"size:255"`
	HolderDNI  string     `json:"holder_dni" gorm:"size:32;index"`
	Category   Category   `json:"category" gorm:"type:varchar(16);not null;default:'general'"`
	Status     Status     `json:"status" gorm:"type:varchar(8);not null;default:'unused'"`
	Source     Source     `json:"source" gorm:"type:varchar(8);not null"`
	IssuedAt   time.Time  `json:"issued_at" gorm:"not null"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
}

type TicketResponse struct {
	Code       string     `json:"code"`
	SlotID     string     `json:"slot_id"`
	HolderName string     `json:"holder_name"`
	HolderDNI  string     `json:"holder_dni"`
	Category   Category   `json:"category"`
	Status     Status     `json:"status"`
	Source     Source     `json:"source"`
	IssuedAt   time.Time  `json:"issued_at"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
}

// IssueManualRequest is the operator console payload for box-office issuance.
type IssueManualRequest struct {
	SlotID     string `json:"slot_id" binding:"required,uuid"`
	HolderName string `json:"holder_name" binding:"required"`
	HolderDNI  string `json:"holder_dni" binding:"required"`
	Category   string `json:"category" binding:"required,oneof=general estudiante jubilado"`
}

// SlotTally breaks a slot's issued tickets down for the console listing.
type SlotTally struct {
	Online int `json:"online"`
	Manual int `json:"manual"`
	Used   int `json:"used"`
}

func (t *Ticket) ToResponse() TicketResponse {
	return TicketResponse{
		Code:       t.Code,
		SlotID:     t.SlotID.String(),
		HolderName: t.HolderName,
		HolderDNI:  t.HolderDNI,
		Category:   t.Category,
		Status:     t.Status,
		Source:     t.Source,
		IssuedAt:   t.IssuedAt,
		UsedAt:     t.UsedAt,
	}
}

// TableName specifies the table name for GORM
func (Ticket) TableName() string {
	return "tickets"
}
