package gate

import (
	"time"

	"launidad/internal/tickets"
)

type Outcome string

const (
	OutcomeAdmitted Outcome = "admitted"
	OutcomeDenied   Outcome = "denied"
)

type Reason string

const (
	ReasonNotFound    Reason = "not_found"
	ReasonAlreadyUsed Reason = "already_used"
)

// ValidationResult is the normal outcome of a scan. Denial is an expected,
// frequent result at a busy gate, not an error.
type ValidationResult struct {
	Outcome     Outcome          `json:"outcome"`
	Reason      Reason           `json:"reason,omitempty"`
	Code        string           `json:"code"`
	HolderName  string           `json:"holder_name,omitempty"`
	Category    tickets.Category `json:"category,omitempty"`
	ValidatedAt time.Time        `json:"validated_at"`
}

type ValidateRequest struct {
	Code string `json:"code" binding:"required"`
}

// RecentEntry mirrors a row of the console's "Ingresos Recientes" table.
type RecentEntry struct {
	Time       time.Time        `json:"time"`
	Code       string           `json:"code"`
	HolderName string           `json:"holder_name"`
	Category   tickets.Category `json:"category"`
}

// Summary carries the console KPI cards.
type Summary struct {
	Now              time.Time    `json:"now"`
	VisitorsToday    int          `json:"visitors_today"`
	DailyCapacity    int          `json:"daily_capacity"`
	CurrentOccupancy int          `json:"current_occupancy"`
	NextSlot         *SummarySlot `json:"next_slot,omitempty"`
}

type SummarySlot struct {
	ID           string `json:"id"`
	StartTime    string `json:"start_time"`
	Date         string `json:"date"`
	Reservations int    `json:"reservations"`
	Capacity     int    `json:"capacity"`
}
