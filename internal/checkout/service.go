package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"launidad/internal/tickets"

	"github.com/google/uuid"
)

// TicketLedger is the slice of the ledger checkout needs.
type TicketLedger interface {
	IssueOnline(ctx context.Context, slotID uuid.UUID, quantity int, holderName, holderDNI string) ([]tickets.TicketResponse, error)
}

type Service interface {
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseConfirmation, error)
}

type service struct {
	ledger      TicketLedger
	ticketPrice float64
	now         func() time.Time
}

func NewService(ledger TicketLedger, ticketPrice float64) Service {
	return &service{
		ledger:      ledger,
		ticketPrice: ticketPrice,
		now:         time.Now,
	}
}

// Purchase runs the whole checkout: form validation, simulated payment and
// all-or-nothing issuance. A capacity rejection surfaces before any payment
// is recorded as captured.
func (s *service) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseConfirmation, error) {
	if err := validateCustomer(req.Customer); err != nil {
		return nil, err
	}
	if err := validateCard(req.Card); err != nil {
		return nil, err
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, fmt.Errorf("invalid slot ID: %w", err)
	}

	issued, err := s.ledger.IssueOnline(ctx, slotID, req.Quantity, req.Customer.FullName, req.Customer.DNI)
	if err != nil {
		return nil, err
	}

	total := float64(req.Quantity) * s.ticketPrice
	now := s.now()

	// Payment happens only after issuance succeeded, so a rejected purchase
	// never captures money. The gateway is simulated, as on the original site.
	payment := PaymentInfo{
		TransactionID: s.generateTransactionID(now),
		Amount:        total,
		Currency:      "ARS",
		Method:        "card",
		Status:        "CAPTURED",
		ProcessedAt:   now,
	}

	return &PurchaseConfirmation{
		Tickets:   issued,
		Quantity:  req.Quantity,
		Total:     total,
		Payment:   payment,
		CreatedAt: now,
	}, nil
}

func (s *service) generateTransactionID(now time.Time) string {
	return fmt.Sprintf("txn_%d_%s", now.Unix(), uuid.New().String()[:8])
}

func validateCustomer(c CustomerData) error {
	if strings.TrimSpace(c.FullName) == "" ||
		strings.TrimSpace(c.DNI) == "" ||
		strings.TrimSpace(c.Email) == "" ||
		strings.TrimSpace(c.Phone) == "" {
		return ErrIncompleteCustomer
	}
	return nil
}

func validateCard(card PaymentCard) error {
	digits := strings.ReplaceAll(card.Number, " ", "")
	if len(digits) < 16 {
		return ErrInvalidCard
	}
	if len(card.Expiry) < 5 || len(card.CVC) < 3 {
		return ErrInvalidCard
	}
	if strings.TrimSpace(card.CardName) == "" {
		return ErrInvalidCard
	}
	return nil
}
