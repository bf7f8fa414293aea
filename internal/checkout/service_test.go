package checkout

import (
	"context"
	"strings"
	"testing"

	"launidad/internal/calendar"
	"launidad/internal/tickets"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock TicketLedger ---

type mockLedger struct {
	issueOnlineFn func(ctx context.Context, slotID uuid.UUID, quantity int, holderName, holderDNI string) ([]tickets.TicketResponse, error)
	calls         int
}

func (m *mockLedger) IssueOnline(ctx context.Context, slotID uuid.UUID, quantity int, holderName, holderDNI string) ([]tickets.TicketResponse, error) {
	m.calls++
	return m.issueOnlineFn(ctx, slotID, quantity, holderName, holderDNI)
}

func validRequest() PurchaseRequest {
	return PurchaseRequest{
		SlotID:   uuid.New().String(),
		Quantity: 2,
		Customer: CustomerData{
			FullName: "María López",
			DNI:      "30123456",
			Email:    "maria@example.com",
			Phone:    "+54 11 5555 1234",
		},
		Card: PaymentCard{
			Number:   "4242 4242 4242 4242",
			Expiry:   "12/28",
			CVC:      "123",
			CardName: "MARIA LOPEZ",
		},
	}
}

func issuedBatch(n int) []tickets.TicketResponse {
	batch := make([]tickets.TicketResponse, n)
	for i := range batch {
		batch[i] = tickets.TicketResponse{
			Code:   "TK-2026-000" + string(rune('1'+i)),
			Status: tickets.StatusUnused,
			Source: tickets.SourceOnline,
		}
	}
	return batch
}

// --- Tests ---

func TestPurchase_Success(t *testing.T) {
	ledger := &mockLedger{
		issueOnlineFn: func(ctx context.Context, slotID uuid.UUID, quantity int, holderName, holderDNI string) ([]tickets.TicketResponse, error) {
			assert.Equal(t, 2, quantity)
			assert.Equal(t, "María López", holderName)
			assert.Equal(t, "30123456", holderDNI)
			return issuedBatch(quantity), nil
		},
	}
	svc := NewService(ledger, 2000)

	confirmation, err := svc.Purchase(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Len(t, confirmation.Tickets, 2)
	assert.Equal(t, 4000.0, confirmation.Total)
	assert.Equal(t, "ARS", confirmation.Payment.Currency)
	assert.Equal(t, "CAPTURED", confirmation.Payment.Status)
	assert.True(t, strings.HasPrefix(confirmation.Payment.TransactionID, "txn_"))
}

func TestPurchase_IncompleteCustomer(t *testing.T) {
	ledger := &mockLedger{}
	svc := NewService(ledger, 2000)

	req := validRequest()
	req.Customer.Email = "   "

	_, err := svc.Purchase(context.Background(), req)

	assert.ErrorIs(t, err, ErrIncompleteCustomer)
	assert.Zero(t, ledger.calls, "no issuance on invalid form")
}

func TestPurchase_InvalidCard(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PaymentCard)
	}{
		{"short number", func(c *PaymentCard) { c.Number = "4242 4242" }},
		{"short expiry", func(c *PaymentCard) { c.Expiry = "1/8" }},
		{"short cvc", func(c *PaymentCard) { c.CVC = "12" }},
		{"missing name", func(c *PaymentCard) { c.CardName = " " }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := &mockLedger{}
			svc := NewService(ledger, 2000)

			req := validRequest()
			tc.mutate(&req.Card)

			_, err := svc.Purchase(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidCard)
			assert.Zero(t, ledger.calls)
		})
	}
}

func TestPurchase_CardNumberSpacesIgnored(t *testing.T) {
	ledger := &mockLedger{
		issueOnlineFn: func(ctx context.Context, slotID uuid.UUID, quantity int, holderName, holderDNI string) ([]tickets.TicketResponse, error) {
			return issuedBatch(quantity), nil
		},
	}
	svc := NewService(ledger, 2000)

	req := validRequest()
	req.Card.Number = "4242424242424242"

	_, err := svc.Purchase(context.Background(), req)
	assert.NoError(t, err)
}

func TestPurchase_CapacityRejectionPropagates(t *testing.T) {
	ledger := &mockLedger{
		issueOnlineFn: func(ctx context.Context, slotID uuid.UUID, quantity int, holderName, holderDNI string) ([]tickets.TicketResponse, error) {
			return nil, calendar.ErrCapacityExceeded
		},
	}
	svc := NewService(ledger, 2000)

	confirmation, err := svc.Purchase(context.Background(), validRequest())

	assert.ErrorIs(t, err, calendar.ErrCapacityExceeded)
	assert.Nil(t, confirmation, "no payment is captured when the slot is full")
}

func TestPurchase_InvalidSlotID(t *testing.T) {
	ledger := &mockLedger{}
	svc := NewService(ledger, 2000)

	req := validRequest()
	req.SlotID = "not-a-uuid"

	_, err := svc.Purchase(context.Background(), req)

	assert.Error(t, err)
	assert.Zero(t, ledger.calls)
}
