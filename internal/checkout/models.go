package checkout

import (
	"errors"
	"time"

	"launidad/internal/tickets"
)

var (
	ErrIncompleteCustomer = errors.New("customer data is incomplete")
	ErrInvalidCard        = errors.New("card data is invalid")
)

// CustomerData mirrors the checkout holder form: every field is required
// before the purchase button enables.
type CustomerData struct {
	FullName string `json:"full_name" binding:"required"`
	DNI      string `json:"dni" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
}

// PaymentCard carries the (simulated) card form. Numbers are never stored.
type PaymentCard struct {
	Number   string `json:"number" binding:"required"`
	Expiry   string `json:"expiry" binding:"required"`
	CVC      string `json:"cvc" binding:"required"`
	CardName string `json:"card_name" binding:"required"`
}

type PurchaseRequest struct {
	SlotID   string      `json:"slot_id" binding:"required,uuid"`
	Quantity int         `json:"quantity" binding:"required,min=1"`
	Customer CustomerData `json:"customer" binding:"required"`
	Card     PaymentCard  `json:"card" binding:"required"`
}

type PaymentInfo struct {
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	ProcessedAt   time.Time `json:"processed_at"`
}

type PurchaseConfirmation struct {
	Tickets   []tickets.TicketResponse `json:"tickets"`
	Quantity  int                      `json:"quantity"`
	Total     float64                  `json:"total"`
	Payment   PaymentInfo              `json:"payment"`
	CreatedAt time.Time                `json:"created_at"`
}
