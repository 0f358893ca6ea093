package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de un pago.
type PaymentStatus string

// Estados de pago.
const (
	PaymentPending     PaymentStatus = "pending"
	PaymentRequestSent PaymentStatus = "request-sent"
	PaymentCompleted   PaymentStatus = "completed"
)

// Valid indica si s pertenece al enum.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentRequestSent || s == PaymentCompleted
}

// Payment pago registrado en la reserva. LinkedInvoice guarda el número de factura ("" = sin vincular).
type Payment struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"` // cash, card, transfer, payment-link...
	Status        PaymentStatus   `json:"status"`
	LinkedInvoice string          `json:"linked_invoice,omitempty"`
}
