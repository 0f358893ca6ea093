package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType tipo de documento de facturación.
type InvoiceType string

// Tipos de documento.
const (
	InvoiceStandard InvoiceType = "standard"
	InvoiceProforma InvoiceType = "proforma"
	InvoiceCredit   InvoiceType = "credit"
)

// InvoiceStatus estado del documento.
//
//	created → credited   (terminal)
//	created → finalized  (terminal, solo proforma)
type InvoiceStatus string

// Estados de factura.
const (
	InvoiceCreated   InvoiceStatus = "created"
	InvoiceCredited  InvoiceStatus = "credited"
	InvoiceFinalized InvoiceStatus = "finalized"
)

// InvoiceItem snapshot de un ítem facturable en el momento de emitir el documento.
type InvoiceItem struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Detail  string          `json:"detail,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	VATRate decimal.Decimal `json:"vat_rate"`
}

// Invoice factura, proforma o nota de crédito de una reserva.
type Invoice struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	Sequence       int64           `json:"sequence"`      // valor del contador usado para Number
	SequenceYear   int             `json:"sequence_year"` // año de emisión (reset anual)
	Type           InvoiceType     `json:"type"`
	Status         InvoiceStatus   `json:"status"`
	Items          []InvoiceItem   `json:"items"`
	Amount         decimal.Decimal `json:"amount"`
	LinkedPayments []string        `json:"linked_payments"`
	Recipient      Recipient       `json:"recipient"`
	CreditFor      string          `json:"credit_for,omitempty"`     // número de la factura abonada
	AmendsInvoice  string          `json:"amends_invoice,omitempty"` // número de la factura enmendada
	FromProforma   string          `json:"from_proforma,omitempty"`  // número de la proforma de origen
	IssuedAt       time.Time       `json:"issued_at"`
}

// Covers indica si la factura cubre sus ítems para la partición facturado/no facturado:
// solo facturas estándar no abonadas.
func (i Invoice) Covers() bool {
	return i.Status != InvoiceCredited && i.Type != InvoiceCredit && i.Type != InvoiceProforma
}

// HasPayment indica si paymentID está en la lista de pagos vinculados.
func (i Invoice) HasPayment(paymentID string) bool {
	for _, id := range i.LinkedPayments {
		if id == paymentID {
			return true
		}
	}
	return false
}

// ItemsTotal suma los importes de los ítems.
func ItemsTotal(items []InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
