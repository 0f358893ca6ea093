package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// ── Peticiones ────────────────────────────────────────────────────────────────

// CreateInvoiceRequest body para POST /api/reservations/:id/invoices.
type CreateInvoiceRequest struct {
	Keys           []string          `json:"keys"`
	Type           string            `json:"type,omitempty"` // standard (defecto) | proforma
	Recipient      *entity.Recipient `json:"recipient,omitempty"`
	LinkPaymentIDs []string          `json:"link_payment_ids,omitempty"`
}

// AmendInvoiceRequest body para POST .../invoices/:invoiceId/amend.
type AmendInvoiceRequest struct {
	Recipient *entity.Recipient `json:"recipient,omitempty"` // nil = destinatario actual de la reserva
}

// RecordPaymentRequest body para POST /api/reservations/:id/payments.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method,omitempty"`
	Status string          `json:"status,omitempty"` // completed (defecto) | pending | request-sent
	Date   *time.Time      `json:"date,omitempty"`
}

// LinkPaymentRequest body para PUT .../payments/:paymentId/link. Número vacío desvincula.
type LinkPaymentRequest struct {
	InvoiceNumber string `json:"invoice_number"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// TotalsResponse totales derivados de la reserva.
type TotalsResponse struct {
	Currency         string          `json:"currency"`
	RoomTotal        decimal.Decimal `json:"room_total"`
	ExtrasTotal      decimal.Decimal `json:"extras_total"`
	Total            decimal.Decimal `json:"total"`
	Paid             decimal.Decimal `json:"paid"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	Invoiced         decimal.Decimal `json:"invoiced"`
	Uninvoiced       decimal.Decimal `json:"uninvoiced"`
	UnlinkedPayments int             `json:"unlinked_payments"`
	CheckoutWarning  string          `json:"checkout_warning,omitempty"`
}

// BillableItemResponse ítem facturable y la factura que lo cubre.
type BillableItemResponse struct {
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	Detail    string          `json:"detail,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	VATRate   decimal.Decimal `json:"vat_rate"`
	InvoiceNo string          `json:"invoice_number,omitempty"` // vacío = sin facturar
}

// BillingOverviewResponse salida de GET /api/reservations/:id/billing.
type BillingOverviewResponse struct {
	ReservationID string                 `json:"reservation_id"`
	Totals        TotalsResponse         `json:"totals"`
	Items         []BillableItemResponse `json:"items"`
}

// QuickInvoiceResponse salida de POST .../invoices/quick.
type QuickInvoiceResponse struct {
	Invoice entity.Invoice `json:"invoice"`
	Created bool           `json:"created"` // false = solo se vincularon pagos a la última factura
}

// AmendInvoiceResponse documentos resultantes de una enmienda.
type AmendInvoiceResponse struct {
	Credited    entity.Invoice `json:"credited"`
	CreditNote  entity.Invoice `json:"credit_note"`
	Replacement entity.Invoice `json:"replacement"`
}

// UBLExportResponse documento UBL y su huella canónica.
type UBLExportResponse struct {
	Invoice string `json:"invoice"` // ID o número tal como se pidió
	Digest  string `json:"digest"`  // SHA-256 hex del XML canónico
	XML     string `json:"xml"`
}
