package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivablesRequest parámetros para GET /api/reports/receivables.
type ReceivablesRequest struct {
	PageRequest
	Status string `query:"status"` // filtra por estado de la reserva
}

// ReceivableDTO reserva con dinero pendiente (sin facturar, sin cobrar o pagos sin vincular).
type ReceivableDTO struct {
	ReservationID    string          `json:"reservation_id"`
	BookingRef       string          `json:"booking_ref"`
	BookerName       string          `json:"booker_name"`
	Status           string          `json:"status"`
	CheckOut         *time.Time      `json:"check_out,omitempty"` // última salida de sus habitaciones
	Total            decimal.Decimal `json:"total"`
	Paid             decimal.Decimal `json:"paid"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	Uninvoiced       decimal.Decimal `json:"uninvoiced"`
	UnlinkedPayments int             `json:"unlinked_payments"`
	Warning          string          `json:"warning"`
}

// ReceivablesReportDTO respuesta de GET /api/reports/receivables.
type ReceivablesReportDTO struct {
	Currency         string          `json:"currency"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalUninvoiced  decimal.Decimal `json:"total_uninvoiced"`
	Items            []ReceivableDTO `json:"items"`
	Page             PageResponse    `json:"page"`
}
