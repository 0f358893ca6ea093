// Package billing contiene los cálculos monetarios puros sobre un snapshot de reserva
// (servicio de dominio, sin I/O).
package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// warningThreshold importes por debajo de un céntimo no generan aviso.
var warningThreshold = decimal.New(1, -2)

// RoomStayTotal precio fijo o suma de los precios por noche.
func RoomStayTotal(rs entity.RoomStay) decimal.Decimal {
	if rs.PricingMode == entity.PricingPerNight {
		total := decimal.Zero
		for _, n := range rs.NightlyRates {
			total = total.Add(n)
		}
		return total
	}
	return rs.FixedPrice
}

// RoomTotal suma de todas las habitaciones.
func RoomTotal(r *entity.Reservation) decimal.Decimal {
	total := decimal.Zero
	for _, rs := range r.Rooms {
		total = total.Add(RoomStayTotal(rs))
	}
	return total
}

// ExtrasTotal suma de cantidad × precio de cada extra.
func ExtrasTotal(r *entity.Reservation) decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Extras {
		total = total.Add(e.Amount())
	}
	return total
}

// TotalAmount habitaciones + extras.
func TotalAmount(r *entity.Reservation) decimal.Decimal {
	return RoomTotal(r).Add(ExtrasTotal(r))
}

// PaidAmount suma de los pagos completados.
func PaidAmount(r *entity.Reservation) decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.Payments {
		if p.Status == entity.PaymentCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// InvoicedAmount suma de las facturas que cubren ítems (ver entity.Invoice.Covers).
func InvoicedAmount(r *entity.Reservation) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range r.Invoices {
		if inv.Covers() {
			total = total.Add(inv.Amount)
		}
	}
	return total
}

// OutstandingAmount max(0, total - pagado).
func OutstandingAmount(r *entity.Reservation) decimal.Decimal {
	return nonNegative(TotalAmount(r).Sub(PaidAmount(r)))
}

// UninvoicedAmount max(0, total - facturado).
func UninvoicedAmount(r *entity.Reservation) decimal.Decimal {
	return nonNegative(TotalAmount(r).Sub(InvoicedAmount(r)))
}

// UnlinkedCompletedPayments número de pagos completados sin factura vinculada.
func UnlinkedCompletedPayments(r *entity.Reservation) int {
	n := 0
	for _, p := range r.Payments {
		if p.Status == entity.PaymentCompleted && p.LinkedInvoice == "" {
			n++
		}
	}
	return n
}

// CheckoutWarning evalúa de forma independiente importe no facturado, importe pendiente de pago
// y pagos sin vincular. Devuelve "" si no aplica ninguno. Es solo informativo: nunca bloquea
// una transición de estado.
func CheckoutWarning(r *entity.Reservation, currency string) string {
	var parts []string
	if u := UninvoicedAmount(r); u.GreaterThan(warningThreshold) {
		parts = append(parts, FormatMoney(currency, u)+" uninvoiced")
	}
	if o := OutstandingAmount(r); o.GreaterThan(warningThreshold) {
		parts = append(parts, FormatMoney(currency, o)+" unpaid")
	}
	if n := UnlinkedCompletedPayments(r); n > 0 {
		noun := "payments"
		if n == 1 {
			noun = "payment"
		}
		parts = append(parts, fmt.Sprintf("%d unlinked %s", n, noun))
	}
	return strings.Join(parts, " · ")
}

// FormatMoney "EUR 300.00".
func FormatMoney(currency string, amount decimal.Decimal) string {
	return currency + " " + amount.StringFixed(2)
}

// Summary totales derivados de un snapshot.
type Summary struct {
	RoomTotal        decimal.Decimal
	ExtrasTotal      decimal.Decimal
	Total            decimal.Decimal
	Paid             decimal.Decimal
	Outstanding      decimal.Decimal
	Invoiced         decimal.Decimal
	Uninvoiced       decimal.Decimal
	UnlinkedPayments int
	CheckoutWarning  string
}

// Summarize calcula todos los totales de una vez.
func Summarize(r *entity.Reservation, currency string) Summary {
	return Summary{
		RoomTotal:        RoomTotal(r),
		ExtrasTotal:      ExtrasTotal(r),
		Total:            TotalAmount(r),
		Paid:             PaidAmount(r),
		Outstanding:      OutstandingAmount(r),
		Invoiced:         InvoicedAmount(r),
		Uninvoiced:       UninvoicedAmount(r),
		UnlinkedPayments: UnlinkedCompletedPayments(r),
		CheckoutWarning:  CheckoutWarning(r, currency),
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
