package billing

import (
	"fmt"

	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// Reglas de vinculación pago ↔ factura. Operan sobre el borrador de la reserva dentro de
// store.Update, por lo que cada cambio se confirma o descarta completo.

// unlinkPayment quita el vínculo del pago en ambos lados. Devuelve el número desvinculado.
func unlinkPayment(r *entity.Reservation, paymentIdx int) string {
	p := &r.Payments[paymentIdx]
	old := p.LinkedInvoice
	// Se recorre cualquier factura que aún lo liste aunque el campo del pago esté vacío.
	for i := range r.Invoices {
		r.Invoices[i].LinkedPayments = removeID(r.Invoices[i].LinkedPayments, p.ID)
	}
	p.LinkedInvoice = ""
	return old
}

// relink vincula el pago a la factura invoiceIdx tras eliminar cualquier vínculo previo.
func relink(r *entity.Reservation, paymentIdx, invoiceIdx int) {
	unlinkPayment(r, paymentIdx)
	inv := &r.Invoices[invoiceIdx]
	pid := r.Payments[paymentIdx].ID
	inv.LinkedPayments = append(inv.LinkedPayments, pid)
	r.Payments[paymentIdx].LinkedInvoice = inv.Number
}

// linkCompleted valida que el pago exista y esté completado, y lo vincula a invoiceIdx.
func linkCompleted(r *entity.Reservation, paymentID string, invoiceIdx int) error {
	pidx := r.PaymentByID(paymentID)
	if pidx < 0 {
		return fmt.Errorf("%w: pago %s", domain.ErrNotFound, paymentID)
	}
	if r.Payments[pidx].Status != entity.PaymentCompleted {
		return fmt.Errorf("%w: el pago %s no está completado", domain.ErrPaymentState, paymentID)
	}
	relink(r, pidx, invoiceIdx)
	return nil
}

// releasePayments desvincula todos los pagos que apuntan a la factura invoiceIdx, tanto los
// listados en la factura como los que solo la referencian desde el pago. Devuelve sus ids en
// el orden en que estaban vinculados.
func releasePayments(r *entity.Reservation, invoiceIdx int) []string {
	inv := &r.Invoices[invoiceIdx]
	released := append([]string(nil), inv.LinkedPayments...)
	for i := range r.Payments {
		p := &r.Payments[i]
		if p.LinkedInvoice == inv.Number && inv.Number != "" && !containsID(released, p.ID) {
			released = append(released, p.ID)
		}
	}
	for _, id := range released {
		if pidx := r.PaymentByID(id); pidx >= 0 && r.Payments[pidx].LinkedInvoice == inv.Number {
			r.Payments[pidx].LinkedInvoice = ""
		}
	}
	inv.LinkedPayments = nil
	return released
}

func removeID(ids []string, id string) []string {
	var out []string
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
