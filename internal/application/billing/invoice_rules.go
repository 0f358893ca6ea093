package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// creditable localiza la factura y valida que admita abono o enmienda.
func creditable(r *entity.Reservation, invoiceID string) (int, error) {
	idx := r.InvoiceByID(invoiceID)
	if idx < 0 {
		return -1, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	inv := r.Invoices[idx]
	switch {
	case inv.Type == entity.InvoiceCredit:
		return -1, domain.ErrCreditNoteImmutable
	case inv.Type == entity.InvoiceProforma:
		return -1, domain.ErrProformaNotAmenable
	case inv.Status == entity.InvoiceCredited:
		return -1, fmt.Errorf("%w: %s", domain.ErrInvoiceCredited, inv.Number)
	}
	return idx, nil
}

// creditInto marca la factura idx como credited, agrega la nota de crédito con el mismo
// snapshot e importe y desvincula sus pagos. Devuelve el índice de la nota y los pagos liberados.
func creditInto(r *entity.Reservation, idx int, num Issued, now time.Time) (int, []string) {
	released := releasePayments(r, idx)
	r.Invoices[idx].Status = entity.InvoiceCredited

	orig := r.Invoices[idx]
	noteIdx := appendInvoice(r, num, now, entity.InvoiceCredit, orig.Items, orig.Recipient)
	r.Invoices[noteIdx].Amount = orig.Amount
	r.Invoices[noteIdx].CreditFor = orig.Number
	return noteIdx, released
}

// openProforma localiza la proforma y valida que siga en created.
func openProforma(r *entity.Reservation, invoiceID string) (int, error) {
	idx := r.InvoiceByID(invoiceID)
	if idx < 0 {
		return -1, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	inv := r.Invoices[idx]
	if inv.Type != entity.InvoiceProforma {
		return -1, domain.ErrNotProforma
	}
	if inv.Status != entity.InvoiceCreated {
		return -1, fmt.Errorf("%w: %s está %s", domain.ErrProformaState, inv.Number, inv.Status)
	}
	return idx, nil
}

// unlinkedCompleted ids de pagos completados sin factura, en orden de registro.
func unlinkedCompleted(r *entity.Reservation) []string {
	var ids []string
	for _, p := range r.Payments {
		if p.Status == entity.PaymentCompleted && p.LinkedInvoice == "" {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// latestActiveInvoice última factura estándar vigente, o -1.
func latestActiveInvoice(r *entity.Reservation) int {
	for i := len(r.Invoices) - 1; i >= 0; i-- {
		inv := r.Invoices[i]
		if inv.Type == entity.InvoiceStandard && inv.Status == entity.InvoiceCreated {
			return i
		}
	}
	return -1
}

func cloneInvoice(inv entity.Invoice) entity.Invoice {
	inv.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	inv.LinkedPayments = append([]string(nil), inv.LinkedPayments...)
	return inv
}
