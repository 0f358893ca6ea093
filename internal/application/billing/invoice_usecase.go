// Package billing contiene los casos de uso de facturación: numeración, ciclo de vida de
// facturas y proformas, libro de pagos y documentos.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// CreateInvoiceInput selección para CreateInvoice.
type CreateInvoiceInput struct {
	Keys           []string
	Type           entity.InvoiceType // standard (por defecto) o proforma
	Recipient      *entity.Recipient  // nil = destinatario de la reserva
	LinkPaymentIDs []string
}

// AmendResult documentos resultantes de una enmienda.
type AmendResult struct {
	Credited    entity.Invoice
	CreditNote  entity.Invoice
	Replacement entity.Invoice
}

// ItemCoverage ítem facturable con la factura que lo cubre ("" = sin facturar).
type ItemCoverage struct {
	calc.BillableItem
	InvoiceNumber string
}

// Overview vista de facturación de una reserva.
type Overview struct {
	Summary calc.Summary
	Items   []ItemCoverage
}

// InvoiceUseCase gestor del ciclo de vida de facturas, proformas y notas de crédito.
type InvoiceUseCase struct {
	store     ports.ReservationStore
	numbering *NumberingService
	catalog   *CatalogResolver
	clock     clockwork.Clock
	currency  string
	log       zerolog.Logger
}

// NewInvoiceUseCase construye el caso de uso inyectando sus dependencias.
func NewInvoiceUseCase(
	store ports.ReservationStore,
	numbering *NumberingService,
	catalog *CatalogResolver,
	clock clockwork.Clock,
	currency string,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		store:     store,
		numbering: numbering,
		catalog:   catalog,
		clock:     clock,
		currency:  currency,
		log:       log.With().Str("component", "invoices").Logger(),
	}
}

// ── Consultas ────────────────────────────────────────────────────────────────

// ComputeBillableItems ítems facturables actuales de la reserva.
func (uc *InvoiceUseCase) ComputeBillableItems(ctx context.Context, resID string) ([]calc.BillableItem, error) {
	r, err := uc.store.Get(ctx, resID)
	if err != nil {
		return nil, err
	}
	cat, err := uc.catalog.Resolve(ctx, r)
	if err != nil {
		return nil, err
	}
	return calc.BillableItems(r, cat), nil
}

// ComputeUninvoiced ítems facturables que ninguna factura activa cubre.
func (uc *InvoiceUseCase) ComputeUninvoiced(ctx context.Context, resID string) ([]calc.BillableItem, error) {
	r, err := uc.store.Get(ctx, resID)
	if err != nil {
		return nil, err
	}
	cat, err := uc.catalog.Resolve(ctx, r)
	if err != nil {
		return nil, err
	}
	return calc.Uninvoiced(r, cat), nil
}

// Overview totales e ítems con su cobertura.
func (uc *InvoiceUseCase) Overview(ctx context.Context, resID string) (*Overview, error) {
	r, err := uc.store.Get(ctx, resID)
	if err != nil {
		return nil, err
	}
	cat, err := uc.catalog.Resolve(ctx, r)
	if err != nil {
		return nil, err
	}
	covered := calc.CoveredKeys(r)
	items := calc.BillableItems(r, cat)
	out := &Overview{Summary: calc.Summarize(r, uc.currency), Items: make([]ItemCoverage, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, ItemCoverage{BillableItem: it, InvoiceNumber: covered[it.Key]})
	}
	return out, nil
}

// ── Emisión ──────────────────────────────────────────────────────────────────

// CreateInvoice emite una factura estándar o una proforma con los ítems seleccionados, que
// deben estar todos sin facturar. Las proformas usan su propio contador y no vinculan pagos.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, actor, resID string, in CreateInvoiceInput) (*entity.Invoice, error) {
	if len(in.Keys) == 0 {
		return nil, domain.ErrEmptySelection
	}
	if in.Type == "" {
		in.Type = entity.InvoiceStandard
	}
	switch in.Type {
	case entity.InvoiceStandard:
	case entity.InvoiceProforma:
		if len(in.LinkPaymentIDs) > 0 {
			return nil, fmt.Errorf("%w: una proforma no vincula pagos", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: tipo de factura %q", domain.ErrInvalidInput, in.Type)
	}
	if in.Recipient != nil {
		if err := in.Recipient.Validate(); err != nil {
			return nil, err
		}
	}

	lease, err := uc.numbering.Begin(ctx, SequenceFor(in.Type))
	if err != nil {
		return nil, err
	}
	defer lease.Rollback()

	var issued entity.Invoice
	_, err = uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		cat, err := uc.catalog.Resolve(ctx, r)
		if err != nil {
			return err
		}
		items, err := selectUninvoiced(r, cat, in.Keys)
		if err != nil {
			return err
		}
		recipient := r.BillingRecipient()
		if in.Recipient != nil {
			recipient = *in.Recipient
		}
		now := uc.clock.Now().UTC()
		idx := appendInvoice(r, lease.Next(now), now, in.Type, items, recipient)
		for _, pid := range in.LinkPaymentIDs {
			if err := linkCompleted(r, pid, idx); err != nil {
				return err
			}
		}
		r.Log(now, actor, uc.issuedMessage(r.Invoices[idx]))
		issued = cloneInvoice(r.Invoices[idx])
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, lease)
	return &issued, nil
}

// QuickInvoice factura todos los ítems sin facturar y vincula todos los pagos completados sin
// vincular. Si no queda nada sin facturar, vincula esos pagos a la última factura activa.
// created indica si se emitió una factura nueva.
func (uc *InvoiceUseCase) QuickInvoice(ctx context.Context, actor, resID string) (inv *entity.Invoice, created bool, err error) {
	lease, err := uc.numbering.Begin(ctx, entity.SequenceInvoice)
	if err != nil {
		return nil, false, err
	}
	defer lease.Rollback()

	var result entity.Invoice
	_, err = uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		cat, err := uc.catalog.Resolve(ctx, r)
		if err != nil {
			return err
		}
		now := uc.clock.Now().UTC()
		uninvoiced := calc.Uninvoiced(r, cat)
		unlinked := unlinkedCompleted(r)

		var idx int
		switch {
		case len(uninvoiced) > 0:
			items := make([]entity.InvoiceItem, 0, len(uninvoiced))
			for _, it := range uninvoiced {
				items = append(items, it.Snapshot())
			}
			idx = appendInvoice(r, lease.Next(now), now, entity.InvoiceStandard, items, r.BillingRecipient())
			created = true
		case len(unlinked) > 0:
			idx = latestActiveInvoice(r)
			if idx < 0 {
				return domain.ErrEmptySelection
			}
		default:
			return domain.ErrEmptySelection
		}

		for _, pid := range unlinked {
			relink(r, r.PaymentByID(pid), idx)
		}
		if created {
			r.Log(now, actor, uc.issuedMessage(r.Invoices[idx]))
		} else {
			r.Log(now, actor, fmt.Sprintf("%d payment(s) linked to invoice %s", len(unlinked), r.Invoices[idx].Number))
		}
		result = cloneInvoice(r.Invoices[idx])
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	uc.publish(ctx, lease)
	return &result, created, nil
}

// ── Abono y enmienda ─────────────────────────────────────────────────────────

// CreditInvoice abona la factura: queda credited, se emite una nota de crédito con los mismos
// ítems e importe y se desvinculan todos sus pagos.
func (uc *InvoiceUseCase) CreditInvoice(ctx context.Context, actor, resID, invoiceID string) (*entity.Invoice, error) {
	lease, err := uc.numbering.Begin(ctx, entity.SequenceInvoice)
	if err != nil {
		return nil, err
	}
	defer lease.Rollback()

	var note entity.Invoice
	_, err = uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		idx, err := creditable(r, invoiceID)
		if err != nil {
			return err
		}
		now := uc.clock.Now().UTC()
		noteIdx, released := creditInto(r, idx, lease.Next(now), now)
		r.Log(now, actor, fmt.Sprintf("Invoice %s credited by %s (%s); %d payment(s) unlinked",
			r.Invoices[idx].Number, r.Invoices[noteIdx].Number,
			calc.FormatMoney(uc.currency, r.Invoices[noteIdx].Amount), len(released)))
		note = cloneInvoice(r.Invoices[noteIdx])
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, lease)
	return &note, nil
}

// AmendInvoice abona la factura y reemite una estándar con los mismos ítems, opcionalmente a
// otro destinatario, re-vinculando los mismos pagos al nuevo número. Todo en una sola mutación.
func (uc *InvoiceUseCase) AmendInvoice(ctx context.Context, actor, resID, invoiceID string, newRecipient *entity.Recipient) (*AmendResult, error) {
	if newRecipient != nil {
		if err := newRecipient.Validate(); err != nil {
			return nil, err
		}
	}
	lease, err := uc.numbering.Begin(ctx, entity.SequenceInvoice)
	if err != nil {
		return nil, err
	}
	defer lease.Rollback()

	var out AmendResult
	_, err = uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		idx, err := creditable(r, invoiceID)
		if err != nil {
			return err
		}
		now := uc.clock.Now().UTC()
		noteIdx, released := creditInto(r, idx, lease.Next(now), now)

		orig := r.Invoices[idx]
		recipient := orig.Recipient
		if newRecipient != nil {
			recipient = *newRecipient
		}
		newIdx := appendInvoice(r, lease.Next(now), now, entity.InvoiceStandard, orig.Items, recipient)
		r.Invoices[newIdx].AmendsInvoice = orig.Number
		for _, pid := range released {
			if pidx := r.PaymentByID(pid); pidx >= 0 {
				relink(r, pidx, newIdx)
			}
		}

		r.Log(now, actor, fmt.Sprintf("Invoice %s amended: credit note %s, replacement %s to %s",
			orig.Number, r.Invoices[noteIdx].Number, r.Invoices[newIdx].Number, recipient.DisplayName()))
		out = AmendResult{
			Credited:    cloneInvoice(r.Invoices[idx]),
			CreditNote:  cloneInvoice(r.Invoices[noteIdx]),
			Replacement: cloneInvoice(r.Invoices[newIdx]),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, lease)
	return &out, nil
}

// ── Proformas ────────────────────────────────────────────────────────────────

// FinalizeProforma marca la proforma finalized y emite una factura estándar con los mismos
// ítems y un número de la secuencia de facturas.
func (uc *InvoiceUseCase) FinalizeProforma(ctx context.Context, actor, resID, invoiceID string) (*entity.Invoice, error) {
	lease, err := uc.numbering.Begin(ctx, entity.SequenceInvoice)
	if err != nil {
		return nil, err
	}
	defer lease.Rollback()

	var issued entity.Invoice
	_, err = uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		idx, err := openProforma(r, invoiceID)
		if err != nil {
			return err
		}
		pf := &r.Invoices[idx]
		covered := calc.CoveredKeys(r)
		for _, it := range pf.Items {
			if num, ok := covered[it.Key]; ok {
				return fmt.Errorf("%w: %s ya está en la factura %s", domain.ErrItemsNotUninvoiced, it.Key, num)
			}
		}
		now := uc.clock.Now().UTC()
		pf.Status = entity.InvoiceFinalized
		releasePayments(r, idx)

		pfNumber := pf.Number
		newIdx := appendInvoice(r, lease.Next(now), now, entity.InvoiceStandard, pf.Items, pf.Recipient)
		r.Invoices[newIdx].FromProforma = pfNumber
		r.Log(now, actor, fmt.Sprintf("Proforma %s finalized as invoice %s", pfNumber, r.Invoices[newIdx].Number))
		issued = cloneInvoice(r.Invoices[newIdx])
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, lease)
	return &issued, nil
}

// DeleteProforma elimina una proforma en estado created y desvincula los pagos que la apunten.
func (uc *InvoiceUseCase) DeleteProforma(ctx context.Context, actor, resID, invoiceID string) error {
	_, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		idx, err := openProforma(r, invoiceID)
		if err != nil {
			return err
		}
		released := releasePayments(r, idx)
		number := r.Invoices[idx].Number
		r.Invoices = append(r.Invoices[:idx], r.Invoices[idx+1:]...)
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Proforma %s deleted; %d payment(s) unlinked", number, len(released)))
		return nil
	})
	return err
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// publish persiste el contador. La factura ya está confirmada, así que un fallo solo se avisa.
func (uc *InvoiceUseCase) publish(ctx context.Context, lease *Lease) {
	if err := lease.Commit(ctx, uc.clock.Now().UTC()); err != nil {
		uc.log.Warn().Err(err).Msg("contador de facturas sin persistir")
	}
}

func (uc *InvoiceUseCase) issuedMessage(inv entity.Invoice) string {
	kind := "Invoice"
	if inv.Type == entity.InvoiceProforma {
		kind = "Proforma"
	}
	return fmt.Sprintf("%s %s created: %s, %d item(s)", kind, inv.Number,
		calc.FormatMoney(uc.currency, inv.Amount), len(inv.Items))
}

// selectUninvoiced valida la selección y devuelve los snapshots en el orden de los ítems facturables.
func selectUninvoiced(r *entity.Reservation, cat calc.Catalog, keys []string) ([]entity.InvoiceItem, error) {
	selected := make(map[string]bool, len(keys))
	for _, k := range keys {
		selected[k] = true
	}
	available := make(map[string]bool)
	items := make([]entity.InvoiceItem, 0, len(selected))
	for _, it := range calc.Uninvoiced(r, cat) {
		available[it.Key] = true
		if selected[it.Key] {
			items = append(items, it.Snapshot())
		}
	}
	for k := range selected {
		if !available[k] {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemsNotUninvoiced, k)
		}
	}
	return items, nil
}

func appendInvoice(r *entity.Reservation, num Issued, now time.Time, typ entity.InvoiceType, items []entity.InvoiceItem, recipient entity.Recipient) int {
	r.Invoices = append(r.Invoices, entity.Invoice{
		ID:           uuid.NewString(),
		Number:       num.Number,
		Sequence:     num.Sequence,
		SequenceYear: num.Year,
		Type:         typ,
		Status:       entity.InvoiceCreated,
		Items:        append([]entity.InvoiceItem(nil), items...),
		Amount:       entity.ItemsTotal(items),
		Recipient:    recipient,
		IssuedAt:     now,
	})
	return len(r.Invoices) - 1
}
