package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

// DocumentUseCase genera el PDF y la exportación UBL de los documentos de una reserva.
// Solo lee: trabaja sobre la copia que devuelve el store.
type DocumentUseCase struct {
	store     ports.ReservationStore
	property  repository.PropertyRepository
	generator InvoicePDFGenerator
	ubl       UBLBuilder
	currency  string
}

// NewDocumentUseCase construye el caso de uso inyectando todas sus dependencias.
func NewDocumentUseCase(
	store ports.ReservationStore,
	property repository.PropertyRepository,
	generator InvoicePDFGenerator,
	ubl UBLBuilder,
	currency string,
) *DocumentUseCase {
	return &DocumentUseCase{
		store:     store,
		property:  property,
		generator: generator,
		ubl:       ubl,
		currency:  currency,
	}
}

// RenderPDF genera el PDF del documento.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la reserva o el documento no existen.
func (uc *DocumentUseCase) RenderPDF(ctx context.Context, resID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.load(ctx, resID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, *doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fileName(doc.Invoice, "pdf"), nil
}

// ExportUBL genera el XML UBL del documento y su huella. Las proformas no son documentos
// fiscales y no se exportan.
func (uc *DocumentUseCase) ExportUBL(ctx context.Context, resID, invoiceID string) (xml []byte, digest string, err error) {
	doc, err := uc.load(ctx, resID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if doc.Invoice.Type == entity.InvoiceProforma {
		return nil, "", fmt.Errorf("%w: las proformas no se exportan a UBL", domain.ErrConflict)
	}
	xml, digest, err = uc.ubl.BuildUBL(ctx, *doc)
	if err != nil {
		return nil, "", fmt.Errorf("ubl: generación fallida: %w", err)
	}
	return xml, digest, nil
}

func (uc *DocumentUseCase) load(ctx context.Context, resID, invoiceID string) (*InvoiceDocument, error) {
	// ── 1. Reserva y documento ────────────────────────────────────────────────
	r, err := uc.store.Get(ctx, resID)
	if err != nil {
		return nil, err
	}
	idx := r.InvoiceByID(invoiceID)
	if idx < 0 {
		idx = r.InvoiceByNumber(invoiceID)
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: documento %s", domain.ErrNotFound, invoiceID)
	}
	inv := r.Invoices[idx]

	// ── 2. Datos del establecimiento ──────────────────────────────────────────
	var property entity.Property
	if uc.property != nil {
		p, err := uc.property.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("documento: obtener establecimiento: %w", err)
		}
		if p != nil {
			property = *p
		}
	}

	// ── 3. Pagos vinculados ───────────────────────────────────────────────────
	var payments []entity.Payment
	for _, id := range inv.LinkedPayments {
		if i := r.PaymentByID(id); i >= 0 {
			payments = append(payments, r.Payments[i])
		}
	}

	return &InvoiceDocument{
		Property:   property,
		Invoice:    inv,
		BookingRef: r.BookingRef,
		Currency:   uc.currency,
		Payments:   payments,
		IssuedBy:   issuer(r, inv),
	}, nil
}

// issuer busca en el log de actividad la primera entrada que menciona el documento.
func issuer(r *entity.Reservation, inv entity.Invoice) string {
	for _, a := range r.Activity {
		if strings.Contains(a.Message, inv.Number) {
			return a.Actor
		}
	}
	return ""
}

func fileName(inv entity.Invoice, ext string) string {
	kind := "invoice"
	switch inv.Type {
	case entity.InvoiceProforma:
		kind = "proforma"
	case entity.InvoiceCredit:
		kind = "credit-note"
	}
	return fmt.Sprintf("%s_%s.%s", kind, inv.Number, ext)
}
