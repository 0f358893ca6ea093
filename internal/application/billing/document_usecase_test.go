package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/memory"
)

// recorder captura el documento que recibe el renderizador.
type recorder struct {
	got billing.InvoiceDocument
	err error
}

func (r *recorder) GenerateInvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	r.got = doc
	return []byte("%PDF"), r.err
}

func (r *recorder) BuildUBL(_ context.Context, doc billing.InvoiceDocument) ([]byte, string, error) {
	r.got = doc
	return []byte("<Invoice/>"), "abc", r.err
}

func TestDocuments_RenderPDFConPagosVinculados(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")
	_, err := f.payments.RecordPayment(f.ctx, "ana", "res-1", billing.RecordPaymentInput{Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)
	inv, _, err := f.invoices.QuickInvoice(f.ctx, "ana", "res-1")
	require.NoError(t, err)

	rec := &recorder{}
	prop := &memory.PropertyRepo{Property: entity.Property{Name: "Hotel Aurora"}}
	docs := billing.NewDocumentUseCase(f.store, prop, rec, rec, "EUR")

	pdf, name, err := docs.RenderPDF(f.ctx, "res-1", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)
	assert.Equal(t, "invoice_"+inv.Number+".pdf", name)
	assert.Equal(t, "Hotel Aurora", rec.got.Property.Name)
	assert.Equal(t, "BK00001", rec.got.BookingRef)
	assert.Len(t, rec.got.Payments, 1)
	assert.Equal(t, "ana", rec.got.IssuedBy)

	// También por número.
	_, _, err = docs.RenderPDF(f.ctx, "res-1", inv.Number)
	require.NoError(t, err)
}

func TestDocuments_ExportUBL(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")
	inv, _, err := f.invoices.QuickInvoice(f.ctx, "ana", "res-1")
	require.NoError(t, err)

	rec := &recorder{}
	docs := billing.NewDocumentUseCase(f.store, nil, rec, rec, "EUR")

	xml, digest, err := docs.ExportUBL(f.ctx, "res-1", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "<Invoice/>", string(xml))
	assert.Equal(t, "abc", digest)

	rec.err = errors.New("boom")
	_, _, err = docs.ExportUBL(f.ctx, "res-1", inv.ID)
	assert.Error(t, err)
}

func TestDocuments_ProformaNoSeExportaYDocumentoInexistente(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")
	pf, err := f.invoices.CreateInvoice(f.ctx, "ana", "res-1", billing.CreateInvoiceInput{
		Keys: []string{"room:rs-1"}, Type: entity.InvoiceProforma,
	})
	require.NoError(t, err)

	rec := &recorder{}
	docs := billing.NewDocumentUseCase(f.store, nil, rec, rec, "EUR")

	_, _, err = docs.ExportUBL(f.ctx, "res-1", pf.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, name, err := docs.RenderPDF(f.ctx, "res-1", pf.ID)
	require.NoError(t, err)
	assert.Equal(t, "proforma_"+pf.Number+".pdf", name)

	_, _, err = docs.RenderPDF(f.ctx, "res-1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
