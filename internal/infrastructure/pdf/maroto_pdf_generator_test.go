package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/pdf"
)

func document(t entity.InvoiceType) appbilling.InvoiceDocument {
	return appbilling.InvoiceDocument{
		Property: entity.Property{Name: "Hotel Aurora", VATNumber: "BE0123456789", City: "Gent", Country: "BE"},
		Invoice: entity.Invoice{
			Number: "INV-2026-0001", Type: t, Status: entity.InvoiceCreated,
			Items: []entity.InvoiceItem{
				{Key: "room:rs-1", Label: "Room 101", Detail: "3 nights", Amount: decimal.NewFromInt(318), VATRate: decimal.NewFromInt(6)},
				{Key: "extra:bar", Label: "Minibar", Amount: decimal.RequireFromString("12.10"), VATRate: decimal.NewFromInt(21)},
			},
			Amount:    decimal.RequireFromString("330.10"),
			Recipient: entity.Recipient{Kind: entity.RecipientCompany, Name: "Ana", Company: "Acme NV", VATNumber: "BE0999"},
			CreditFor: "INV-2026-0000",
			IssuedAt:  time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		},
		BookingRef: "BK00001",
		Currency:   "EUR",
		Payments:   []entity.Payment{{ID: "p1", Amount: decimal.NewFromInt(100), Method: "card", Status: entity.PaymentCompleted}},
	}
}

func TestGenerateInvoicePDF_TodosLosTipos(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()
	for _, typ := range []entity.InvoiceType{entity.InvoiceStandard, entity.InvoiceProforma, entity.InvoiceCredit} {
		t.Run(string(typ), func(t *testing.T) {
			out, err := g.GenerateInvoicePDF(context.Background(), document(typ))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
		})
	}
}
