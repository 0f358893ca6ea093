package ubl_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/ubl"
)

func doc(t entity.InvoiceType) appbilling.InvoiceDocument {
	return appbilling.InvoiceDocument{
		Property: entity.Property{Name: "Hotel Aurora", LegalName: "Aurora BV", VATNumber: "BE0123456789", PeppolID: "0208:0123456789", Country: "BE"},
		Invoice: entity.Invoice{
			Number: "INV-2026-0002", Type: t, Status: entity.InvoiceCreated,
			Items: []entity.InvoiceItem{
				{Key: "room:rs-1", Label: "Room 101", Detail: "3 nights", Amount: decimal.NewFromInt(318), VATRate: decimal.NewFromInt(6)},
				{Key: "extra:bar", Label: "Minibar", Amount: decimal.RequireFromString("12.10"), VATRate: decimal.NewFromInt(21)},
			},
			Amount:    decimal.RequireFromString("330.10"),
			Recipient: entity.Recipient{Kind: entity.RecipientCompany, Company: "Acme NV", PeppolID: "0208:0999", Country: "BE"},
			CreditFor: "INV-2026-0001",
			IssuedAt:  time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
		},
		BookingRef: "BK00001",
		Currency:   "EUR",
		Payments:   []entity.Payment{{ID: "p1", Amount: decimal.NewFromInt(100), Status: entity.PaymentCompleted}},
	}
}

func parse(t *testing.T, data []byte) *etree.Element {
	t.Helper()
	x := etree.NewDocument()
	require.NoError(t, x.ReadFromBytes(data))
	return x.Root()
}

func TestBuildUBL_Factura(t *testing.T) {
	out, digest, err := ubl.NewBuilder().BuildUBL(context.Background(), doc(entity.InvoiceStandard))
	require.NoError(t, err)
	assert.Len(t, digest, 64)

	root := parse(t, out)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, "INV-2026-0002", root.SelectElement("ID").Text())
	assert.Equal(t, "380", root.SelectElement("InvoiceTypeCode").Text())
	assert.Equal(t, "2026-10-18", root.SelectElement("IssueDate").Text())
	assert.Equal(t, "BK00001", root.SelectElement("BuyerReference").Text())

	totals := root.SelectElement("LegalMonetaryTotal")
	assert.Equal(t, "310.00", totals.SelectElement("TaxExclusiveAmount").Text())
	assert.Equal(t, "330.10", totals.SelectElement("TaxInclusiveAmount").Text())
	assert.Equal(t, "100.00", totals.SelectElement("PrepaidAmount").Text())
	assert.Equal(t, "230.10", totals.SelectElement("PayableAmount").Text())

	assert.Equal(t, "20.10", root.SelectElement("TaxTotal").SelectElement("TaxAmount").Text())
	assert.Len(t, root.SelectElements("InvoiceLine"), 2)

	ep := root.FindElement("./AccountingSupplierParty/Party/EndpointID")
	require.NotNil(t, ep)
	assert.Equal(t, "0208", ep.SelectAttrValue("schemeID", ""))
	assert.Equal(t, "0123456789", ep.Text())
}

func TestBuildUBL_NotaDeCredito(t *testing.T) {
	out, _, err := ubl.NewBuilder().BuildUBL(context.Background(), doc(entity.InvoiceCredit))
	require.NoError(t, err)

	root := parse(t, out)
	assert.Equal(t, "CreditNote", root.Tag)
	assert.Equal(t, "381", root.SelectElement("CreditNoteTypeCode").Text())
	assert.Equal(t, "INV-2026-0001", root.FindElement("./BillingReference/InvoiceDocumentReference/ID").Text())
	assert.Nil(t, root.FindElement("./LegalMonetaryTotal/PrepaidAmount"), "las notas de crédito no descuentan pagos")
	assert.Len(t, root.SelectElements("CreditNoteLine"), 2)
}

func TestBuildUBL_RechazaProforma(t *testing.T) {
	_, _, err := ubl.NewBuilder().BuildUBL(context.Background(), doc(entity.InvoiceProforma))
	assert.Error(t, err)
}

func TestDigest_IgnoraElFormato(t *testing.T) {
	a, err := ubl.Digest([]byte(`<a xmlns="urn:x"><b>1</b></a>`))
	require.NoError(t, err)
	b, err := ubl.Digest([]byte(`<?xml version="1.0"?>` + "\n" + `<a   xmlns="urn:x"><b>1</b></a>`))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := ubl.Digest([]byte(`<a xmlns="urn:x"><b>2</b></a>`))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
	assert.False(t, strings.ContainsAny(a, "ABCDEF"), "hex en minúsculas")
}
