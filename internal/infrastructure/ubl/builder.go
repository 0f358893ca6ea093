// Package ubl genera la exportación UBL 2.1 (Peppol BIS Billing 3.0) de facturas y notas de
// crédito, y la huella SHA-256 de su forma canónica para el archivo.
package ubl

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	appbilling "github.com/jhoicas/frontdesk-api/internal/application/billing"
	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// Namespaces UBL 2.1.
const (
	NsInvoice    = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCreditNote = "urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
	NsCac        = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc        = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// Identificadores Peppol BIS Billing 3.0.
const (
	CustomizationID = "urn:cen.eu:en16931:2017#compliant#urn:fdc:peppol.eu:2017:poacc:billing:3.0"
	ProfileID       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"

	typeCodeInvoice    = "380"
	typeCodeCreditNote = "381"
	unitCodeUnit       = "C62"
)

// Builder implementa billing.UBLBuilder con etree.
type Builder struct{}

var _ appbilling.UBLBuilder = (*Builder)(nil)

// NewBuilder crea el builder.
func NewBuilder() *Builder { return &Builder{} }

// BuildUBL genera el XML del documento y la huella de su forma canónica (C14N).
func (b *Builder) BuildUBL(_ context.Context, doc appbilling.InvoiceDocument) ([]byte, string, error) {
	inv := doc.Invoice
	if inv.Type == entity.InvoiceProforma {
		return nil, "", fmt.Errorf("ubl: una proforma no es un documento fiscal")
	}
	credit := inv.Type == entity.InvoiceCredit

	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rootTag, ns, typeTag, typeCode := "Invoice", NsInvoice, "cbc:InvoiceTypeCode", typeCodeInvoice
	lineTag, qtyTag := "cac:InvoiceLine", "cbc:InvoicedQuantity"
	if credit {
		rootTag, ns, typeTag, typeCode = "CreditNote", NsCreditNote, "cbc:CreditNoteTypeCode", typeCodeCreditNote
		lineTag, qtyTag = "cac:CreditNoteLine", "cbc:CreditedQuantity"
	}
	root := x.CreateElement(rootTag)
	root.CreateAttr("xmlns", ns)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	// ── Cabecera ──────────────────────────────────────────────────────────────
	root.CreateElement("cbc:CustomizationID").SetText(CustomizationID)
	root.CreateElement("cbc:ProfileID").SetText(ProfileID)
	root.CreateElement("cbc:ID").SetText(inv.Number)
	root.CreateElement("cbc:IssueDate").SetText(inv.IssuedAt.UTC().Format("2006-01-02"))
	root.CreateElement(typeTag).SetText(typeCode)
	root.CreateElement("cbc:DocumentCurrencyCode").SetText(doc.Currency)
	if doc.BookingRef != "" {
		root.CreateElement("cbc:BuyerReference").SetText(doc.BookingRef)
	}
	if credit && inv.CreditFor != "" {
		ref := root.CreateElement("cac:BillingReference").CreateElement("cac:InvoiceDocumentReference")
		ref.CreateElement("cbc:ID").SetText(inv.CreditFor)
	}

	// ── Partes ────────────────────────────────────────────────────────────────
	supplier(root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party"), doc.Property)
	customer(root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party"), inv.Recipient)

	// ── Impuestos ─────────────────────────────────────────────────────────────
	breakdown := calc.VATBreakdown(inv.Items)
	taxTotal := root.CreateElement("cac:TaxTotal")
	vat := decimal.Zero
	for _, l := range breakdown {
		vat = vat.Add(l.VAT)
	}
	amount(taxTotal, "cbc:TaxAmount", vat, doc.Currency)
	net := decimal.Zero
	for _, l := range breakdown {
		net = net.Add(l.Net)
		sub := taxTotal.CreateElement("cac:TaxSubtotal")
		amount(sub, "cbc:TaxableAmount", l.Net, doc.Currency)
		amount(sub, "cbc:TaxAmount", l.VAT, doc.Currency)
		taxCategory(sub.CreateElement("cac:TaxCategory"), l.Rate)
	}

	// ── Totales ───────────────────────────────────────────────────────────────
	gross := net.Add(vat)
	prepaid := decimal.Zero
	if !credit {
		for _, p := range doc.Payments {
			prepaid = prepaid.Add(p.Amount)
		}
		if prepaid.GreaterThan(gross) {
			prepaid = gross
		}
	}
	totals := root.CreateElement("cac:LegalMonetaryTotal")
	amount(totals, "cbc:LineExtensionAmount", net, doc.Currency)
	amount(totals, "cbc:TaxExclusiveAmount", net, doc.Currency)
	amount(totals, "cbc:TaxInclusiveAmount", gross, doc.Currency)
	if prepaid.IsPositive() {
		amount(totals, "cbc:PrepaidAmount", prepaid, doc.Currency)
	}
	amount(totals, "cbc:PayableAmount", gross.Sub(prepaid), doc.Currency)

	// ── Líneas ────────────────────────────────────────────────────────────────
	for i, it := range inv.Items {
		lineNet := calc.NetOf(it.Amount, it.VATRate)
		line := root.CreateElement(lineTag)
		line.CreateElement("cbc:ID").SetText(fmt.Sprintf("%d", i+1))
		q := line.CreateElement(qtyTag)
		q.CreateAttr("unitCode", unitCodeUnit)
		q.SetText("1")
		amount(line, "cbc:LineExtensionAmount", lineNet, doc.Currency)
		item := line.CreateElement("cac:Item")
		if it.Detail != "" {
			item.CreateElement("cbc:Description").SetText(it.Detail)
		}
		item.CreateElement("cbc:Name").SetText(it.Label)
		taxCategory(item.CreateElement("cac:ClassifiedTaxCategory"), it.VATRate)
		amount(line.CreateElement("cac:Price"), "cbc:PriceAmount", lineNet, doc.Currency)
	}

	x.Indent(2)
	out, err := x.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("ubl: serializar: %w", err)
	}
	digest, err := Digest(out)
	if err != nil {
		return nil, "", err
	}
	return out, digest, nil
}

// Digest SHA-256 en hex de la forma canónica (C14N) del XML. Dos exportaciones equivalentes
// con distinto formato producen la misma huella.
func Digest(data []byte) (string, error) {
	// La declaración XML no forma parte de la forma canónica.
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("<?xml")) {
		if _, rest, ok := bytes.Cut(data, []byte("?>")); ok {
			data = bytes.TrimSpace(rest)
		}
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	canon, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func amount(parent *etree.Element, tag string, v decimal.Decimal, currency string) {
	e := parent.CreateElement(tag)
	e.CreateAttr("currencyID", currency)
	e.SetText(v.StringFixed(2))
}

// vatCategory S = tasa estándar, Z = tasa cero (EN 16931, UNCL5305).
func vatCategory(rate decimal.Decimal) string {
	if rate.IsZero() {
		return "Z"
	}
	return "S"
}

func taxCategory(e *etree.Element, rate decimal.Decimal) {
	e.CreateElement("cbc:ID").SetText(vatCategory(rate))
	e.CreateElement("cbc:Percent").SetText(rate.String())
	e.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")
}

func supplier(party *etree.Element, p entity.Property) {
	if p.PeppolID != "" {
		endpoint(party, p.PeppolID)
	}
	address(party, p.Address, p.City, p.Country)
	if p.VATNumber != "" {
		pts := party.CreateElement("cac:PartyTaxScheme")
		pts.CreateElement("cbc:CompanyID").SetText(p.VATNumber)
		pts.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")
	}
	name := p.LegalName
	if name == "" {
		name = p.Name
	}
	party.CreateElement("cac:PartyLegalEntity").CreateElement("cbc:RegistrationName").SetText(name)
}

func customer(party *etree.Element, r entity.Recipient) {
	if r.PeppolID != "" {
		endpoint(party, r.PeppolID)
	}
	address(party, r.Address, r.City, r.Country)
	if r.VATNumber != "" {
		pts := party.CreateElement("cac:PartyTaxScheme")
		pts.CreateElement("cbc:CompanyID").SetText(r.VATNumber)
		pts.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")
	}
	party.CreateElement("cac:PartyLegalEntity").CreateElement("cbc:RegistrationName").SetText(r.DisplayName())
	if r.Email != "" {
		party.CreateElement("cac:Contact").CreateElement("cbc:ElectronicMail").SetText(r.Email)
	}
}

// endpoint acepta "esquema:identificador", ej. "0208:0123456789".
func endpoint(party *etree.Element, id string) {
	scheme, value, ok := strings.Cut(id, ":")
	if !ok {
		scheme, value = "", id
	}
	e := party.CreateElement("cbc:EndpointID")
	if scheme != "" {
		e.CreateAttr("schemeID", scheme)
	}
	e.SetText(value)
}

func address(party *etree.Element, street, city, country string) {
	a := party.CreateElement("cac:PostalAddress")
	if street != "" {
		a.CreateElement("cbc:StreetName").SetText(street)
	}
	if city != "" {
		a.CreateElement("cbc:CityName").SetText(city)
	}
	if country != "" {
		a.CreateElement("cac:Country").CreateElement("cbc:IdentificationCode").SetText(country)
	}
}
