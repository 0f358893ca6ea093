// Package pdf implementa la representación gráfica de facturas, proformas y notas de crédito.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Establecimiento + NIF │ Tipo + N° + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                             │
//	│  DESTINATARIO: Nombre / Empresa + NIF + dirección            │
//	│  BANNER: proforma o nota de crédito (si aplica)              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Detalle | IVA% | Importe               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  IVA por tasa + TOTAL                                        │
//	│  PAGOS vinculados                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/frontdesk-api/internal/application/billing"
	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc appbilling.InvoiceDocument) ([]byte, error) {
	inv := doc.Invoice
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(documentTitle(inv.Type)+" "+inv.Number, true).
		WithAuthor(nonEmpty(doc.Property.Name, "Front desk"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(doc.Property))
	m.AddRows(recipientRow(inv.Recipient, doc.BookingRef))
	if b := bannerRow(inv); b != nil {
		m.AddRows(b)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(inv.Items, doc.Currency)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(inv, doc.Currency)...)

	if len(doc.Payments) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(paymentRows(doc.Payments, doc.Currency)...)
	}

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdf.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func documentTitle(t entity.InvoiceType) string {
	switch t {
	case entity.InvoiceProforma:
		return "PROFORMA"
	case entity.InvoiceCredit:
		return "CREDIT NOTE"
	}
	return "INVOICE"
}

// headerRow: establecimiento + NIF (izq) y tipo + número + fecha (der).
func headerRow(doc appbilling.InvoiceDocument) core.Row {
	inv := doc.Invoice
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.Property.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("VAT: "+nonEmpty(doc.Property.VATNumber, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(documentTitle(inv.Type), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+inv.IssuedAt.Format("2006-01-02"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func issuerRow(p entity.Property) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(nonEmpty(p.LegalName, p.Name), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s, %s %s   |   Tel: %s   |   Email: %s",
				nonEmpty(p.Address, "—"), p.City, p.Country,
				nonEmpty(p.Phone, "—"),
				nonEmpty(p.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// recipientRow usa el snapshot guardado en el documento, nunca el destinatario vivo.
func recipientRow(r entity.Recipient, bookingRef string) core.Row {
	detail := nonEmpty(r.Address, "—")
	if r.City != "" || r.Country != "" {
		detail = fmt.Sprintf("%s, %s %s", detail, r.City, r.Country)
	}
	if r.VATNumber != "" {
		detail += "   |   VAT: " + r.VATNumber
	}
	return row.New(18).Add(
		col.New(8).Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(r.DisplayName(), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(detail, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Booking "+bookingRef, props.Text{Size: 8, Align: align.Right, Top: 6, Color: colorGray}),
		),
	)
}

// bannerRow aviso visible para proformas, notas de crédito y facturas abonadas.
func bannerRow(inv entity.Invoice) core.Row {
	var msg string
	switch {
	case inv.Type == entity.InvoiceProforma:
		msg = "PROFORMA - NOT A VALID TAX INVOICE"
	case inv.Type == entity.InvoiceCredit:
		msg = "CREDIT NOTE FOR INVOICE " + inv.CreditFor
	case inv.Status == entity.InvoiceCredited:
		msg = "THIS INVOICE HAS BEEN CREDITED"
	default:
		return nil
	}
	return row.New(9).Add(col.New(12).Add(
		text.New(msg, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorAlert, Top: 2}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 4, align.Left),
		h("Detail", 4, align.Left),
		h("VAT%", 1, align.Center),
		h("Amount", 3, align.Right),
	)
}

func itemRows(items []entity.InvoiceItem, currency string) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		out = append(out, row.New(7).Add(
			col.New(4).Add(text.New(it.Label, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(it.Detail, props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(it.VATRate.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(calc.FormatMoney(currency, it.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

// totalsRows: una línea por tasa de IVA y el total con IVA incluido.
func totalsRows(inv entity.Invoice, currency string) []core.Row {
	var out []core.Row
	net := decimal.Zero
	for _, l := range calc.VATBreakdown(inv.Items) {
		net = net.Add(l.Net)
		out = append(out, row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(fmt.Sprintf("VAT %s%% on %s", l.Rate.String(), calc.FormatMoney(currency, l.Net)),
				props.Text{Size: 8, Align: align.Right, Right: 2, Color: colorGray})),
			col.New(3).Add(text.New(calc.FormatMoney(currency, l.VAT), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	out = append(out,
		row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New("Net total:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})),
			col.New(3).Add(text.New(calc.FormatMoney(currency, net), props.Text{Size: 9, Align: align.Right, Right: 1})),
		),
		row.New(7).Add(
			col.New(6),
			col.New(3).Add(text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Color: colorPrimary})),
			col.New(3).Add(text.New(calc.FormatMoney(currency, inv.Amount), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Color: colorPrimary})),
		),
	)
	return out
}

func paymentRows(payments []entity.Payment, currency string) []core.Row {
	out := []core.Row{row.New(6).Add(col.New(12).Add(
		text.New("PAYMENTS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))}
	for _, p := range payments {
		out = append(out, row.New(5).Add(
			col.New(4).Add(text.New(p.Date.Format("2006-01-02"), props.Text{Size: 8, Left: 1})),
			col.New(5).Add(text.New(p.Method, props.Text{Size: 8})),
			col.New(3).Add(text.New(calc.FormatMoney(currency, p.Amount), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
