package billing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// VATLine desglose de IVA para una tasa. Los importes de los ítems incluyen IVA.
type VATLine struct {
	Rate  decimal.Decimal
	Gross decimal.Decimal
	Net   decimal.Decimal
	VAT   decimal.Decimal
}

// NetOf separa el IVA de un importe con IVA incluido, redondeado a céntimos.
func NetOf(gross, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return gross
	}
	return gross.Mul(hundred).Div(hundred.Add(rate)).Round(2)
}

// VATBreakdown agrupa los ítems por tasa, de menor a mayor. La base es la suma de las bases
// de cada ítem, así coincide con las líneas de la exportación UBL. Net + VAT = Gross.
func VATBreakdown(items []entity.InvoiceItem) []VATLine {
	byRate := map[string]*VATLine{}
	for _, it := range items {
		k := it.VATRate.String()
		l, ok := byRate[k]
		if !ok {
			l = &VATLine{Rate: it.VATRate, Gross: decimal.Zero, Net: decimal.Zero}
			byRate[k] = l
		}
		l.Gross = l.Gross.Add(it.Amount)
		l.Net = l.Net.Add(NetOf(it.Amount, it.VATRate))
	}
	out := make([]VATLine, 0, len(byRate))
	for _, l := range byRate {
		l.VAT = l.Gross.Sub(l.Net)
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rate.LessThan(out[j].Rate) })
	return out
}
