package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// Prefijos de las claves estables de ítems facturables.
const (
	roomKeyPrefix  = "room:"
	extraKeyPrefix = "extra:"
)

// RoomKey clave estable del ítem de una habitación.
func RoomKey(roomStayID string) string { return roomKeyPrefix + roomStayID }

// ExtraKey clave estable del ítem de un extra.
func ExtraKey(extraKey string) string { return extraKeyPrefix + extraKey }

// BillableItem proyección calculada (no se almacena): una por habitación y una por extra con
// importe positivo.
type BillableItem struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Detail  string          `json:"detail,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	VATRate decimal.Decimal `json:"vat_rate"`
}

// Snapshot convierte el ítem en el snapshot que guarda la factura.
func (b BillableItem) Snapshot() entity.InvoiceItem {
	return entity.InvoiceItem{Key: b.Key, Label: b.Label, Detail: b.Detail, Amount: b.Amount, VATRate: b.VATRate}
}

// Catalog datos de referencia usados para etiquetar y asignar IVA a las habitaciones.
// Los mapas pueden ser nil: se usan valores por defecto.
type Catalog struct {
	RoomTypes      map[string]entity.RoomType
	RatePlans      map[string]entity.RatePlan
	DefaultRoomVAT decimal.Decimal
}

func (c Catalog) roomLabel(rs entity.RoomStay) string {
	label := "Room " + rs.RoomNumber
	if rt, ok := c.RoomTypes[rs.RoomTypeID]; ok && rt.Name != "" {
		label += " – " + rt.Name
	}
	return label
}

func (c Catalog) roomVAT(rs entity.RoomStay) decimal.Decimal {
	if rt, ok := c.RoomTypes[rs.RoomTypeID]; ok && !rt.VATRate.IsZero() {
		return rt.VATRate
	}
	return c.DefaultRoomVAT
}

func (c Catalog) roomDetail(rs entity.RoomStay) string {
	nights := rs.Nights()
	noun := "nights"
	if nights == 1 {
		noun = "night"
	}
	detail := fmt.Sprintf("%d %s, %s → %s", nights, noun,
		rs.CheckIn.Format("2006-01-02"), rs.CheckOut.Format("2006-01-02"))
	if rp, ok := c.RatePlans[rs.RatePlanID]; ok && rp.Name != "" {
		detail += " (" + rp.Name + ")"
	}
	return detail
}

// BillableItems calcula los ítems facturables de la reserva, en orden: habitaciones y luego extras.
func BillableItems(r *entity.Reservation, c Catalog) []BillableItem {
	items := make([]BillableItem, 0, len(r.Rooms)+len(r.Extras))
	for _, rs := range r.Rooms {
		items = append(items, BillableItem{
			Key:     RoomKey(rs.ID),
			Label:   c.roomLabel(rs),
			Detail:  c.roomDetail(rs),
			Amount:  RoomStayTotal(rs),
			VATRate: c.roomVAT(rs),
		})
	}
	for _, e := range r.Extras {
		amount := e.Amount()
		if !amount.IsPositive() {
			continue
		}
		items = append(items, BillableItem{
			Key:     ExtraKey(e.Key),
			Label:   e.Name,
			Detail:  fmt.Sprintf("%s × %s", e.Quantity.String(), e.UnitPrice.StringFixed(2)),
			Amount:  amount,
			VATRate: e.VATRate,
		})
	}
	return items
}

// CoveredKeys devuelve clave → número de la factura que la cubre.
func CoveredKeys(r *entity.Reservation) map[string]string {
	covered := make(map[string]string)
	for _, inv := range r.Invoices {
		if !inv.Covers() {
			continue
		}
		for _, it := range inv.Items {
			covered[it.Key] = inv.Number
		}
	}
	return covered
}

// Uninvoiced ítems facturables que ninguna factura activa cubre.
func Uninvoiced(r *entity.Reservation, c Catalog) []BillableItem {
	covered := CoveredKeys(r)
	all := BillableItems(r, c)
	out := make([]BillableItem, 0, len(all))
	for _, it := range all {
		if _, ok := covered[it.Key]; !ok {
			out = append(out, it)
		}
	}
	return out
}
