package reservation

import "github.com/jhoicas/frontdesk-api/internal/domain/entity"

// Repair completa campos que faltan en registros antiguos o migrados a medias, en lugar de
// rechazarlos. newID genera identificadores para habitaciones y extras sin clave.
// Devuelve true si modificó algo.
func Repair(r *entity.Reservation, newID func() string) bool {
	changed := false

	if !r.Status.Valid() {
		if derived, ok := DeriveStatus(r); ok && derived.Valid() {
			r.Status = derived
		} else {
			r.Status = entity.StatusConfirmed
		}
		changed = true
	}

	for i := range r.Rooms {
		rs := &r.Rooms[i]
		if rs.ID == "" {
			rs.ID = newID()
			changed = true
		}
		if !rs.Status.Valid() {
			rs.Status = r.Status
			changed = true
		}
		if rs.PricingMode == "" {
			rs.PricingMode = entity.PricingFixed
			if len(rs.NightlyRates) > 0 {
				rs.PricingMode = entity.PricingPerNight
			}
			changed = true
		}
	}

	for i := range r.Extras {
		if r.Extras[i].Key == "" {
			r.Extras[i].Key = newID()
			changed = true
		}
	}

	for i := range r.Payments {
		if !r.Payments[i].Status.Valid() {
			r.Payments[i].Status = entity.PaymentCompleted
			changed = true
		}
	}

	for i := range r.Invoices {
		inv := &r.Invoices[i]
		if inv.Type == "" {
			inv.Type = entity.InvoiceStandard
			changed = true
		}
		if inv.Status == "" {
			inv.Status = entity.InvoiceCreated
			changed = true
		}
		if inv.Amount.IsZero() && len(inv.Items) > 0 {
			if total := entity.ItemsTotal(inv.Items); !total.IsZero() {
				inv.Amount = total
				changed = true
			}
		}
	}
	return changed
}
