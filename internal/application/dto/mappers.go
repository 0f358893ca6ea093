package dto

import (
	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// FromSummary convierte los totales del calculador.
func FromSummary(s calc.Summary, currency string) TotalsResponse {
	return TotalsResponse{
		Currency:         currency,
		RoomTotal:        s.RoomTotal,
		ExtrasTotal:      s.ExtrasTotal,
		Total:            s.Total,
		Paid:             s.Paid,
		Outstanding:      s.Outstanding,
		Invoiced:         s.Invoiced,
		Uninvoiced:       s.Uninvoiced,
		UnlinkedPayments: s.UnlinkedPayments,
		CheckoutWarning:  s.CheckoutWarning,
	}
}

// FromReservation arma la respuesta completa con totales calculados en el momento.
func FromReservation(r *entity.Reservation, currency string) ReservationResponse {
	return ReservationResponse{
		ID:           r.ID,
		BookingRef:   r.BookingRef,
		Booker:       r.Booker,
		Recipient:    r.BillingRecipient(),
		Status:       string(r.Status),
		OptionExpiry: r.OptionExpiry,
		Rooms:        nonNil(r.Rooms),
		Extras:       nonNil(r.Extras),
		Payments:     nonNil(r.Payments),
		Invoices:     nonNil(r.Invoices),
		Reminders:    nonNil(r.Reminders),
		Activity:     nonNil(r.Activity),
		Totals:       FromSummary(calc.Summarize(r, currency), currency),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// FromReservationList arma las filas del listado.
func FromReservationList(list []*entity.Reservation) []ReservationListItem {
	out := make([]ReservationListItem, 0, len(list))
	for _, r := range list {
		item := ReservationListItem{
			ID:          r.ID,
			BookingRef:  r.BookingRef,
			BookerName:  r.Booker.Name,
			Status:      string(r.Status),
			Rooms:       len(r.Rooms),
			Total:       calc.TotalAmount(r),
			Outstanding: calc.OutstandingAmount(r),
		}
		for i := range r.Rooms {
			ci := r.Rooms[i].CheckIn
			if item.FirstCheckIn == nil || ci.Before(*item.FirstCheckIn) {
				item.FirstCheckIn = &ci
			}
		}
		out = append(out, item)
	}
	return out
}

// FromProfiles convierte resultados de búsqueda del directorio.
func FromProfiles(list []*entity.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ProfileResponse{ID: p.ID, Recipient: p.Recipient})
	}
	return out
}

// FromAgent convierte un agente sin exponer el hash.
func FromAgent(a *entity.Agent) AgentResponse {
	return AgentResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
