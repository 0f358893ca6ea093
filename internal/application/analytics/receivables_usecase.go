// Package analytics contiene los reportes de solo lectura sobre el estado de cobro de las reservas.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/frontdesk-api/internal/application/dto"
	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// ReceivablesUseCase lista las reservas con dinero pendiente.
//
// Fuente de datos: ReservationStore (copias). No muta nada; todos los importes salen del
// calculador de facturación, igual que el aviso de salida.
type ReceivablesUseCase struct {
	store    ports.ReservationStore
	currency string
}

// NewReceivablesUseCase construye el caso de uso.
func NewReceivablesUseCase(store ports.ReservationStore, currency string) *ReceivablesUseCase {
	return &ReceivablesUseCase{store: store, currency: currency}
}

// List devuelve las reservas con importe sin facturar, importe sin cobrar o pagos sin vincular,
// ordenadas por fecha de salida (las más antiguas primero).
func (uc *ReceivablesUseCase) List(ctx context.Context, in dto.ReceivablesRequest) (*dto.ReceivablesReportDTO, error) {
	in.DefaultPage()

	all, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("receivables: listar reservas: %w", err)
	}

	// ── Filtrar y calcular ─────────────────────────────────────────────────────
	items := make([]dto.ReceivableDTO, 0)
	totalOutstanding := decimal.Zero
	totalUninvoiced := decimal.Zero
	for _, r := range all {
		if in.Status != "" && string(r.Status) != in.Status {
			continue
		}
		s := calc.Summarize(r, uc.currency)
		if s.CheckoutWarning == "" {
			continue
		}
		totalOutstanding = totalOutstanding.Add(s.Outstanding)
		totalUninvoiced = totalUninvoiced.Add(s.Uninvoiced)
		items = append(items, dto.ReceivableDTO{
			ReservationID:    r.ID,
			BookingRef:       r.BookingRef,
			BookerName:       r.Booker.Name,
			Status:           string(r.Status),
			CheckOut:         lastCheckOut(r),
			Total:            s.Total,
			Paid:             s.Paid,
			Outstanding:      s.Outstanding,
			Uninvoiced:       s.Uninvoiced,
			UnlinkedPayments: s.UnlinkedPayments,
			Warning:          s.CheckoutWarning,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].CheckOut, items[j].CheckOut
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})

	// ── Paginar ────────────────────────────────────────────────────────────────
	total := len(items)
	start := min(in.Offset, total)
	end := min(start+in.Limit, total)

	return &dto.ReceivablesReportDTO{
		Currency:         uc.currency,
		TotalOutstanding: totalOutstanding.Round(2),
		TotalUninvoiced:  totalUninvoiced.Round(2),
		Items:            items[start:end],
		Page:             dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

func lastCheckOut(r *entity.Reservation) *time.Time {
	var last *time.Time
	for i := range r.Rooms {
		co := r.Rooms[i].CheckOut
		if last == nil || co.After(*last) {
			last = &co
		}
	}
	return last
}
