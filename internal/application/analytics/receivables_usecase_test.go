package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/frontdesk-api/internal/application/analytics"
	"github.com/jhoicas/frontdesk-api/internal/application/dto"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/memory"
)

var base = time.Date(2026, 10, 1, 15, 0, 0, 0, time.UTC)

func res(id, ref string, price string, checkOutDay int, payments ...entity.Payment) *entity.Reservation {
	return &entity.Reservation{
		ID:         id,
		BookingRef: ref,
		Booker:     entity.Contact{Name: "Guest " + ref},
		Status:     entity.StatusCheckedOut,
		Rooms: []entity.RoomStay{{
			ID: id + "-r", RoomNumber: "101", Status: entity.StatusCheckedOut,
			CheckIn: base, CheckOut: base.AddDate(0, 0, checkOutDay),
			PricingMode: entity.PricingFixed, FixedPrice: decimal.RequireFromString(price),
		}},
		Payments: payments,
	}
}

func settled(id, ref string) *entity.Reservation {
	r := res(id, ref, "100", 2, entity.Payment{ID: "p", Amount: decimal.NewFromInt(100), Status: entity.PaymentCompleted, LinkedInvoice: "INV-9"})
	r.Invoices = []entity.Invoice{{
		ID: "i", Number: "INV-9", Type: entity.InvoiceStandard, Status: entity.InvoiceCreated,
		Items:  []entity.InvoiceItem{{Key: "room:" + id + "-r", Amount: decimal.NewFromInt(100)}},
		Amount: decimal.NewFromInt(100), LinkedPayments: []string{"p"},
	}}
	return r
}

func newReport(t *testing.T, list ...*entity.Reservation) *analytics.ReceivablesUseCase {
	t.Helper()
	store := memory.NewReservationStore(memory.NewReservationRepo(), clockwork.NewFakeClockAt(base), zerolog.Nop())
	for _, r := range list {
		require.NoError(t, store.Create(context.Background(), r))
	}
	return analytics.NewReceivablesUseCase(store, "EUR")
}

func TestReceivables_SoloReservasConDineroPendiente(t *testing.T) {
	uc := newReport(t,
		res("a", "BK-1", "300", 5),
		settled("b", "BK-2"),
		res("c", "BK-3", "200", 3, entity.Payment{ID: "p", Amount: decimal.NewFromInt(50), Status: entity.PaymentCompleted}),
	)

	out, err := uc.List(context.Background(), dto.ReceivablesRequest{})
	require.NoError(t, err)

	require.Len(t, out.Items, 2)
	assert.Equal(t, "BK-3", out.Items[0].BookingRef, "salida más antigua primero")
	assert.Equal(t, "BK-1", out.Items[1].BookingRef)
	assert.Equal(t, "EUR 200.00 uninvoiced · EUR 150.00 unpaid · 1 unlinked payment", out.Items[0].Warning)
	assert.True(t, decimal.NewFromInt(450).Equal(out.TotalOutstanding))
	assert.True(t, decimal.NewFromInt(500).Equal(out.TotalUninvoiced))
	assert.Equal(t, 2, out.Page.Total)
}

func TestReceivables_FiltroYPaginacion(t *testing.T) {
	a := res("a", "BK-1", "300", 5)
	a.Status = entity.StatusCheckedIn
	a.Rooms[0].Status = entity.StatusCheckedIn
	uc := newReport(t, a, res("b", "BK-2", "100", 1), res("c", "BK-3", "100", 2))

	out, err := uc.List(context.Background(), dto.ReceivablesRequest{Status: "checked-out", PageRequest: dto.PageRequest{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "BK-3", out.Items[0].BookingRef)

	out, err = uc.List(context.Background(), dto.ReceivablesRequest{PageRequest: dto.PageRequest{Offset: 10}})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}
