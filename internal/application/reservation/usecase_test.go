package reservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	"github.com/jhoicas/frontdesk-api/internal/application/reservation"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/memory"
)

var now = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

type fixture struct {
	ctx      context.Context
	clock    *clockwork.FakeClock
	notifier *memory.Notifier
	profiles *memory.ProfileRepo
	uc       *reservation.UseCase
	invoices *billing.InvoiceUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(now)
	store := memory.NewReservationStore(memory.NewReservationRepo(), clock, zerolog.Nop())
	numbering := billing.NewNumberingService(memory.NewNumberingRepo(), []entity.NumberingSequence{
		{Kind: entity.SequenceInvoice, Prefix: "INV", Separator: "-", Padding: 4, Next: 1},
		{Kind: entity.SequenceBooking, Prefix: "BK", Padding: 5, Next: 1},
	}, zerolog.Nop())
	notifier := &memory.Notifier{}
	profiles := memory.NewProfileRepo()
	return &fixture{
		ctx:      context.Background(),
		clock:    clock,
		notifier: notifier,
		profiles: profiles,
		uc:       reservation.NewUseCase(store, numbering, profiles, notifier, clock, "EUR", zerolog.Nop()),
		invoices: billing.NewInvoiceUseCase(store, numbering, billing.NewCatalogResolver(nil, decimal.NewFromInt(6)), clock, "EUR", zerolog.Nop()),
	}
}

func room(number, price string) reservation.RoomInput {
	return reservation.RoomInput{
		RoomNumber: number,
		CheckIn:    now.AddDate(0, 0, 1),
		CheckOut:   now.AddDate(0, 0, 4),
		FixedPrice: decimal.RequireFromString(price),
	}
}

func (f *fixture) create(t *testing.T, rooms ...reservation.RoomInput) *entity.Reservation {
	t.Helper()
	r, err := f.uc.CreateReservation(f.ctx, "agent-1", reservation.CreateInput{
		Booker: entity.Contact{Name: "Ana Peeters", Email: "ana@example.com"},
		Rooms:  rooms,
	})
	require.NoError(t, err)
	return r
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)
	r := f.create(t, room("101", "300"), room("102", "200"))

	assert.Equal(t, "BK00001", r.BookingRef)
	assert.Equal(t, entity.StatusConfirmed, r.Status)
	require.Len(t, r.Rooms, 2)
	assert.NotEqual(t, r.Rooms[0].ID, r.Rooms[1].ID)
	assert.Equal(t, entity.StatusConfirmed, r.Rooms[1].Status)
	require.Len(t, r.Activity, 1)
	assert.Equal(t, "agent-1", r.Activity[0].Actor)
	assert.Contains(t, r.Activity[0].Message, "EUR 500.00")
	assert.Len(t, f.notifier.Kind(ports.NotifyConfirmation), 1)

	second := f.create(t, room("201", "90"))
	assert.Equal(t, "BK00002", second.BookingRef)
}

func TestCreateReservation_ConOpcion(t *testing.T) {
	f := newFixture(t)
	exp := now.Add(48 * time.Hour)
	r, err := f.uc.CreateReservation(f.ctx, "agent-1", reservation.CreateInput{
		Booker:       entity.Contact{Name: "Tour Operator"},
		OptionExpiry: &exp,
		Rooms:        []reservation.RoomInput{room("101", "100")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOption, r.Status)
	assert.Equal(t, entity.StatusOption, r.Rooms[0].Status)
	require.NotNil(t, r.OptionExpiry)
}

func TestCreateReservation_Validaciones(t *testing.T) {
	f := newFixture(t)
	bad := room("101", "100")
	bad.CheckOut = bad.CheckIn

	_, err := f.uc.CreateReservation(f.ctx, "a", reservation.CreateInput{Booker: entity.Contact{Name: "X"}, Rooms: []reservation.RoomInput{bad}})
	assert.ErrorIs(t, err, domain.ErrInvalidDates)

	_, err = f.uc.CreateReservation(f.ctx, "a", reservation.CreateInput{Booker: entity.Contact{Name: "X"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.CreateReservation(f.ctx, "a", reservation.CreateInput{Rooms: []reservation.RoomInput{room("1", "1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Los rechazos no consumen referencias.
	r := f.create(t, room("101", "1"))
	assert.Equal(t, "BK00001", r.BookingRef)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados
// ──────────────────────────────────────────────────────────────────────────────

// Escenario A: checkout con todo pendiente emite el aviso.
func TestSetReservationStatus_EscenarioAAvisoDeCheckout(t *testing.T) {
	f := newFixture(t)
	r := f.create(t, room("101", "300"))

	change, err := f.uc.SetReservationStatus(f.ctx, "agent-1", r.ID, entity.StatusCheckedOut)
	require.NoError(t, err)
	assert.Equal(t, "EUR 300.00 uninvoiced · EUR 300.00 unpaid", change.Warning)
	assert.Equal(t, entity.StatusCheckedOut, change.Reservation.Status, "el aviso no bloquea")
	assert.Equal(t, entity.StatusCheckedOut, change.Reservation.Rooms[0].Status)

	warnings := f.notifier.Kind(ports.NotifyCheckoutWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "EUR 300.00 uninvoiced")
	last := change.Reservation.Activity[len(change.Reservation.Activity)-1]
	assert.Equal(t, "Reservation status: confirmed → checked-out", last.Message)
}

func TestSetReservationStatus_SinCambiosNoRegistraActividad(t *testing.T) {
	f := newFixture(t)
	r := f.create(t, room("101", "300"))
	change, err := f.uc.SetReservationStatus(f.ctx, "agent-1", r.ID, entity.StatusConfirmed)
	require.NoError(t, err)
	assert.Len(t, change.Reservation.Activity, 1)

	_, err = f.uc.SetReservationStatus(f.ctx, "agent-1", r.ID, entity.Status("lost"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetRoomStatus_DerivacionYActividad(t *testing.T) {
	f := newFixture(t)
	r := f.create(t, room("101", "300"), room("102", "200"))

	change, err := f.uc.SetRoomStatus(f.ctx, "agent-1", r.ID, 0, entity.StatusCheckedIn)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, change.Reservation.Status, "[checked-in, confirmed] no deriva")
	last := change.Reservation.Activity[len(change.Reservation.Activity)-1]
	assert.Equal(t, "Room 101 status: confirmed → checked-in", last.Message)

	change, err = f.uc.SetRoomStatus(f.ctx, "agent-1", r.ID, 1, entity.StatusCheckedIn)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCheckedIn, change.Reservation.Status, "[checked-in, checked-in] deriva")
	assert.Empty(t, change.Warning)

	_, err = f.uc.SetRoomStatus(f.ctx, "agent-1", r.ID, 5, entity.StatusCheckedIn)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetRoomStatus_CheckoutFacturadoSinPagar(t *testing.T) {
	f := newFixture(t)
	r := f.create(t, room("101", "300"))
	_, err := f.invoices.CreateInvoice(f.ctx, "agent-1", r.ID, billing.CreateInvoiceInput{Keys: []string{"room:" + r.Rooms[0].ID}})
	require.NoError(t, err)

	change, err := f.uc.SetRoomStatus(f.ctx, "agent-1", r.ID, 0, entity.StatusCheckedOut)
	require.NoError(t, err)
	assert.Equal(t, "EUR 300.00 unpaid", change.Warning)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fechas, extras, destinatario, recordatorios
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateRoomDates(t *testing.T) {
	f := newFixture(t)
	r := f.create(t, reservation.RoomInput{
		RoomNumber: "101", CheckIn: now, CheckOut: now.AddDate(0, 0, 2),
		NightlyRates: []decimal.Decimal{decimal.NewFromInt(80), decimal.NewFromInt(90)},
	})

	_, err := f.uc.UpdateRoomDates(f.ctx, "a", r.ID, 0, now, now)
	assert.ErrorIs(t, err, domain.ErrInvalidDates)

	got, err := f.uc.UpdateRoomDates(f.ctx, "a", r.ID, 0, now, now.AddDate(0, 0, 4))
	require.NoError(t, err)
	require.Len(t, got.Rooms[0].NightlyRates, 4)
	assert.True(t, decimal.NewFromInt(90).Equal(got.Rooms[0].NightlyRates[3]), "se repite la última tarifa")

	got, err = f.uc.UpdateRoomDates(f.ctx, "a", r.ID, 0, now, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, got.Rooms[0].NightlyRates, 1)
}

// Una habitación facturada no cambia de fechas: su importe ya está en la factura.
func TestUpdateRoomDates_HabitacionFacturadaSeRechaza(t *testing.T) {
	f := newFixture(t)
	r := f.create(t, reservation.RoomInput{
		RoomNumber: "101", CheckIn: now, CheckOut: now.AddDate(0, 0, 2),
		NightlyRates: []decimal.Decimal{decimal.NewFromInt(100), decimal.NewFromInt(100)},
	})
	inv, err := f.invoices.CreateInvoice(f.ctx, "a", r.ID, billing.CreateInvoiceInput{Keys: []string{calc.RoomKey(r.Rooms[0].ID)}})
	require.NoError(t, err)

	_, err = f.uc.UpdateRoomDates(f.ctx, "a", r.ID, 0, now, now.AddDate(0, 0, 4))
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.UpdateRoomDates(f.ctx, "a", r.ID, 0, now, now.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.uc.Get(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, got.Rooms[0].NightlyRates, 2)
	assert.True(t, calc.TotalAmount(got).Equal(calc.InvoicedAmount(got).Add(calc.UninvoicedAmount(got))),
		"facturado + sin facturar = total")
	assert.True(t, calc.UninvoicedAmount(got).IsZero())

	// Abonada la factura, la habitación vuelve a moverse.
	_, err = f.invoices.CreditInvoice(f.ctx, "m", r.ID, inv.ID)
	require.NoError(t, err)
	got, err = f.uc.UpdateRoomDates(f.ctx, "a", r.ID, 0, now, now.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(400).Equal(calc.UninvoicedAmount(got)))
}

func TestExtras_NoSeEliminaUnExtraFacturado(t *testing.T) {
	f := newFixture(t)
	r := f.create(t, room("101", "300"))

	_, err := f.uc.AddExtra(f.ctx, "a", r.ID, reservation.ExtraInput{Key: "bf", Name: "Breakfast", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(15)})
	require.NoError(t, err)
	_, err = f.uc.AddExtra(f.ctx, "a", r.ID, reservation.ExtraInput{Key: "bf", Name: "Again", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = f.uc.AddExtra(f.ctx, "a", r.ID, reservation.ExtraInput{Name: "Zero", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.invoices.CreateInvoice(f.ctx, "a", r.ID, billing.CreateInvoiceInput{Keys: []string{"extra:bf"}})
	require.NoError(t, err)
	assert.ErrorIs(t, f.uc.RemoveExtra(f.ctx, "a", r.ID, "bf"), domain.ErrConflict)
	assert.ErrorIs(t, f.uc.RemoveExtra(f.ctx, "a", r.ID, "nope"), domain.ErrNotFound)
}

func TestSetBillingRecipient_SnapshotsIntactosYPerfil(t *testing.T) {
	f := newFixture(t)
	r := f.create(t, room("101", "300"))
	inv, err := f.invoices.CreateInvoice(f.ctx, "a", r.ID, billing.CreateInvoiceInput{Keys: []string{"room:" + r.Rooms[0].ID}})
	require.NoError(t, err)

	acme := entity.Recipient{Kind: entity.RecipientCompany, Company: "Acme NV", VATNumber: "BE0123456789"}
	got, err := f.uc.SetBillingRecipient(f.ctx, "a", r.ID, acme, true)
	require.NoError(t, err)
	assert.Equal(t, "Acme NV", got.BillingRecipient().DisplayName())
	assert.Equal(t, "Ana Peeters", got.Invoices[0].Recipient.Name, "la factura %s conserva su snapshot", inv.Number)

	found, err := f.uc.SearchProfiles(f.ctx, "acme", 5)
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = f.uc.SetBillingRecipient(f.ctx, "a", r.ID, entity.Recipient{Kind: entity.RecipientCompany}, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReminders_Acknowledge(t *testing.T) {
	f := newFixture(t)
	r := f.create(t, room("101", "300"))

	rem, err := f.uc.AddReminder(f.ctx, "a", r.ID, "Call about late arrival", now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, rem.Fired)

	acked, err := f.uc.AcknowledgeReminder(f.ctx, "a", r.ID, rem.ID)
	require.NoError(t, err)
	assert.True(t, acked.Fired)

	_, err = f.uc.AcknowledgeReminder(f.ctx, "a", r.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.AddReminder(f.ctx, "a", r.ID, " ", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
