package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	ctx      context.Context
	repo     *memory.ReservationRepo
	numRepo  *memory.NumberingRepo
	store    *memory.ReservationStore
	clock    *clockwork.FakeClock
	invoices *billing.InvoiceUseCase
	payments *billing.PaymentUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(day2026)
	repo := memory.NewReservationRepo()
	numRepo := memory.NewNumberingRepo()
	store := memory.NewReservationStore(repo, clock, zerolog.Nop())
	numbering := billing.NewNumberingService(numRepo, sequences(), zerolog.Nop())
	resolver := billing.NewCatalogResolver(memory.NewCatalogRepo(), decimal.NewFromInt(6))
	return &fixture{
		ctx:      context.Background(),
		repo:     repo,
		numRepo:  numRepo,
		store:    store,
		clock:    clock,
		invoices: billing.NewInvoiceUseCase(store, numbering, resolver, clock, "EUR", zerolog.Nop()),
		payments: billing.NewPaymentUseCase(store, clock, "EUR"),
	}
}

// seed crea una reserva con una habitación a precio fijo y extras opcionales.
func (f *fixture) seed(t *testing.T, price string, extras ...entity.ExtraLine) *entity.Reservation {
	t.Helper()
	r := &entity.Reservation{
		ID:         "res-1",
		BookingRef: "BK00001",
		Booker:     entity.Contact{Name: "Ana Peeters", Email: "ana@example.com"},
		Status:     entity.StatusConfirmed,
		Rooms: []entity.RoomStay{{
			ID: "rs-1", RoomNumber: "101", Status: entity.StatusConfirmed,
			CheckIn: day2026, CheckOut: day2026.AddDate(0, 0, 3),
			PricingMode: entity.PricingFixed, FixedPrice: decimal.RequireFromString(price),
		}},
		Extras: extras,
	}
	require.NoError(t, f.store.Create(f.ctx, r))
	return r
}

func (f *fixture) get(t *testing.T) *entity.Reservation {
	t.Helper()
	r, err := f.store.Get(f.ctx, "res-1")
	require.NoError(t, err)
	return r
}

func (f *fixture) completedPayment(t *testing.T, amount string) *entity.Payment {
	t.Helper()
	p, err := f.payments.RecordPayment(f.ctx, "agent", "res-1", billing.RecordPaymentInput{
		Amount: decimal.RequireFromString(amount), Method: "card",
	})
	require.NoError(t, err)
	return p
}

// assertInvariants comprueba partición, conservación y exclusividad de vínculos.
func assertInvariants(t *testing.T, r *entity.Reservation) {
	t.Helper()
	cat := calc.Catalog{DefaultRoomVAT: decimal.NewFromInt(6)}

	// Partición: cada clave cubierta por como mucho una factura activa.
	seen := map[string]string{}
	for _, inv := range r.Invoices {
		if !inv.Covers() {
			continue
		}
		for _, it := range inv.Items {
			prev, dup := seen[it.Key]
			assert.False(t, dup, "clave %s cubierta por %s y %s", it.Key, prev, inv.Number)
			seen[it.Key] = inv.Number
		}
	}
	for _, it := range calc.Uninvoiced(r, cat) {
		_, covered := seen[it.Key]
		assert.False(t, covered)
	}

	// Conservación: facturado activo + sin facturar = total.
	sum := calc.InvoicedAmount(r).Add(calc.UninvoicedAmount(r))
	assert.True(t, calc.TotalAmount(r).Equal(sum), "facturado + sin facturar = total (%s vs %s)", sum, calc.TotalAmount(r))

	// Exclusividad: ningún pago en dos facturas, y ambos lados coinciden.
	owners := map[string]string{}
	for _, inv := range r.Invoices {
		for _, pid := range inv.LinkedPayments {
			prev, dup := owners[pid]
			assert.False(t, dup, "pago %s en %s y %s", pid, prev, inv.Number)
			owners[pid] = inv.Number
		}
	}
	for _, p := range r.Payments {
		assert.Equal(t, owners[p.ID], p.LinkedInvoice, "vínculo del pago %s", p.ID)
	}
}

func roomKeys() []string { return []string{"room:rs-1"} }

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

// Escenario B: facturar los 300 y luego facturación rápida de un pago posterior.
func TestEscenarioB_FacturaYQuickInvoiceVinculaPago(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")

	inv, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys()})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", inv.Number)
	assert.True(t, decimal.NewFromInt(300).Equal(inv.Amount))
	assert.Equal(t, "Ana Peeters", inv.Recipient.Name, "por defecto se factura al booker")

	uninvoiced, err := f.invoices.ComputeUninvoiced(f.ctx, "res-1")
	require.NoError(t, err)
	assert.Empty(t, uninvoiced)

	p := f.completedPayment(t, "300")
	quick, created, err := f.invoices.QuickInvoice(f.ctx, "agent", "res-1")
	require.NoError(t, err)
	assert.False(t, created, "no hay ítems nuevos: se reutiliza la factura vigente")
	assert.Equal(t, inv.Number, quick.Number)

	r := f.get(t)
	assert.Equal(t, inv.Number, r.Payments[0].LinkedInvoice)
	assert.Equal(t, []string{p.ID}, r.Invoices[0].LinkedPayments)
	assert.Empty(t, calc.CheckoutWarning(r, "EUR"))
	assertInvariants(t, r)
}

// Escenario C: abonar la factura libera ítems y pagos.
func TestEscenarioC_AbonoLiberaItemsYPagos(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")
	p := f.completedPayment(t, "300")
	inv, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{
		Keys: roomKeys(), LinkPaymentIDs: []string{p.ID},
	})
	require.NoError(t, err)

	note, err := f.invoices.CreditInvoice(f.ctx, "manager", "res-1", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceCredit, note.Type)
	assert.Equal(t, inv.Number, note.CreditFor)
	assert.True(t, decimal.NewFromInt(300).Equal(note.Amount))
	assert.Equal(t, "INV-2026-0002", note.Number, "facturas y notas comparten contador")

	r := f.get(t)
	assert.Equal(t, entity.InvoiceCredited, r.Invoices[0].Status)
	assert.Empty(t, r.Invoices[0].LinkedPayments)
	assert.Empty(t, r.Payments[0].LinkedInvoice)
	uninvoiced, _ := f.invoices.ComputeUninvoiced(f.ctx, "res-1")
	require.Len(t, uninvoiced, 1)
	assert.Equal(t, "room:rs-1", uninvoiced[0].Key)
	assert.True(t, decimal.NewFromInt(300).Equal(calc.TotalAmount(r)), "el abono no cambia el total")
	assertInvariants(t, r)

	_, err = f.invoices.CreditInvoice(f.ctx, "manager", "res-1", inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvoiceCredited)
	_, err = f.invoices.CreditInvoice(f.ctx, "manager", "res-1", note.ID)
	assert.ErrorIs(t, err, domain.ErrCreditNoteImmutable)
}

// Escenario D: enmendar a un nuevo destinatario empresa conserva el vínculo del pago.
func TestEscenarioD_EnmiendaReemiteYRevincula(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")
	p := f.completedPayment(t, "300")
	inv, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{
		Keys: roomKeys(), LinkPaymentIDs: []string{p.ID},
	})
	require.NoError(t, err)

	acme := &entity.Recipient{Kind: entity.RecipientCompany, Company: "Acme NV", VATNumber: "BE0123456789", PeppolID: "0208:0123456789"}
	res, err := f.invoices.AmendInvoice(f.ctx, "manager", "res-1", inv.ID, acme)
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceCredited, res.Credited.Status)
	assert.Equal(t, entity.InvoiceCredit, res.CreditNote.Type)
	assert.Equal(t, entity.InvoiceStandard, res.Replacement.Type)
	assert.Equal(t, "Acme NV", res.Replacement.Recipient.DisplayName())
	assert.Equal(t, inv.Number, res.Replacement.AmendsInvoice)
	assert.True(t, decimal.NewFromInt(300).Equal(res.Replacement.Amount))
	assert.Equal(t, []string{p.ID}, res.Replacement.LinkedPayments)
	assert.Equal(t, "INV-2026-0002", res.CreditNote.Number)
	assert.Equal(t, "INV-2026-0003", res.Replacement.Number)

	r := f.get(t)
	assert.Equal(t, res.Replacement.Number, r.Payments[0].LinkedInvoice)
	assert.Equal(t, "Ana Peeters", r.Invoices[0].Recipient.Name, "el snapshot original no cambia")
	assertInvariants(t, r)

	_, err = f.invoices.AmendInvoice(f.ctx, "manager", "res-1", inv.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvoiceCredited)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones de CreateInvoice
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateInvoice_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")

	_, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{})
	assert.ErrorIs(t, err, domain.ErrEmptySelection)

	_, err = f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: []string{"extra:nope"}})
	assert.ErrorIs(t, err, domain.ErrItemsNotUninvoiced)

	_, err = f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys(), Type: entity.InvoiceCredit})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys()})
	require.NoError(t, err)
	_, err = f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys()})
	assert.ErrorIs(t, err, domain.ErrItemsNotUninvoiced, "un ítem no se factura dos veces")

	r := f.get(t)
	assert.Len(t, r.Invoices, 1, "los rechazos no modifican el store")
}

// Si el contador no se persiste la factura queda emitida y el siguiente número no se repite.
func TestCreateInvoice_FalloAlGuardarContadorNoAnulaLaFactura(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300", entity.ExtraLine{Key: "bf", Name: "Breakfast", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(20)})
	f.numRepo.FailSave = func(*entity.NumberingSequence) error { return errors.New("db caída") }

	inv, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys()})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", inv.Number)

	f.numRepo.FailSave = nil
	next, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: []string{"extra:bf"}})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0002", next.Number)
	assertInvariants(t, f.get(t))
}

func TestDestinatarioInvalidoSeRechazaAlEmitirYEnmendar(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")

	_, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{
		Keys: roomKeys(), Recipient: &entity.Recipient{Kind: "bogus", Name: "X"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{
		Keys: roomKeys(), Recipient: &entity.Recipient{Kind: entity.RecipientCompany},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.get(t).Invoices)

	inv, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys()})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", inv.Number, "los rechazos no consumen número")

	_, err = f.invoices.AmendInvoice(f.ctx, "manager", "res-1", inv.ID, &entity.Recipient{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	r := f.get(t)
	require.Len(t, r.Invoices, 1)
	assert.Equal(t, entity.InvoiceCreated, r.Invoices[0].Status, "la factura sigue vigente")
	assertInvariants(t, r)
}

func TestCreateInvoice_PagoPendienteNoSeVinculaYNoConsumeNumero(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")
	p, err := f.payments.RecordPayment(f.ctx, "agent", "res-1", billing.RecordPaymentInput{
		Amount: decimal.NewFromInt(300), Status: entity.PaymentPending,
	})
	require.NoError(t, err)

	_, err = f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{
		Keys: roomKeys(), LinkPaymentIDs: []string{p.ID},
	})
	assert.ErrorIs(t, err, domain.ErrPaymentState)

	inv, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys()})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", inv.Number, "el intento fallido no dejó hueco")
}

func TestCreateInvoice_FalloDeCommitNoConsumeNumero(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")

	f.repo.FailSave = func(*entity.Reservation) error { return errors.New("timeout") }
	_, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys()})
	require.ErrorIs(t, err, domain.ErrCommitFailed)
	assert.Empty(t, f.get(t).Invoices)

	f.repo.FailSave = nil
	inv, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys()})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", inv.Number)
}

func TestQuickInvoice_FacturaTodoYVinculaPagos(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300", entity.ExtraLine{Key: "bf", Name: "Breakfast", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(15)})
	p1 := f.completedPayment(t, "100")
	p2 := f.completedPayment(t, "245")

	inv, created, err := f.invoices.QuickInvoice(f.ctx, "agent", "res-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, inv.Items, 2)
	assert.True(t, decimal.NewFromInt(345).Equal(inv.Amount))
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, inv.LinkedPayments)

	_, _, err = f.invoices.QuickInvoice(f.ctx, "agent", "res-1")
	assert.ErrorIs(t, err, domain.ErrEmptySelection, "nada pendiente")
	assertInvariants(t, f.get(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Proformas
// ──────────────────────────────────────────────────────────────────────────────

func TestProforma_NoCubreYUsaSuPropioContador(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")

	pf, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys(), Type: entity.InvoiceProforma})
	require.NoError(t, err)
	assert.Equal(t, "PF-001", pf.Number)

	uninvoiced, _ := f.invoices.ComputeUninvoiced(f.ctx, "res-1")
	assert.Len(t, uninvoiced, 1, "una proforma no cubre ítems")

	_, err = f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{
		Keys: roomKeys(), Type: entity.InvoiceProforma, LinkPaymentIDs: []string{"x"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.invoices.AmendInvoice(f.ctx, "manager", "res-1", pf.ID, nil)
	assert.ErrorIs(t, err, domain.ErrProformaNotAmenable)
}

func TestFinalizeProforma_EmiteFacturaEstandar(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")
	pf, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys(), Type: entity.InvoiceProforma})
	require.NoError(t, err)

	inv, err := f.invoices.FinalizeProforma(f.ctx, "agent", "res-1", pf.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStandard, inv.Type)
	assert.Equal(t, pf.Number, inv.FromProforma)
	assert.Equal(t, "INV-2026-0001", inv.Number)

	r := f.get(t)
	assert.Equal(t, entity.InvoiceFinalized, r.Invoices[0].Status)
	assertInvariants(t, r)

	_, err = f.invoices.FinalizeProforma(f.ctx, "agent", "res-1", pf.ID)
	assert.ErrorIs(t, err, domain.ErrProformaState)
	assert.ErrorIs(t, f.invoices.DeleteProforma(f.ctx, "manager", "res-1", pf.ID), domain.ErrProformaState)
	_, err = f.invoices.FinalizeProforma(f.ctx, "agent", "res-1", inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotProforma)
}

func TestFinalizeProforma_ItemsYaFacturados(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")
	pf, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys(), Type: entity.InvoiceProforma})
	require.NoError(t, err)
	_, err = f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys()})
	require.NoError(t, err)

	_, err = f.invoices.FinalizeProforma(f.ctx, "agent", "res-1", pf.ID)
	assert.ErrorIs(t, err, domain.ErrItemsNotUninvoiced)
}

func TestDeleteProforma(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300")
	pf, err := f.invoices.CreateInvoice(f.ctx, "agent", "res-1", billing.CreateInvoiceInput{Keys: roomKeys(), Type: entity.InvoiceProforma})
	require.NoError(t, err)

	require.NoError(t, f.invoices.DeleteProforma(f.ctx, "manager", "res-1", pf.ID))
	assert.Empty(t, f.get(t).Invoices)
	assert.ErrorIs(t, f.invoices.DeleteProforma(f.ctx, "manager", "res-1", pf.ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestNumeracion_MonotonaYSinColisionConProformas(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "300", entity.ExtraLine{Key: "bf", Name: "Breakfast", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(20)})

	var numbers []string
	inv, err := f.invoices.CreateInvoice(f.ctx, "a", "res-1", billing.CreateInvoiceInput{Keys: roomKeys()})
	require.NoError(t, err)
	numbers = append(numbers, inv.Number)

	_, err = f.invoices.CreateInvoice(f.ctx, "a", "res-1", billing.CreateInvoiceInput{Keys: []string{"extra:bf"}, Type: entity.InvoiceProforma})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := f.invoices.AmendInvoice(f.ctx, "m", "res-1", inv.ID, nil)
		require.NoError(t, err)
		numbers = append(numbers, res.CreditNote.Number, res.Replacement.Number)
		inv = &res.Replacement
		f.clock.Advance(time.Minute)
	}

	want := []string{"INV-2026-0001", "INV-2026-0002", "INV-2026-0003", "INV-2026-0004", "INV-2026-0005", "INV-2026-0006", "INV-2026-0007"}
	assert.Equal(t, want, numbers)
	assertInvariants(t, f.get(t))
}
