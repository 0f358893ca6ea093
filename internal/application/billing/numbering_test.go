package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/memory"
)

var (
	day2026 = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	day2027 = time.Date(2027, 1, 2, 10, 0, 0, 0, time.UTC)
)

func sequences() []entity.NumberingSequence {
	return []entity.NumberingSequence{
		{Kind: entity.SequenceInvoice, Prefix: "INV", Separator: "-", Padding: 4, IncludeYear: true, YearlyReset: true, Next: 1},
		{Kind: entity.SequenceProforma, Prefix: "PF", Separator: "-", Padding: 3, Next: 1},
		{Kind: entity.SequenceBooking, Prefix: "BK", Separator: "", Padding: 5, Next: 1},
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		name string
		seq  entity.NumberingSequence
		n    int64
		want string
	}{
		{"completo", entity.NumberingSequence{Prefix: "INV", Separator: "-", Padding: 4, IncludeYear: true}, 7, "INV-2026-0007"},
		{"sin año", entity.NumberingSequence{Prefix: "PF", Separator: "/", Padding: 3}, 12, "PF/012"},
		{"sin prefijo", entity.NumberingSequence{Separator: "-", IncludeYear: true}, 3, "2026-3"},
		{"desborda relleno", entity.NumberingSequence{Prefix: "A", Padding: 2}, 123, "A123"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, billing.FormatNumber(c.seq, c.n, 2026))
		})
	}
}

func TestLease_CommitPersisteYRollbackNoConsume(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNumberingRepo()
	svc := billing.NewNumberingService(repo, sequences(), zerolog.Nop())

	lease, err := svc.Begin(ctx, entity.SequenceInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", lease.Next(day2026).Number)
	lease.Rollback()

	lease, err = svc.Begin(ctx, entity.SequenceInvoice)
	require.NoError(t, err)
	first := lease.Next(day2026)
	second := lease.Next(day2026)
	require.NoError(t, lease.Commit(ctx, day2026))
	assert.Equal(t, "INV-2026-0001", first.Number, "el rollback no dejó hueco")
	assert.Equal(t, "INV-2026-0002", second.Number)

	stored, err := repo.Get(ctx, entity.SequenceInvoice)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.EqualValues(t, 3, stored.Next)
	assert.Equal(t, 2026, stored.LastYear)
}

func TestLease_ResetAnual(t *testing.T) {
	ctx := context.Background()
	svc := billing.NewNumberingService(memory.NewNumberingRepo(), sequences(), zerolog.Nop())

	lease, _ := svc.Begin(ctx, entity.SequenceInvoice)
	lease.Next(day2026)
	lease.Next(day2026)
	require.NoError(t, lease.Commit(ctx, day2026))

	lease, _ = svc.Begin(ctx, entity.SequenceInvoice)
	got := lease.Next(day2027)
	require.NoError(t, lease.Commit(ctx, day2027))
	assert.Equal(t, "INV-2027-0001", got.Number)

	// La secuencia de proformas no reinicia.
	lease, _ = svc.Begin(ctx, entity.SequenceProforma)
	lease.Next(day2026)
	require.NoError(t, lease.Commit(ctx, day2026))
	lease, _ = svc.Begin(ctx, entity.SequenceProforma)
	assert.Equal(t, "PF-002", lease.Next(day2027).Number)
	lease.Rollback()
}

func TestLease_FalloAlPersistirNoReemiteNumeros(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNumberingRepo()
	svc := billing.NewNumberingService(repo, sequences(), zerolog.Nop())

	repo.FailSave = func(*entity.NumberingSequence) error { return errors.New("db caída") }
	lease, _ := svc.Begin(ctx, entity.SequenceInvoice)
	lease.Next(day2026)
	assert.Error(t, lease.Commit(ctx, day2026))

	repo.FailSave = nil
	lease, _ = svc.Begin(ctx, entity.SequenceInvoice)
	assert.Equal(t, "INV-2026-0002", lease.Next(day2026).Number, "el contador en memoria es autoritativo")
	lease.Rollback()
}

func TestReconcile_ElevaContadorAtrasado(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNumberingRepo()
	require.NoError(t, repo.Save(ctx, &entity.NumberingSequence{
		Kind: entity.SequenceInvoice, Prefix: "INV", Separator: "-", Padding: 4, IncludeYear: true, YearlyReset: true,
		Next: 3, LastYear: 2026,
	}))
	svc := billing.NewNumberingService(repo, sequences(), zerolog.Nop())

	issued := []*entity.Reservation{{
		ID: "r",
		Invoices: []entity.Invoice{
			{Type: entity.InvoiceStandard, Sequence: 5, SequenceYear: 2026},
			{Type: entity.InvoiceCredit, Sequence: 7, SequenceYear: 2026},
			{Type: entity.InvoiceStandard, Sequence: 40, SequenceYear: 2025},
			{Type: entity.InvoiceProforma, Sequence: 9, SequenceYear: 2026},
		},
	}}
	require.NoError(t, svc.ReconcileFromReservations(ctx, issued))

	next, err := svc.Preview(ctx, entity.SequenceInvoice, day2026)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0008", next)

	pf, err := svc.Preview(ctx, entity.SequenceProforma, day2026)
	require.NoError(t, err)
	assert.Equal(t, "PF-010", pf)
}

func TestReconcile_NoRetrocede(t *testing.T) {
	ctx := context.Background()
	svc := billing.NewNumberingService(memory.NewNumberingRepo(), sequences(), zerolog.Nop())
	lease, _ := svc.Begin(ctx, entity.SequenceProforma)
	for i := 0; i < 5; i++ {
		lease.Next(day2026)
	}
	require.NoError(t, lease.Commit(ctx, day2026))

	require.NoError(t, svc.Reconcile(ctx, entity.SequenceProforma, 2026, 2))
	next, _ := svc.Preview(ctx, entity.SequenceProforma, day2026)
	assert.Equal(t, "PF-006", next)
}
