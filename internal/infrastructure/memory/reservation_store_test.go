package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/memory"
)

func newStore(t *testing.T) (*memory.ReservationStore, *memory.ReservationRepo) {
	t.Helper()
	repo := memory.NewReservationRepo()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	return memory.NewReservationStore(repo, clock, zerolog.Nop()), repo
}

func sample(id string) *entity.Reservation {
	return &entity.Reservation{
		ID:         id,
		BookingRef: "BK-" + id,
		Status:     entity.StatusConfirmed,
		Rooms:      []entity.RoomStay{{ID: "rs-1", RoomNumber: "101", Status: entity.StatusConfirmed, PricingMode: entity.PricingFixed}},
	}
}

func TestStore_UpdateConfirmaYDevuelveCopia(t *testing.T) {
	ctx := context.Background()
	s, repo := newStore(t)
	require.NoError(t, s.Create(ctx, sample("a")))

	got, err := s.Update(ctx, "a", func(r *entity.Reservation) error {
		r.Status = entity.StatusCheckedIn
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCheckedIn, got.Status)

	// Mutar la copia devuelta no afecta al store.
	got.Status = entity.StatusCancelled
	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCheckedIn, again.Status)
	assert.Equal(t, entity.StatusCheckedIn, repo.Snapshot("a").Status, "persistido")
}

func TestStore_ErrNoChangeNoPersiste(t *testing.T) {
	ctx := context.Background()
	s, repo := newStore(t)
	require.NoError(t, s.Create(ctx, sample("a")))

	saves := 0
	repo.FailSave = func(*entity.Reservation) error { saves++; return nil }

	_, err := s.Update(ctx, "a", func(r *entity.Reservation) error { return ports.ErrNoChange })
	require.NoError(t, err)
	assert.Zero(t, saves)
}

func TestStore_FalloDePersistenciaDescartaLaMutacion(t *testing.T) {
	ctx := context.Background()
	s, repo := newStore(t)
	require.NoError(t, s.Create(ctx, sample("a")))

	repo.FailSave = func(*entity.Reservation) error { return errors.New("disco lleno") }
	_, err := s.Update(ctx, "a", func(r *entity.Reservation) error {
		r.Status = entity.StatusCancelled
		r.Log(time.Now(), "agent-1", "cancelada")
		return nil
	})
	require.ErrorIs(t, err, domain.ErrCommitFailed)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, got.Status, "rollback: estado anterior")
	assert.Empty(t, got.Activity)
}

func TestStore_ErrorDeValidacionNoPersiste(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Create(ctx, sample("a")))

	_, err := s.Update(ctx, "a", func(r *entity.Reservation) error {
		r.Status = entity.StatusCancelled
		return domain.ErrInvalidAmount
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	got, _ := s.Get(ctx, "a")
	assert.Equal(t, entity.StatusConfirmed, got.Status)
}

func TestStore_UpdateConcurrenteSerializaPorReserva(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Create(ctx, sample("a")))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "a", func(r *entity.Reservation) error {
				r.Log(time.Now(), "agent", "edit")
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, got.Activity, n, "ninguna escritura perdida")
}

func TestStore_CreateDuplicadoYNoEncontrado(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Create(ctx, sample("a")))
	assert.ErrorIs(t, s.Create(ctx, sample("a")), domain.ErrDuplicate)

	_, err := s.Get(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Update(ctx, "zzz", func(*entity.Reservation) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_HydrateReparaRegistrosAntiguos(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewReservationRepo()
	legacy := &entity.Reservation{
		ID:       "old",
		Status:   entity.StatusOption,
		Rooms:    []entity.RoomStay{{RoomNumber: "7"}},
		Payments: []entity.Payment{{ID: "p"}},
	}
	require.NoError(t, repo.Save(ctx, legacy))

	s := memory.NewReservationStore(repo, clockwork.NewFakeClock(), zerolog.Nop())
	loaded, err := s.Hydrate(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got, err := s.Get(ctx, "old")
	require.NoError(t, err)
	assert.NotEmpty(t, got.Rooms[0].ID)
	assert.Equal(t, entity.StatusOption, got.Rooms[0].Status)
	assert.Equal(t, entity.PaymentCompleted, got.Payments[0].Status)
	assert.NotEmpty(t, repo.Snapshot("old").Rooms[0].ID, "la reparación se persiste")
}

func TestStore_ListOrdenadoPorReferencia(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Create(ctx, sample("b")))
	require.NoError(t, s.Create(ctx, sample("a")))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "BK-a", list[0].BookingRef)
	assert.ElementsMatch(t, []string{"a", "b"}, s.IDs())
}
