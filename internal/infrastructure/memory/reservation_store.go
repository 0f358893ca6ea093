// Package memory contiene el store de reservas en memoria y repositorios basados en mapas
// (modo Persistence=memory y fakes de test).
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
	"github.com/jhoicas/frontdesk-api/internal/domain/reservation"
)

// record una reserva y su lock. El puntero res solo se reemplaza, nunca se muta in situ.
type record struct {
	mu  sync.Mutex
	res *entity.Reservation
}

// ReservationStore mantiene todas las reservas en memoria con un lock por registro.
type ReservationStore struct {
	mu      sync.RWMutex
	records map[string]*record

	repo  repository.ReservationRepository
	clock clockwork.Clock
	log   zerolog.Logger
}

var _ ports.ReservationStore = (*ReservationStore)(nil)

// NewReservationStore crea un store vacío; llamar a Hydrate para cargar lo persistido.
func NewReservationStore(repo repository.ReservationRepository, clock clockwork.Clock, log zerolog.Logger) *ReservationStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ReservationStore{
		records: make(map[string]*record),
		repo:    repo,
		clock:   clock,
		log:     log.With().Str("component", "store").Logger(),
	}
}

// Hydrate carga todos los snapshots del repositorio aplicando las reparaciones de consistencia.
// Los registros reparados se vuelven a persistir.
func (s *ReservationStore) Hydrate(ctx context.Context) ([]*entity.Reservation, error) {
	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargando reservas: %w", err)
	}
	repaired := 0
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range all {
		if r == nil || r.ID == "" {
			continue
		}
		if reservation.Repair(r, uuid.NewString) {
			repaired++
			if err := s.repo.Save(ctx, r); err != nil {
				s.log.Warn().Err(err).Str("reservation_id", r.ID).Msg("no se pudo persistir la reparación")
			}
		}
		s.records[r.ID] = &record{res: r}
	}
	s.log.Info().Int("reservations", len(s.records)).Int("repaired", repaired).Msg("store hidratado")

	out := make([]*entity.Reservation, 0, len(all))
	for _, rec := range s.records {
		out = append(out, rec.res.Clone())
	}
	return out, nil
}

func (s *ReservationStore) lookup(id string) (*record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: reserva %s", domain.ErrNotFound, id)
	}
	return rec, nil
}

// Get devuelve una copia profunda de la reserva.
func (s *ReservationStore) Get(_ context.Context, id string) (*entity.Reservation, error) {
	rec, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.res.Clone(), nil
}

// List devuelve copias de todas las reservas ordenadas por referencia de reserva.
func (s *ReservationStore) List(_ context.Context) ([]*entity.Reservation, error) {
	s.mu.RLock()
	recs := make([]*record, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	out := make([]*entity.Reservation, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		out = append(out, rec.res.Clone())
		rec.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookingRef == out[j].BookingRef {
			return out[i].ID < out[j].ID
		}
		return out[i].BookingRef < out[j].BookingRef
	})
	return out, nil
}

// IDs ids actuales, sin orden garantizado.
func (s *ReservationStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids
}

// Create persiste y luego inserta la reserva.
func (s *ReservationStore) Create(ctx context.Context, r *entity.Reservation) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("%w: reserva sin id", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[r.ID]; ok {
		return fmt.Errorf("%w: reserva %s", domain.ErrDuplicate, r.ID)
	}
	snapshot := r.Clone()
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.log.Error().Err(err).Str("reservation_id", r.ID).Msg("fallo al persistir reserva nueva")
		return fmt.Errorf("%w: %v", domain.ErrCommitFailed, err)
	}
	s.records[r.ID] = &record{res: snapshot}
	return nil
}

// Update aplica fn sobre una copia bajo el lock del registro. Si fn devuelve ports.ErrNoChange
// no se escribe nada. Si la persistencia falla la copia se descarta.
func (s *ReservationStore) Update(ctx context.Context, id string, fn ports.MutateFunc) (*entity.Reservation, error) {
	rec, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	draft := rec.res.Clone()
	repaired := reservation.Repair(draft, uuid.NewString)

	if err := fn(draft); err != nil {
		if !errors.Is(err, ports.ErrNoChange) {
			return nil, err
		}
		if !repaired {
			return rec.res.Clone(), nil
		}
	}

	draft.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Save(ctx, draft); err != nil {
		s.log.Error().Err(err).Str("reservation_id", id).Msg("commit rechazado; mutación descartada")
		return nil, fmt.Errorf("%w: %v", domain.ErrCommitFailed, err)
	}
	rec.res = draft
	return draft.Clone(), nil
}
