package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

// ReservationRepo persistencia en proceso: guarda el snapshot serializado (igual que la columna
// jsonb de postgres) para que ninguna referencia quede compartida con el store.
type ReservationRepo struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailSave, si no es nil, se consulta antes de cada Save (inyección de fallos en tests).
	FailSave func(r *entity.Reservation) error
}

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// NewReservationRepo crea un repositorio vacío.
func NewReservationRepo() *ReservationRepo {
	return &ReservationRepo{data: make(map[string][]byte)}
}

func (r *ReservationRepo) Save(_ context.Context, res *entity.Reservation) error {
	if r.FailSave != nil {
		if err := r.FailSave(res); err != nil {
			return err
		}
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("serializando reserva %s: %w", res.ID, err)
	}
	r.mu.Lock()
	r.data[res.ID] = raw
	r.mu.Unlock()
	return nil
}

func (r *ReservationRepo) LoadAll(_ context.Context) ([]*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Reservation, 0, len(r.data))
	for id, raw := range r.data {
		var res entity.Reservation
		if err := json.Unmarshal(raw, &res); err != nil {
			return nil, fmt.Errorf("reserva %s: %w", id, err)
		}
		out = append(out, &res)
	}
	return out, nil
}

func (r *ReservationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.data, id)
	r.mu.Unlock()
	return nil
}

// Snapshot devuelve la última versión persistida (nil si no existe).
func (r *ReservationRepo) Snapshot(id string) *entity.Reservation {
	r.mu.Lock()
	raw, ok := r.data[id]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	var res entity.Reservation
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil
	}
	return &res
}
