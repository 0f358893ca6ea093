package ports

import (
	"context"
	"errors"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// ErrNoChange lo devuelve una función de mutación para indicar que no hay nada que confirmar.
// El store no persiste ni reemplaza el registro y Update devuelve el estado actual.
var ErrNoChange = errors.New("sin cambios")

// MutateFunc recibe una copia profunda de la reserva bajo el lock del registro.
type MutateFunc func(r *entity.Reservation) error

// ReservationStore define el puerto del store en memoria de reservas.
// Cada Update es atómico por reserva: copia, muta, persiste y solo entonces reemplaza.
// Si la persistencia falla la copia se descarta y se devuelve domain.ErrCommitFailed.
type ReservationStore interface {
	Get(ctx context.Context, id string) (*entity.Reservation, error)
	List(ctx context.Context) ([]*entity.Reservation, error)
	Create(ctx context.Context, r *entity.Reservation) error
	Update(ctx context.Context, id string, fn MutateFunc) (*entity.Reservation, error)
	// IDs devuelve los ids actuales sin tomar ningún lock de registro (usado por los sweeps).
	IDs() []string
}
