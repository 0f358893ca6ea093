package repository

import (
	"context"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// ReservationRepository puerto de persistencia de snapshots completos de reserva.
// El store en memoria lo llama tras cada mutación confirmada y al arrancar (hidratación).
type ReservationRepository interface {
	Save(ctx context.Context, r *entity.Reservation) error
	LoadAll(ctx context.Context) ([]*entity.Reservation, error)
	Delete(ctx context.Context, id string) error
}
