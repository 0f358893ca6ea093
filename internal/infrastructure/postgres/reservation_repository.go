package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo guarda el snapshot completo de cada reserva en una columna jsonb.
// booking_ref y status se duplican en columnas propias para consultas e índices.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// Save inserta o reemplaza el snapshot.
func (r *ReservationRepo) Save(ctx context.Context, res *entity.Reservation) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal reservation: %w", err)
	}
	query := `
		INSERT INTO reservations (id, booking_ref, status, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET booking_ref = EXCLUDED.booking_ref,
		    status      = EXCLUDED.status,
		    data        = EXCLUDED.data,
		    updated_at  = EXCLUDED.updated_at`
	_, err = r.q.Exec(ctx, query, res.ID, res.BookingRef, string(res.Status), data, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save reservation %s: %w", res.ID, err)
	}
	return nil
}

// LoadAll carga todos los snapshots (hidratación al arrancar).
func (r *ReservationRepo) LoadAll(ctx context.Context) ([]*entity.Reservation, error) {
	rows, err := r.q.Query(ctx, `SELECT id, data FROM reservations ORDER BY booking_ref, id`)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Reservation
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var res entity.Reservation
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("decode reservation %s: %w", id, err)
		}
		if res.ID == "" {
			res.ID = id
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}

// Delete elimina el snapshot.
func (r *ReservationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}
