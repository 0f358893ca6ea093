package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo tipos de habitación y planes tarifarios (usable con pool o tx).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// GetRoomType devuelve nil, nil si no existe.
func (r *CatalogRepo) GetRoomType(ctx context.Context, id string) (*entity.RoomType, error) {
	var rt entity.RoomType
	err := r.q.QueryRow(ctx, `SELECT id, code, name, vat_rate FROM room_types WHERE id = $1`, id).
		Scan(&rt.ID, &rt.Code, &rt.Name, &rt.VATRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room type: %w", err)
	}
	return &rt, nil
}

// GetRatePlan devuelve nil, nil si no existe.
func (r *CatalogRepo) GetRatePlan(ctx context.Context, id string) (*entity.RatePlan, error) {
	var rp entity.RatePlan
	err := r.q.QueryRow(ctx, `SELECT id, code, name FROM rate_plans WHERE id = $1`, id).
		Scan(&rp.ID, &rp.Code, &rp.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rate plan: %w", err)
	}
	return &rp, nil
}

// UpsertRoomType inserta o actualiza por código.
func (r *CatalogRepo) UpsertRoomType(ctx context.Context, rt *entity.RoomType) error {
	query := `
		INSERT INTO room_types (id, code, name, vat_rate)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, vat_rate = EXCLUDED.vat_rate`
	if _, err := r.q.Exec(ctx, query, rt.ID, rt.Code, rt.Name, rt.VATRate); err != nil {
		return fmt.Errorf("upsert room type %s: %w", rt.Code, err)
	}
	return nil
}

// UpsertRatePlan inserta o actualiza por código.
func (r *CatalogRepo) UpsertRatePlan(ctx context.Context, rp *entity.RatePlan) error {
	query := `
		INSERT INTO rate_plans (id, code, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name`
	if _, err := r.q.Exec(ctx, query, rp.ID, rp.Code, rp.Name); err != nil {
		return fmt.Errorf("upsert rate plan %s: %w", rp.Code, err)
	}
	return nil
}
