package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

// PropertyRepo datos del establecimiento (una sola fila).
type PropertyRepo struct {
	q Querier
}

// NewPropertyRepository construye el adaptador.
func NewPropertyRepository(q Querier) *PropertyRepo {
	return &PropertyRepo{q: q}
}

// Get devuelve nil, nil si aún no se configuró el establecimiento.
func (r *PropertyRepo) Get(ctx context.Context) (*entity.Property, error) {
	query := `
		SELECT id, name, legal_name, vat_number, peppol_id, address, city, country, phone, email, created_at, updated_at
		FROM property ORDER BY created_at LIMIT 1`
	var p entity.Property
	err := r.q.QueryRow(ctx, query).Scan(
		&p.ID, &p.Name, &p.LegalName, &p.VATNumber, &p.PeppolID, &p.Address, &p.City, &p.Country,
		&p.Phone, &p.Email, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return &p, nil
}
