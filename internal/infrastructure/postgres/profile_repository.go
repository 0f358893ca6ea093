package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo directorio de huéspedes y empresas.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// Upsert inserta o actualiza la ficha por id.
func (r *ProfileRepo) Upsert(ctx context.Context, p *entity.Profile) error {
	rc := p.Recipient
	query := `
		INSERT INTO profiles (id, kind, name, company, vat_number, peppol_id, address, city, country, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
		SET kind = EXCLUDED.kind, name = EXCLUDED.name, company = EXCLUDED.company,
		    vat_number = EXCLUDED.vat_number, peppol_id = EXCLUDED.peppol_id, address = EXCLUDED.address,
		    city = EXCLUDED.city, country = EXCLUDED.country, email = EXCLUDED.email, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		p.ID, rc.Kind, rc.Name, rc.Company, rc.VATNumber, rc.PeppolID, rc.Address, rc.City, rc.Country, rc.Email,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Search busca por nombre, empresa o email (ILIKE), más recientes primero.
func (r *ProfileRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, kind, name, company, vat_number, peppol_id, address, city, country, email, created_at, updated_at
		FROM profiles
		WHERE name ILIKE $1 OR company ILIKE $1 OR email ILIKE $1
		ORDER BY updated_at DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		var p entity.Profile
		rc := &p.Recipient
		if err := rows.Scan(&p.ID, &rc.Kind, &rc.Name, &rc.Company, &rc.VATNumber, &rc.PeppolID,
			&rc.Address, &rc.City, &rc.Country, &rc.Email, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
