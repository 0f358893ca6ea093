package repository

import (
	"context"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// ProfileRepository directorio de huéspedes, empresas y bookers.
type ProfileRepository interface {
	Upsert(ctx context.Context, p *entity.Profile) error
	Search(ctx context.Context, term string, limit int) ([]*entity.Profile, error)
}
