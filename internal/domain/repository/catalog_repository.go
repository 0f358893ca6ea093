package repository

import (
	"context"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// CatalogRepository datos de referencia (solo lectura para el motor).
type CatalogRepository interface {
	GetRoomType(ctx context.Context, id string) (*entity.RoomType, error)
	GetRatePlan(ctx context.Context, id string) (*entity.RatePlan, error)
}
