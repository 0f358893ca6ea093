package repository

import (
	"context"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// PropertyRepository datos del establecimiento (cabecera de documentos).
type PropertyRepository interface {
	Get(ctx context.Context) (*entity.Property, error)
}
