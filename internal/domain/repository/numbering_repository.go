package repository

import (
	"context"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// NumberingRepository persiste configuración y contador de cada secuencia.
type NumberingRepository interface {
	// Get devuelve nil, nil si la secuencia aún no existe.
	Get(ctx context.Context, kind entity.SequenceKind) (*entity.NumberingSequence, error)
	Save(ctx context.Context, seq *entity.NumberingSequence) error
}
