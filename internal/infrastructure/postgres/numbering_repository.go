package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

var _ repository.NumberingRepository = (*NumberingRepo)(nil)

// NumberingRepo implementación de NumberingRepository sobre PostgreSQL.
type NumberingRepo struct {
	q Querier
}

// NewNumberingRepository construye el adaptador.
func NewNumberingRepository(q Querier) *NumberingRepo {
	return &NumberingRepo{q: q}
}

// Get devuelve nil, nil si la secuencia no existe.
func (r *NumberingRepo) Get(ctx context.Context, kind entity.SequenceKind) (*entity.NumberingSequence, error) {
	query := `
		SELECT kind, prefix, separator, padding, include_year, yearly_reset, next_value, last_year, updated_at
		FROM numbering_sequences WHERE kind = $1`
	var s entity.NumberingSequence
	var k string
	err := r.q.QueryRow(ctx, query, string(kind)).Scan(
		&k, &s.Prefix, &s.Separator, &s.Padding, &s.IncludeYear, &s.YearlyReset, &s.Next, &s.LastYear, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get numbering sequence: %w", err)
	}
	s.Kind = entity.SequenceKind(k)
	return &s, nil
}

// Save inserta o actualiza la secuencia completa.
func (r *NumberingRepo) Save(ctx context.Context, s *entity.NumberingSequence) error {
	query := `
		INSERT INTO numbering_sequences
			(kind, prefix, separator, padding, include_year, yearly_reset, next_value, last_year, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (kind) DO UPDATE
		SET prefix = EXCLUDED.prefix, separator = EXCLUDED.separator, padding = EXCLUDED.padding,
		    include_year = EXCLUDED.include_year, yearly_reset = EXCLUDED.yearly_reset,
		    next_value = EXCLUDED.next_value, last_year = EXCLUDED.last_year, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		string(s.Kind), s.Prefix, s.Separator, s.Padding, s.IncludeYear, s.YearlyReset, s.Next, s.LastYear, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save numbering sequence: %w", err)
	}
	return nil
}
