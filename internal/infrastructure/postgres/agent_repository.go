package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

var _ repository.AgentRepository = (*AgentRepo)(nil)

// AgentRepo implementación del puerto AgentRepository sobre PostgreSQL.
type AgentRepo struct {
	q Querier
}

// NewAgentRepository construye el adaptador de persistencia para agentes.
func NewAgentRepository(q Querier) *AgentRepo {
	return &AgentRepo{q: q}
}

// Create persiste un nuevo agente.
func (r *AgentRepo) Create(ctx context.Context, a *entity.Agent) error {
	query := `
		INSERT INTO agents (id, email, password_hash, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.Name, a.Role, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

// FindByEmail obtiene un agente por email (sin distinguir mayúsculas). nil, nil si no existe.
func (r *AgentRepo) FindByEmail(ctx context.Context, email string) (*entity.Agent, error) {
	query := `
		SELECT id, email, password_hash, name, role, status, created_at, updated_at
		FROM agents WHERE lower(email) = lower($1)`
	var a entity.Agent
	err := r.q.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent by email: %w", err)
	}
	return &a, nil
}
