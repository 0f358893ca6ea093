package repository

import (
	"context"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// AgentRepository define el puerto de persistencia para Agent.
type AgentRepository interface {
	Create(ctx context.Context, agent *entity.Agent) error
	FindByEmail(ctx context.Context, email string) (*entity.Agent, error)
}
