package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/frontdesk-api/internal/application/dto"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
	"github.com/jhoicas/frontdesk-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación de agentes: alta y login.
type AuthUseCase struct {
	agentRepo repository.AgentRepository
	jwtCfg    JWTConfig
	clock     clockwork.Clock
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(agentRepo repository.AgentRepository, jwtCfg JWTConfig, clock clockwork.Clock) *AuthUseCase {
	return &AuthUseCase{agentRepo: agentRepo, jwtCfg: jwtCfg, clock: clock}
}

// RegisterAgent crea un agente: hashea password con bcrypt y persiste. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterAgent(ctx context.Context, in dto.CreateAgentRequest) (*dto.AgentResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email y password (mínimo 8 caracteres) son requeridos", domain.ErrInvalidInput)
	}
	existing, err := uc.agentRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	role := in.Role
	if role == "" {
		role = entity.RoleReceptionist
	}
	if role != entity.RoleManager && role != entity.RoleReceptionist {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now().UTC()
	name := in.Name
	if name == "" {
		name = email
	}
	agent := &entity.Agent{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.agentRepo.Create(ctx, agent); err != nil {
		return nil, err
	}
	out := dto.FromAgent(agent)
	return &out, nil
}

// Login verifica email/password, genera JWT y retorna token + agente.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	agent, err := uc.agentRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if agent.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, agent.ID, agent.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		Agent: dto.FromAgent(agent),
	}, nil
}
