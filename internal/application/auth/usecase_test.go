package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/frontdesk-api/internal/application/auth"
	"github.com/jhoicas/frontdesk-api/internal/application/dto"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/frontdesk-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.AgentRepo) {
	t.Helper()
	repo := memory.NewAgentRepo()
	clock := clockwork.NewFakeClockAt(time.Now())
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "frontdesk"}, clock), repo
}

func TestRegisterAgent_YLogin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	agent, err := uc.RegisterAgent(ctx, dto.CreateAgentRequest{Email: "Ana@Hotel.test", Password: "s3cret-pass", Role: entity.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "ana@hotel.test", agent.Email)
	assert.Equal(t, entity.RoleManager, agent.Role)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@hotel.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, agent.ID, out.Agent.ID)

	agentID, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, agentID)
	assert.Equal(t, entity.RoleManager, role)
}

func TestRegisterAgent_RolPorDefectoYDuplicado(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	agent, err := uc.RegisterAgent(ctx, dto.CreateAgentRequest{Email: "bob@hotel.test", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleReceptionist, agent.Role)

	_, err = uc.RegisterAgent(ctx, dto.CreateAgentRequest{Email: "BOB@hotel.test", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.RegisterAgent(ctx, dto.CreateAgentRequest{Email: "x@hotel.test", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterAgent(ctx, dto.CreateAgentRequest{Email: "y@hotel.test", Password: "password1", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_Errores(t *testing.T) {
	uc, repo := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterAgent(ctx, dto.CreateAgentRequest{Email: "ana@hotel.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@hotel.test", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@hotel.test", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &entity.Agent{ID: "old", Email: "old@hotel.test", PasswordHash: string(hash), Role: entity.RoleReceptionist, Status: "inactive"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "old@hotel.test", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
