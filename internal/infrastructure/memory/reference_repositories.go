package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

// ── Catálogo ─────────────────────────────────────────────────────────────────

// CatalogRepo tipos de habitación y planes de tarifa en memoria.
type CatalogRepo struct {
	mu        sync.RWMutex
	roomTypes map[string]entity.RoomType
	ratePlans map[string]entity.RatePlan
}

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

func NewCatalogRepo() *CatalogRepo {
	return &CatalogRepo{
		roomTypes: make(map[string]entity.RoomType),
		ratePlans: make(map[string]entity.RatePlan),
	}
}

// PutRoomType alta o reemplazo de un tipo de habitación.
func (r *CatalogRepo) PutRoomType(rt entity.RoomType) {
	r.mu.Lock()
	r.roomTypes[rt.ID] = rt
	r.mu.Unlock()
}

// PutRatePlan alta o reemplazo de un plan de tarifa.
func (r *CatalogRepo) PutRatePlan(rp entity.RatePlan) {
	r.mu.Lock()
	r.ratePlans[rp.ID] = rp
	r.mu.Unlock()
}

func (r *CatalogRepo) GetRoomType(_ context.Context, id string) (*entity.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.roomTypes[id]
	if !ok {
		return nil, nil
	}
	return &rt, nil
}

func (r *CatalogRepo) GetRatePlan(_ context.Context, id string) (*entity.RatePlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rp, ok := r.ratePlans[id]
	if !ok {
		return nil, nil
	}
	return &rp, nil
}

// ── Perfiles ─────────────────────────────────────────────────────────────────

// ProfileRepo directorio de perfiles en memoria.
type ProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]entity.Profile
}

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{profiles: make(map[string]entity.Profile)}
}

func (r *ProfileRepo) Upsert(_ context.Context, p *entity.Profile) error {
	if p.ID == "" {
		return fmt.Errorf("%w: perfil sin id", domain.ErrInvalidInput)
	}
	r.mu.Lock()
	r.profiles[p.ID] = *p
	r.mu.Unlock()
	return nil
}

func (r *ProfileRepo) Search(_ context.Context, term string, limit int) ([]*entity.Profile, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Profile
	for _, p := range r.profiles {
		if limit > 0 && len(out) >= limit {
			break
		}
		hay := strings.ToLower(p.Recipient.Name + " " + p.Recipient.Company + " " + p.Recipient.Email)
		if term == "" || strings.Contains(hay, term) {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Agentes ──────────────────────────────────────────────────────────────────

// AgentRepo agentes de recepción en memoria.
type AgentRepo struct {
	mu      sync.Mutex
	byEmail map[string]entity.Agent
}

var _ repository.AgentRepository = (*AgentRepo)(nil)

func NewAgentRepo() *AgentRepo {
	return &AgentRepo{byEmail: make(map[string]entity.Agent)}
}

func (r *AgentRepo) Create(_ context.Context, a *entity.Agent) error {
	key := strings.ToLower(a.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[key]; ok {
		return fmt.Errorf("%w: %s", domain.ErrEmailAlreadyExists, a.Email)
	}
	r.byEmail[key] = *a
	return nil
}

func (r *AgentRepo) FindByEmail(_ context.Context, email string) (*entity.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// ── Propiedad ────────────────────────────────────────────────────────────────

// PropertyRepo datos fijos del establecimiento.
type PropertyRepo struct {
	Property entity.Property
}

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

func (r *PropertyRepo) Get(_ context.Context) (*entity.Property, error) {
	p := r.Property
	return &p, nil
}
