package billing

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

// CatalogResolver arma el calc.Catalog de una reserva a partir del repositorio de catálogo.
// El catálogo es de lectura casi exclusiva: las entradas se cachean sin expiración.
type CatalogResolver struct {
	repo       repository.CatalogRepository
	defaultVAT decimal.Decimal

	mu        sync.RWMutex
	roomTypes map[string]*entity.RoomType
	ratePlans map[string]*entity.RatePlan
}

// NewCatalogResolver repo puede ser nil (sin catálogo: etiquetas e IVA por defecto).
func NewCatalogResolver(repo repository.CatalogRepository, defaultRoomVAT decimal.Decimal) *CatalogResolver {
	return &CatalogResolver{
		repo:       repo,
		defaultVAT: defaultRoomVAT,
		roomTypes:  make(map[string]*entity.RoomType),
		ratePlans:  make(map[string]*entity.RatePlan),
	}
}

// Resolve devuelve el catálogo necesario para etiquetar las habitaciones de r.
func (c *CatalogResolver) Resolve(ctx context.Context, r *entity.Reservation) (calc.Catalog, error) {
	cat := calc.Catalog{
		RoomTypes:      make(map[string]entity.RoomType),
		RatePlans:      make(map[string]entity.RatePlan),
		DefaultRoomVAT: c.defaultVAT,
	}
	if c.repo == nil {
		return cat, nil
	}
	for _, rs := range r.Rooms {
		if rs.RoomTypeID != "" {
			rt, err := c.roomType(ctx, rs.RoomTypeID)
			if err != nil {
				return cat, err
			}
			if rt != nil {
				cat.RoomTypes[rt.ID] = *rt
			}
		}
		if rs.RatePlanID != "" {
			rp, err := c.ratePlan(ctx, rs.RatePlanID)
			if err != nil {
				return cat, err
			}
			if rp != nil {
				cat.RatePlans[rp.ID] = *rp
			}
		}
	}
	return cat, nil
}

func (c *CatalogResolver) roomType(ctx context.Context, id string) (*entity.RoomType, error) {
	c.mu.RLock()
	rt, ok := c.roomTypes[id]
	c.mu.RUnlock()
	if ok {
		return rt, nil
	}
	rt, err := c.repo.GetRoomType(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catálogo: tipo de habitación %s: %w", id, err)
	}
	if rt != nil {
		c.mu.Lock()
		c.roomTypes[id] = rt
		c.mu.Unlock()
	}
	return rt, nil
}

func (c *CatalogResolver) ratePlan(ctx context.Context, id string) (*entity.RatePlan, error) {
	c.mu.RLock()
	rp, ok := c.ratePlans[id]
	c.mu.RUnlock()
	if ok {
		return rp, nil
	}
	rp, err := c.repo.GetRatePlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catálogo: plan de tarifa %s: %w", id, err)
	}
	if rp != nil {
		c.mu.Lock()
		c.ratePlans[id] = rp
		c.mu.Unlock()
	}
	return rp, nil
}
