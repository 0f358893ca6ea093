// Package bootstrap arma el grafo de dependencias compartido por la API y la CLI:
// repositorios según el modo de persistencia, store hidratado, numeración reconciliada y casos de uso.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/jhoicas/frontdesk-api/internal/application/analytics"
	"github.com/jhoicas/frontdesk-api/internal/application/auth"
	"github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/application/reservation"
	"github.com/jhoicas/frontdesk-api/internal/application/sweep"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/notify"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/pdf"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/postgres"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/ubl"
	"github.com/jhoicas/frontdesk-api/pkg/config"
)

// Repositories adaptadores de persistencia.
type Repositories struct {
	Reservations repository.ReservationRepository
	Numbering    repository.NumberingRepository
	Catalog      repository.CatalogRepository
	Profiles     repository.ProfileRepository
	Agents       repository.AgentRepository
	Property     repository.PropertyRepository
}

// Container dependencias listas para usar.
type Container struct {
	Config *config.Config
	Clock  clockwork.Clock
	Pool   *pgxpool.Pool // nil en modo memoria
	Repos  Repositories

	Store       *memory.ReservationStore
	Numbering   *billing.NumberingService
	Reservation *reservation.UseCase
	Invoices    *billing.InvoiceUseCase
	Payments    *billing.PaymentUseCase
	Documents   *billing.DocumentUseCase
	Receivables *analytics.ReceivablesUseCase
	Auth        *auth.AuthUseCase
	Sweeper     *sweep.Sweeper
	Scheduler   *sweep.Scheduler
}

// Close libera el pool si existe.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// Build conecta la persistencia, aplica migraciones, hidrata el store y construye los casos de uso.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Clock: clockwork.NewRealClock()}

	switch cfg.DB.Persistence {
	case config.PersistenceMemory:
		c.Repos = memoryRepos(cfg)
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		c.Pool = pool
		c.Repos = postgresRepos(pool)
		c.Repos.Property = propertyWithDefault{repo: c.Repos.Property, def: propertyFromConfig(cfg.Property)}
	}

	c.Store = memory.NewReservationStore(c.Repos.Reservations, c.Clock, log)
	all, err := c.Store.Hydrate(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("hidratar reservas: %w", err)
	}

	c.Numbering = billing.NewNumberingService(c.Repos.Numbering, Sequences(cfg.Numbering), log)
	if err := c.Numbering.ReconcileFromReservations(ctx, all); err != nil {
		c.Close()
		return nil, fmt.Errorf("reconciliar numeración: %w", err)
	}

	notifier := notify.NewLogNotifier(log)
	currency := cfg.Billing.Currency
	resolver := billing.NewCatalogResolver(c.Repos.Catalog, cfg.Billing.RoomVATRate)

	c.Reservation = reservation.NewUseCase(c.Store, c.Numbering, c.Repos.Profiles, notifier, c.Clock, currency, log)
	c.Invoices = billing.NewInvoiceUseCase(c.Store, c.Numbering, resolver, c.Clock, currency, log)
	c.Payments = billing.NewPaymentUseCase(c.Store, c.Clock, currency)
	c.Documents = billing.NewDocumentUseCase(c.Store, c.Repos.Property, pdf.NewMarotoPDFGenerator(), ubl.NewBuilder(), currency)
	c.Receivables = analytics.NewReceivablesUseCase(c.Store, currency)
	c.Auth = auth.NewAuthUseCase(c.Repos.Agents, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, c.Clock)
	c.Sweeper = sweep.NewSweeper(c.Store, notifier, c.Clock, log)
	c.Scheduler = sweep.NewScheduler(c.Sweeper, c.Clock, cfg.Scheduler.OptionSweepInterval, cfg.Scheduler.ReminderSweepInterval)

	log.Info().
		Str("persistence", cfg.DB.Persistence).
		Int("reservations", len(all)).
		Str("currency", currency).
		Msg("dependencias listas")
	return c, nil
}

func memoryRepos(cfg *config.Config) Repositories {
	return Repositories{
		Reservations: memory.NewReservationRepo(),
		Numbering:    memory.NewNumberingRepo(),
		Catalog:      memory.NewCatalogRepo(),
		Profiles:     memory.NewProfileRepo(),
		Agents:       memory.NewAgentRepo(),
		Property:     &memory.PropertyRepo{Property: propertyFromConfig(cfg.Property)},
	}
}

func propertyFromConfig(p config.PropertyConfig) entity.Property {
	now := time.Now().UTC()
	return entity.Property{
		ID: "property", Name: p.Name, LegalName: p.LegalName, VATNumber: p.VATNumber, PeppolID: p.PeppolID,
		Address: p.Address, City: p.City, Country: p.Country, Phone: p.Phone, Email: p.Email,
		CreatedAt: now, UpdatedAt: now,
	}
}

// propertyWithDefault usa los datos de configuración mientras la tabla property esté vacía.
type propertyWithDefault struct {
	repo repository.PropertyRepository
	def  entity.Property
}

func (p propertyWithDefault) Get(ctx context.Context) (*entity.Property, error) {
	got, err := p.repo.Get(ctx)
	if err != nil || got != nil {
		return got, err
	}
	def := p.def
	return &def, nil
}

func postgresRepos(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Reservations: postgres.NewReservationRepository(pool),
		Numbering:    postgres.NewNumberingRepository(pool),
		Catalog:      postgres.NewCatalogRepository(pool),
		Profiles:     postgres.NewProfileRepository(pool),
		Agents:       postgres.NewAgentRepository(pool),
		Property:     postgres.NewPropertyRepository(pool),
	}
}

// Sequences formato inicial de los contadores a partir de la configuración.
func Sequences(n config.NumberingConfig) []entity.NumberingSequence {
	mk := func(kind entity.SequenceKind, s config.SequenceConfig) entity.NumberingSequence {
		return entity.NumberingSequence{
			Kind:        kind,
			Prefix:      s.Prefix,
			Separator:   s.Separator,
			Padding:     s.Padding,
			IncludeYear: s.IncludeYear,
			YearlyReset: s.YearlyReset,
			Next:        1,
		}
	}
	return []entity.NumberingSequence{
		mk(entity.SequenceInvoice, n.Invoice),
		mk(entity.SequenceProforma, n.Proforma),
		mk(entity.SequenceBooking, n.Booking),
	}
}
