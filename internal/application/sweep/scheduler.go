package sweep

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// Intervalos por defecto.
const (
	DefaultOptionInterval   = 30 * time.Second
	DefaultReminderInterval = 10 * time.Second
)

// Scheduler ejecuta los dos barridos en bucles independientes hasta que se cancele el contexto.
type Scheduler struct {
	sweeper          *Sweeper
	clock            clockwork.Clock
	optionInterval   time.Duration
	reminderInterval time.Duration
}

// NewScheduler intervalos <= 0 usan los valores por defecto.
func NewScheduler(sweeper *Sweeper, clock clockwork.Clock, optionInterval, reminderInterval time.Duration) *Scheduler {
	if optionInterval <= 0 {
		optionInterval = DefaultOptionInterval
	}
	if reminderInterval <= 0 {
		reminderInterval = DefaultReminderInterval
	}
	return &Scheduler{
		sweeper:          sweeper,
		clock:            clock,
		optionInterval:   optionInterval,
		reminderInterval: reminderInterval,
	}
}

// Run bloquea hasta que ctx se cancele. Devuelve nil en un apagado normal.
func (s *Scheduler) Run(ctx context.Context) error {
	s.sweeper.log.Info().
		Dur("option_interval", s.optionInterval).
		Dur("reminder_interval", s.reminderInterval).
		Msg("scheduler iniciado")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.loop(ctx, s.optionInterval, func(ctx context.Context) { s.sweeper.ExpireOptions(ctx) })
	})
	g.Go(func() error {
		return s.loop(ctx, s.reminderInterval, func(ctx context.Context) { s.sweeper.FireReminders(ctx) })
	})
	err := g.Wait()
	s.sweeper.log.Info().Msg("scheduler detenido")
	return err
}

func (s *Scheduler) loop(ctx context.Context, every time.Duration, sweep func(context.Context)) error {
	ticker := s.clock.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			sweep(ctx)
		}
	}
}
