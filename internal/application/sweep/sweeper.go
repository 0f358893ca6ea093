// Package sweep contiene los barridos periódicos sobre todas las reservas (vencimiento de
// opciones y recordatorios) y el scheduler que los ejecuta.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	rules "github.com/jhoicas/frontdesk-api/internal/domain/reservation"
)

// Report resultado de un barrido. Failed lista las reservas que no se pudieron procesar; el
// barrido continúa con las demás.
type Report struct {
	Scanned  int
	Changed  []string
	Failed   []string
	Notified int
}

// Sweeper ejecuta un barrido completo. Cada reserva se procesa bajo su propio lock, una a la vez.
type Sweeper struct {
	store    ports.ReservationStore
	notifier ports.Notifier
	clock    clockwork.Clock
	log      zerolog.Logger
}

// NewSweeper construye el barredor.
func NewSweeper(store ports.ReservationStore, notifier ports.Notifier, clock clockwork.Clock, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		notifier: notifier,
		clock:    clock,
		log:      log.With().Str("component", "sweep").Logger(),
	}
}

// each aplica fn a cada reserva aislando fallos. Devuelve los ids confirmados con cambios.
func (s *Sweeper) each(ctx context.Context, name string, fn ports.MutateFunc) Report {
	ids := s.store.IDs()
	sort.Strings(ids)
	rep := Report{Scanned: len(ids)}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		changed, err := s.one(ctx, id, fn)
		switch {
		case err == nil && changed:
			rep.Changed = append(rep.Changed, id)
		case err == nil, errors.Is(err, domain.ErrNotFound):
			// sin cambios o eliminada durante el barrido
		default:
			rep.Failed = append(rep.Failed, id)
			s.log.Error().Err(err).Str("sweep", name).Str("reservation_id", id).Msg("reserva no procesada")
		}
	}
	return rep
}

func (s *Sweeper) one(ctx context.Context, id string, fn ports.MutateFunc) (changed bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	_, err = s.store.Update(ctx, id, func(r *entity.Reservation) error {
		if err := fn(r); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		changed = false
	}
	return changed, err
}

// ExpireOptions evalúa los relojes de opción de todas las reservas. Si algo cambió envía una
// única notificación con el lote.
func (s *Sweeper) ExpireOptions(ctx context.Context) Report {
	now := s.clock.Now().UTC()
	refs := map[string]string{}
	rep := s.each(ctx, "options", func(r *entity.Reservation) error {
		if !rules.ExpireOptions(r, now).Changed() {
			return ports.ErrNoChange
		}
		refs[r.ID] = r.BookingRef
		return nil
	})

	if len(rep.Changed) > 0 {
		labels := make([]string, 0, len(rep.Changed))
		for _, id := range rep.Changed {
			label := refs[id]
			if label == "" {
				label = id
			}
			labels = append(labels, label)
		}
		s.send(ctx, ports.Notification{
			Kind:    ports.NotifyOptionsExpired,
			Message: fmt.Sprintf("%d reservation(s) updated by option expiry: %s", len(labels), strings.Join(labels, ", ")),
		})
		rep.Notified = 1
	}
	s.logReport("options", rep)
	return rep
}

// FireReminders marca como notificados los recordatorios vencidos y envía un aviso por cada
// uno, solo después de confirmar la reserva. Un fallo de commit deja el recordatorio pendiente
// para el próximo barrido.
func (s *Sweeper) FireReminders(ctx context.Context) Report {
	now := s.clock.Now().UTC()
	due := map[string][]ports.Notification{}
	rep := s.each(ctx, "reminders", func(r *entity.Reservation) error {
		var batch []ports.Notification
		for i := range r.Reminders {
			rem := &r.Reminders[i]
			if rem.Fired || rem.Notified || rem.DueAt.After(now) {
				continue
			}
			rem.Notified = true
			r.Log(now, entity.ActorSystem, "Reminder due: "+rem.Message)
			batch = append(batch, ports.Notification{
				Kind:          ports.NotifyReminderDue,
				ReservationID: r.ID,
				Message:       fmt.Sprintf("%s: %s", r.BookingRef, rem.Message),
			})
		}
		if len(batch) == 0 {
			return ports.ErrNoChange
		}
		due[r.ID] = batch
		return nil
	})

	for _, id := range rep.Changed {
		for _, n := range due[id] {
			s.send(ctx, n)
			rep.Notified++
		}
	}
	s.logReport("reminders", rep)
	return rep
}

func (s *Sweeper) send(ctx context.Context, n ports.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn().Err(err).Str("kind", string(n.Kind)).Msg("notificación no entregada")
	}
}

func (s *Sweeper) logReport(name string, rep Report) {
	if len(rep.Changed) == 0 && len(rep.Failed) == 0 {
		s.log.Debug().Str("sweep", name).Int("scanned", rep.Scanned).Msg("barrido sin cambios")
		return
	}
	s.log.Info().Str("sweep", name).
		Int("scanned", rep.Scanned).
		Int("changed", len(rep.Changed)).
		Strs("failed", rep.Failed).
		Int("notified", rep.Notified).
		Msg("barrido completado")
}
