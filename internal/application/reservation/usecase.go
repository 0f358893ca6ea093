// Package reservation expone las operaciones interactivas sobre una reserva: alta, estados,
// fechas, extras, destinatario de facturación y recordatorios.
package reservation

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

// UseCase casos de uso de reservas. Toda mutación pasa por store.Update.
type UseCase struct {
	store     ports.ReservationStore
	numbering *billing.NumberingService
	profiles  repository.ProfileRepository
	notifier  ports.Notifier
	clock     clockwork.Clock
	currency  string
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso. profiles puede ser nil (sin directorio).
func NewUseCase(
	store ports.ReservationStore,
	numbering *billing.NumberingService,
	profiles repository.ProfileRepository,
	notifier ports.Notifier,
	clock clockwork.Clock,
	currency string,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		store:     store,
		numbering: numbering,
		profiles:  profiles,
		notifier:  notifier,
		clock:     clock,
		currency:  currency,
		log:       log.With().Str("component", "reservations").Logger(),
	}
}

// notify entrega el aviso sin bloquear la operación que lo originó.
func (uc *UseCase) notify(ctx context.Context, n ports.Notification) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Notify(ctx, n); err != nil {
		uc.log.Warn().Err(err).Str("kind", string(n.Kind)).Str("reservation_id", n.ReservationID).
			Msg("no se pudo entregar la notificación")
	}
}
