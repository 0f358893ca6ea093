// Package notify implementa el sink de notificaciones sobre el logger estructurado.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
)

// LogNotifier escribe cada aviso como un evento de log. Es el sink por defecto: la entrega
// (email, push, pantalla de recepción) la resuelve quien consuma esos eventos.
type LogNotifier struct {
	log zerolog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notify").Logger()}
}

func (n *LogNotifier) Notify(_ context.Context, msg ports.Notification) error {
	ev := n.log.Info()
	if msg.Kind == ports.NotifyCheckoutWarning {
		ev = n.log.Warn()
	}
	ev.Str("kind", string(msg.Kind)).
		Str("reservation_id", msg.ReservationID).
		Msg(msg.Message)
	return nil
}
