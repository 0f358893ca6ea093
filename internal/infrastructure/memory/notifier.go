package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
)

// Notifier acumula las notificaciones en memoria (tests y modo sin sink externo).
type Notifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

var _ ports.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(_ context.Context, msg ports.Notification) error {
	n.mu.Lock()
	n.sent = append(n.sent, msg)
	n.mu.Unlock()
	return nil
}

// Sent copia de lo enviado hasta ahora.
func (n *Notifier) Sent() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Notification(nil), n.sent...)
}

// Kind filtra por tipo.
func (n *Notifier) Kind(kind ports.NotificationKind) []ports.Notification {
	var out []ports.Notification
	for _, s := range n.Sent() {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
