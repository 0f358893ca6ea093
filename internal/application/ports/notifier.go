package ports

import "context"

// NotificationKind tipo de aviso enviado al personal.
type NotificationKind string

const (
	NotifyCheckoutWarning NotificationKind = "checkout-warning"
	NotifyOptionsExpired  NotificationKind = "options-expired"
	NotifyReminderDue     NotificationKind = "reminder-due"
	NotifyConfirmation    NotificationKind = "confirmation"
)

// Notification aviso informativo; nunca bloquea una operación.
type Notification struct {
	Kind          NotificationKind
	ReservationID string
	Message       string
}

// Notifier sink de notificaciones (log, email, push...).
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
