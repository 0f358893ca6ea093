package reservation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// AddReminder programa un recordatorio.
func (uc *UseCase) AddReminder(ctx context.Context, actor, resID, message string, dueAt time.Time) (*entity.Reminder, error) {
	message = strings.TrimSpace(message)
	if message == "" || dueAt.IsZero() {
		return nil, fmt.Errorf("%w: el recordatorio necesita mensaje y vencimiento", domain.ErrInvalidInput)
	}
	rem := entity.Reminder{ID: uuid.NewString(), Message: message, DueAt: dueAt.UTC()}
	_, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		r.Reminders = append(r.Reminders, rem)
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Reminder scheduled for %s: %s", rem.DueAt.Format("2006-01-02 15:04"), message))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

// AcknowledgeReminder el operador da por atendido el recordatorio (fired). Un recordatorio
// atendido antes de vencer ya no se notifica.
func (uc *UseCase) AcknowledgeReminder(ctx context.Context, actor, resID, reminderID string) (*entity.Reminder, error) {
	var rem entity.Reminder
	_, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		for i := range r.Reminders {
			if r.Reminders[i].ID != reminderID {
				continue
			}
			if r.Reminders[i].Fired {
				rem = r.Reminders[i]
				return ports.ErrNoChange
			}
			r.Reminders[i].Fired = true
			r.Log(uc.clock.Now().UTC(), actor, "Reminder acknowledged: "+r.Reminders[i].Message)
			rem = r.Reminders[i]
			return nil
		}
		return fmt.Errorf("%w: recordatorio %s", domain.ErrNotFound, reminderID)
	})
	if err != nil {
		return nil, err
	}
	return &rem, nil
}
