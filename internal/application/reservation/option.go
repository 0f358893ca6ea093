package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// SetOptionExpiry fija o limpia (nil) el vencimiento de opción de la reserva. El sweep solo lo
// evalúa mientras la reserva esté en option.
func (uc *UseCase) SetOptionExpiry(ctx context.Context, actor, resID string, expiry *time.Time) (*entity.Reservation, error) {
	return uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		r.OptionExpiry = utcPtr(expiry)
		r.Log(uc.clock.Now().UTC(), actor, "Option expiry "+describeExpiry(r.OptionExpiry))
		return nil
	})
}

// SetRoomOptionExpiry reloj de opción propio de una habitación.
func (uc *UseCase) SetRoomOptionExpiry(ctx context.Context, actor, resID string, roomIndex int, expiry *time.Time) (*entity.Reservation, error) {
	return uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		if roomIndex < 0 || roomIndex >= len(r.Rooms) {
			return fmt.Errorf("%w: habitación %d", domain.ErrNotFound, roomIndex)
		}
		rs := &r.Rooms[roomIndex]
		rs.OptionExpiry = utcPtr(expiry)
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Room %s option expiry %s", rs.RoomNumber, describeExpiry(rs.OptionExpiry)))
		return nil
	})
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}

func describeExpiry(t *time.Time) string {
	if t == nil {
		return "cleared"
	}
	return "set to " + t.Format("2006-01-02 15:04")
}
