package reservation

import (
	"context"
	"fmt"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	rules "github.com/jhoicas/frontdesk-api/internal/domain/reservation"
)

// StatusChange resultado de un cambio de estado. Warning solo se calcula al hacer checkout.
type StatusChange struct {
	Reservation *entity.Reservation
	Warning     string
}

// SetReservationStatus fija el estado de la reserva y lo propaga a todas las habitaciones.
func (uc *UseCase) SetReservationStatus(ctx context.Context, actor, resID string, status entity.Status) (*StatusChange, error) {
	res, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		unchanged := r.Status == status
		for _, rs := range r.Rooms {
			unchanged = unchanged && rs.Status == status
		}
		before, err := rules.ApplyReservationStatus(r, status)
		if err != nil {
			return err
		}
		if unchanged {
			return ports.ErrNoChange
		}
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Reservation status: %s → %s", before, status))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.afterStatus(ctx, res, status), nil
}

// SetRoomStatus fija el estado de una habitación y re-deriva el de la reserva.
func (uc *UseCase) SetRoomStatus(ctx context.Context, actor, resID string, roomIndex int, status entity.Status) (*StatusChange, error) {
	res, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		before, err := rules.ApplyRoomStatus(r, roomIndex, status)
		if err != nil {
			return err
		}
		if before == status {
			return ports.ErrNoChange
		}
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Room %s status: %s → %s",
			r.Rooms[roomIndex].RoomNumber, before, status))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.afterStatus(ctx, res, status), nil
}

// afterStatus evalúa el aviso de checkout. Es informativo: el cambio ya está confirmado.
func (uc *UseCase) afterStatus(ctx context.Context, res *entity.Reservation, status entity.Status) *StatusChange {
	out := &StatusChange{Reservation: res}
	if status != entity.StatusCheckedOut {
		return out
	}
	out.Warning = calc.CheckoutWarning(res, uc.currency)
	if out.Warning != "" {
		uc.notify(ctx, ports.Notification{
			Kind:          ports.NotifyCheckoutWarning,
			ReservationID: res.ID,
			Message:       fmt.Sprintf("%s: %s", res.BookingRef, out.Warning),
		})
	}
	return out
}
