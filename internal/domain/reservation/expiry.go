package reservation

import (
	"fmt"
	"time"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// ExpiryResult resumen de lo que cambió al evaluar los vencimientos de opción.
type ExpiryResult struct {
	ReservationExpired bool  // venció la opción a nivel reserva (cascada completa)
	RoomsExpired       []int // índices de habitaciones canceladas por su propia opción
	AllRoomsCancelled  bool  // regla agregada: todas las habitaciones quedaron canceladas
}

// Changed indica si hubo alguna mutación.
func (e ExpiryResult) Changed() bool {
	return e.ReservationExpired || len(e.RoomsExpired) > 0 || e.AllRoomsCancelled
}

func passed(exp *time.Time, now time.Time) bool {
	return exp != nil && !exp.After(now)
}

// ExpireOptions evalúa los dos relojes independientes de opción y registra en el log de actividad.
//
// Reserva: si está en option y su vencimiento pasó, la reserva y todas sus habitaciones pasan
// a cancelled y se limpian todos los vencimientos.
//
// Habitación: si está en option y su vencimiento pasó, solo esa habitación se cancela. Si con
// ello todas quedan canceladas, la reserva se cancela aunque su estado no fuera option.
func ExpireOptions(r *entity.Reservation, now time.Time) ExpiryResult {
	var res ExpiryResult

	if r.Status == entity.StatusOption && passed(r.OptionExpiry, now) {
		r.Status = entity.StatusCancelled
		r.OptionExpiry = nil
		for i := range r.Rooms {
			r.Rooms[i].Status = entity.StatusCancelled
			r.Rooms[i].OptionExpiry = nil
		}
		r.Log(now, entity.ActorSystem, "Option expired: reservation and all rooms cancelled")
		res.ReservationExpired = true
		return res
	}

	for i := range r.Rooms {
		rs := &r.Rooms[i]
		if rs.Status != entity.StatusOption || !passed(rs.OptionExpiry, now) {
			continue
		}
		rs.Status = entity.StatusCancelled
		rs.OptionExpiry = nil
		r.Log(now, entity.ActorSystem, fmt.Sprintf("Option expired: room %s cancelled", rs.RoomNumber))
		res.RoomsExpired = append(res.RoomsExpired, i)
	}
	if len(res.RoomsExpired) == 0 {
		return res
	}

	if allCancelled(r) {
		res.AllRoomsCancelled = true
		if r.Status != entity.StatusCancelled {
			r.Status = entity.StatusCancelled
			r.OptionExpiry = nil
			r.Log(now, entity.ActorSystem, "All rooms cancelled: reservation cancelled")
		}
	} else if derived, ok := DeriveStatus(r); ok {
		r.Status = derived
	}
	return res
}

func allCancelled(r *entity.Reservation) bool {
	if len(r.Rooms) == 0 {
		return false
	}
	for _, rs := range r.Rooms {
		if rs.Status != entity.StatusCancelled {
			return false
		}
	}
	return true
}
