// Package reservation contiene las reglas de estado de la reserva y de sus habitaciones
// (máquina de estados, vencimiento de opciones y reparación de registros antiguos).
package reservation

import (
	"fmt"

	"github.com/jhoicas/frontdesk-api/internal/domain"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// DeriveStatus aplica la regla de derivación: con una sola habitación, o con todas las
// habitaciones en el mismo estado, la reserva toma ese estado. Si divergen devuelve ok=false
// y la reserva conserva su estado anterior hasta que vuelvan a coincidir.
func DeriveStatus(r *entity.Reservation) (entity.Status, bool) {
	if len(r.Rooms) == 0 {
		return "", false
	}
	first := r.Rooms[0].Status
	for _, rs := range r.Rooms[1:] {
		if rs.Status != first {
			return "", false
		}
	}
	return first, true
}

// ApplyReservationStatus fija el estado de la reserva y lo propaga a todas las habitaciones.
// Devuelve el estado anterior.
func ApplyReservationStatus(r *entity.Reservation, s entity.Status) (entity.Status, error) {
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidStatus, s)
	}
	before := r.Status
	r.Status = s
	for i := range r.Rooms {
		r.Rooms[i].Status = s
	}
	return before, nil
}

// ApplyRoomStatus fija el estado de una habitación y re-deriva el estado de la reserva.
// Devuelve el estado anterior de la habitación.
func ApplyRoomStatus(r *entity.Reservation, roomIndex int, s entity.Status) (entity.Status, error) {
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidStatus, s)
	}
	if roomIndex < 0 || roomIndex >= len(r.Rooms) {
		return "", fmt.Errorf("%w: habitación %d", domain.ErrNotFound, roomIndex)
	}
	before := r.Rooms[roomIndex].Status
	r.Rooms[roomIndex].Status = s
	if derived, ok := DeriveStatus(r); ok {
		r.Status = derived
	}
	return before, nil
}
