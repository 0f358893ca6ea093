package entity

import "time"

// Profile ficha del directorio de huéspedes/empresas. El motor solo la lee para autocompletar
// y la escribe cuando el operador guarda explícitamente un destinatario.
type Profile struct {
	ID        string
	Recipient Recipient
	CreatedAt time.Time
	UpdatedAt time.Time
}
