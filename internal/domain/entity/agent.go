package entity

import "time"

// Roles válidos para Agent.
const (
	RoleManager      = "manager"
	RoleReceptionist = "receptionist"
)

// Agent usuario de recepción.
type Agent struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // manager, receptionist
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
