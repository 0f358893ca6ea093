package entity

import "time"

// Property datos del establecimiento que emite los documentos.
type Property struct {
	ID        string
	Name      string
	LegalName string
	VATNumber string
	PeppolID  string
	Address   string
	City      string
	Country   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
