package entity

import "github.com/shopspring/decimal"

// RoomType tipo de habitación (catálogo, solo lectura para el motor).
type RoomType struct {
	ID      string
	Code    string
	Name    string
	VATRate decimal.Decimal // porcentaje, ej. 6 o 21
}

// RatePlan plan tarifario (catálogo, solo lectura para el motor).
type RatePlan struct {
	ID   string
	Code string
	Name string
}
