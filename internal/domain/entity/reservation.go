package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pricing modes de una habitación.
const (
	PricingFixed    = "fixed"
	PricingPerNight = "per-night"
)

// Contact datos de contacto del titular de la reserva (booker).
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Reservation es el agregado raíz del motor. Solo se modifica a través de los casos de uso;
// el store entrega copias profundas (Clone) y reemplaza el registro completo al confirmar.
type Reservation struct {
	ID           string          `json:"id"`
	BookingRef   string          `json:"booking_ref"`
	Booker       Contact         `json:"booker"`
	Recipient    *Recipient      `json:"recipient,omitempty"` // nil = se factura al booker
	Status       Status          `json:"status"`
	OptionExpiry *time.Time      `json:"option_expiry,omitempty"`
	Rooms        []RoomStay      `json:"rooms"`
	Extras       []ExtraLine     `json:"extras"`
	Payments     []Payment       `json:"payments"`
	Invoices     []Invoice       `json:"invoices"`
	Reminders    []Reminder      `json:"reminders"`
	Activity     []ActivityEntry `json:"activity"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RoomStay es la estancia de una habitación dentro de la reserva.
type RoomStay struct {
	ID           string            `json:"id"`
	RoomNumber   string            `json:"room_number"`
	RoomTypeID   string            `json:"room_type_id,omitempty"`
	RatePlanID   string            `json:"rate_plan_id,omitempty"`
	Status       Status            `json:"status"`
	OptionExpiry *time.Time        `json:"option_expiry,omitempty"`
	CheckIn      time.Time         `json:"check_in"`
	CheckOut     time.Time         `json:"check_out"`
	PricingMode  string            `json:"pricing_mode"`
	FixedPrice   decimal.Decimal   `json:"fixed_price"`
	NightlyRates []decimal.Decimal `json:"nightly_rates,omitempty"`
	Guests       []string          `json:"guests,omitempty"`
	Locked       bool              `json:"locked"`
}

// Nights número de noches de la estancia (0 si las fechas son inválidas).
func (r RoomStay) Nights() int {
	d := r.CheckOut.Sub(r.CheckIn)
	if d <= 0 {
		return 0
	}
	return int(d.Hours()+12) / 24
}

// ExtraLine cargo adicional (minibar, parking, desayuno...).
type ExtraLine struct {
	Key       string          `json:"key"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	VATRate   decimal.Decimal `json:"vat_rate"`
	RoomID    string          `json:"room_id,omitempty"`
}

// Amount cantidad × precio unitario.
func (e ExtraLine) Amount() decimal.Decimal {
	return e.Quantity.Mul(e.UnitPrice)
}

// Reminder recordatorio con vencimiento. Notified lo marca el sweep; Fired solo el operador.
type Reminder struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	DueAt    time.Time `json:"due_at"`
	Fired    bool      `json:"fired"`
	Notified bool      `json:"notified"`
}

// ActivityEntry entrada del log append-only de la reserva.
type ActivityEntry struct {
	At      time.Time `json:"at"`
	Actor   string    `json:"actor"` // agente o "system" para el scheduler
	Message string    `json:"message"`
}

// ActorSystem actor usado por los sweeps.
const ActorSystem = "system"

// Log agrega una entrada al log de actividad.
func (r *Reservation) Log(at time.Time, actor, msg string) {
	if actor == "" {
		actor = ActorSystem
	}
	r.Activity = append(r.Activity, ActivityEntry{At: at, Actor: actor, Message: msg})
}

// BillingRecipient devuelve el destinatario efectivo: el configurado o, por defecto, el booker.
func (r *Reservation) BillingRecipient() Recipient {
	if r.Recipient != nil {
		return *r.Recipient
	}
	return Recipient{
		Kind:  RecipientIndividual,
		Name:  r.Booker.Name,
		Email: r.Booker.Email,
	}
}

// InvoiceByID busca una factura por ID; devuelve su índice o -1.
func (r *Reservation) InvoiceByID(id string) int {
	for i := range r.Invoices {
		if r.Invoices[i].ID == id {
			return i
		}
	}
	return -1
}

// InvoiceByNumber busca una factura por número; devuelve su índice o -1.
func (r *Reservation) InvoiceByNumber(number string) int {
	if number == "" {
		return -1
	}
	for i := range r.Invoices {
		if r.Invoices[i].Number == number {
			return i
		}
	}
	return -1
}

// PaymentByID busca un pago por ID; devuelve su índice o -1.
func (r *Reservation) PaymentByID(id string) int {
	for i := range r.Payments {
		if r.Payments[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone copia profunda. Ninguna slice ni puntero queda compartido con el original.
func (r *Reservation) Clone() *Reservation {
	if r == nil {
		return nil
	}
	out := *r
	if r.Recipient != nil {
		rc := *r.Recipient
		out.Recipient = &rc
	}
	out.OptionExpiry = cloneTime(r.OptionExpiry)

	out.Rooms = make([]RoomStay, len(r.Rooms))
	for i, rs := range r.Rooms {
		rs.OptionExpiry = cloneTime(rs.OptionExpiry)
		rs.NightlyRates = append([]decimal.Decimal(nil), rs.NightlyRates...)
		rs.Guests = append([]string(nil), rs.Guests...)
		out.Rooms[i] = rs
	}
	out.Extras = append([]ExtraLine(nil), r.Extras...)
	out.Payments = append([]Payment(nil), r.Payments...)
	out.Invoices = make([]Invoice, len(r.Invoices))
	for i, inv := range r.Invoices {
		inv.Items = append([]InvoiceItem(nil), inv.Items...)
		inv.LinkedPayments = append([]string(nil), inv.LinkedPayments...)
		out.Invoices[i] = inv
	}
	out.Reminders = append([]Reminder(nil), r.Reminders...)
	out.Activity = append([]ActivityEntry(nil), r.Activity...)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
