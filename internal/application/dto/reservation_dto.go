package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// ── Peticiones ────────────────────────────────────────────────────────────────

// RoomRequest habitación en POST /api/reservations.
type RoomRequest struct {
	RoomNumber   string            `json:"room_number"`
	RoomTypeID   string            `json:"room_type_id,omitempty"`
	RatePlanID   string            `json:"rate_plan_id,omitempty"`
	Status       string            `json:"status,omitempty"`
	OptionExpiry *time.Time        `json:"option_expiry,omitempty"`
	CheckIn      time.Time         `json:"check_in"`
	CheckOut     time.Time         `json:"check_out"`
	FixedPrice   decimal.Decimal   `json:"fixed_price"`
	NightlyRates []decimal.Decimal `json:"nightly_rates,omitempty"` // si viene, la habitación se tarifica por noche
	Guests       []string          `json:"guests,omitempty"`
}

// ExtraRequest body para POST /api/reservations/:id/extras.
type ExtraRequest struct {
	Key       string          `json:"key,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	VATRate   decimal.Decimal `json:"vat_rate"`
	RoomID    string          `json:"room_id,omitempty"`
}

// CreateReservationRequest body para POST /api/reservations.
type CreateReservationRequest struct {
	Booker       entity.Contact    `json:"booker"`
	Recipient    *entity.Recipient `json:"recipient,omitempty"`
	Status       string            `json:"status,omitempty"`
	OptionExpiry *time.Time        `json:"option_expiry,omitempty"`
	Rooms        []RoomRequest     `json:"rooms"`
	Extras       []ExtraRequest    `json:"extras,omitempty"`
}

// SetStatusRequest body para PUT .../status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetDatesRequest body para PUT .../rooms/:index/dates.
type SetDatesRequest struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// SetOptionExpiryRequest body para PUT .../option-expiry. null limpia el vencimiento.
type SetOptionExpiryRequest struct {
	OptionExpiry *time.Time `json:"option_expiry"`
}

// SetRecipientRequest body para PUT /api/reservations/:id/recipient.
type SetRecipientRequest struct {
	Recipient   entity.Recipient `json:"recipient"`
	SaveProfile bool             `json:"save_profile"`
}

// ReminderRequest body para POST /api/reservations/:id/reminders.
type ReminderRequest struct {
	Message string    `json:"message"`
	DueAt   time.Time `json:"due_at"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// ReservationResponse reserva completa con sus totales derivados.
type ReservationResponse struct {
	ID           string                 `json:"id"`
	BookingRef   string                 `json:"booking_ref"`
	Booker       entity.Contact         `json:"booker"`
	Recipient    entity.Recipient       `json:"recipient"`
	Status       string                 `json:"status"`
	OptionExpiry *time.Time             `json:"option_expiry,omitempty"`
	Rooms        []entity.RoomStay      `json:"rooms"`
	Extras       []entity.ExtraLine     `json:"extras"`
	Payments     []entity.Payment       `json:"payments"`
	Invoices     []entity.Invoice       `json:"invoices"`
	Reminders    []entity.Reminder      `json:"reminders"`
	Activity     []entity.ActivityEntry `json:"activity"`
	Totals       TotalsResponse         `json:"totals"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ReservationListItem fila de GET /api/reservations.
type ReservationListItem struct {
	ID           string          `json:"id"`
	BookingRef   string          `json:"booking_ref"`
	BookerName   string          `json:"booker_name"`
	Status       string          `json:"status"`
	Rooms        int             `json:"rooms"`
	FirstCheckIn *time.Time      `json:"first_check_in,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

// StatusChangeResponse salida de los cambios de estado: la reserva y el aviso de salida, si lo hay.
type StatusChangeResponse struct {
	Reservation ReservationResponse `json:"reservation"`
	Warning     string              `json:"warning,omitempty"`
}

// ProfileResponse ficha del directorio para autocompletar.
type ProfileResponse struct {
	ID        string           `json:"id"`
	Recipient entity.Recipient `json:"recipient"`
}
