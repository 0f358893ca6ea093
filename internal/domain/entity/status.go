package entity

// Status es el estado compartido por Reservation y RoomStay.
type Status string

// Estados válidos de reserva y de habitación.
const (
	StatusConfirmed  Status = "confirmed"
	StatusOption     Status = "option"
	StatusCheckedIn  Status = "checked-in"
	StatusCheckedOut Status = "checked-out"
	StatusNoShow     Status = "no-show"
	StatusCancelled  Status = "cancelled"
	StatusBlocked    Status = "blocked"
)

// Valid indica si s pertenece al enum.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusOption, StatusCheckedIn, StatusCheckedOut,
		StatusNoShow, StatusCancelled, StatusBlocked:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }
