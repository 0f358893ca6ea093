package reservation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	rules "github.com/jhoicas/frontdesk-api/internal/domain/reservation"
)

// RoomInput habitación de una reserva nueva.
type RoomInput struct {
	RoomNumber   string
	RoomTypeID   string
	RatePlanID   string
	Status       entity.Status // vacío = el de la reserva
	OptionExpiry *time.Time
	CheckIn      time.Time
	CheckOut     time.Time
	FixedPrice   decimal.Decimal
	NightlyRates []decimal.Decimal // si no está vacío la habitación se tarifica por noche
	Guests       []string
}

// ExtraInput cargo adicional.
type ExtraInput struct {
	Key       string // vacío = generado
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	VATRate   decimal.Decimal
	RoomID    string
}

// CreateInput alta de reserva.
type CreateInput struct {
	Booker       entity.Contact
	Recipient    *entity.Recipient
	Status       entity.Status // vacío = option si hay OptionExpiry, si no confirmed
	OptionExpiry *time.Time
	Rooms        []RoomInput
	Extras       []ExtraInput
}

// CreateReservation valida y da de alta la reserva con una referencia de la secuencia de reservas.
func (uc *UseCase) CreateReservation(ctx context.Context, actor string, in CreateInput) (*entity.Reservation, error) {
	if strings.TrimSpace(in.Booker.Name) == "" {
		return nil, fmt.Errorf("%w: el titular es obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Rooms) == 0 {
		return nil, fmt.Errorf("%w: la reserva necesita al menos una habitación", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = entity.StatusConfirmed
		if in.OptionExpiry != nil {
			status = entity.StatusOption
		}
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	if in.Recipient != nil {
		if err := in.Recipient.Validate(); err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now().UTC()
	r := &entity.Reservation{
		ID:           uuid.NewString(),
		Booker:       in.Booker,
		Recipient:    in.Recipient,
		Status:       status,
		OptionExpiry: utcPtr(in.OptionExpiry),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, ri := range in.Rooms {
		rs, err := buildRoom(ri, status)
		if err != nil {
			return nil, err
		}
		r.Rooms = append(r.Rooms, rs)
	}
	for _, ei := range in.Extras {
		e, err := buildExtra(r, ei)
		if err != nil {
			return nil, err
		}
		r.Extras = append(r.Extras, e)
	}
	if derived, ok := rules.DeriveStatus(r); ok {
		r.Status = derived
	}

	lease, err := uc.numbering.Begin(ctx, entity.SequenceBooking)
	if err != nil {
		return nil, err
	}
	defer lease.Rollback()
	r.BookingRef = lease.Next(now).Number
	r.Log(now, actor, fmt.Sprintf("Reservation %s created: %d room(s), %s", r.BookingRef, len(r.Rooms),
		calc.FormatMoney(uc.currency, calc.TotalAmount(r))))

	if err := uc.store.Create(ctx, r); err != nil {
		return nil, err
	}
	if err := lease.Commit(ctx, now); err != nil {
		uc.log.Warn().Err(err).Str("booking_ref", r.BookingRef).Msg("contador de reservas sin persistir")
	}

	uc.notify(ctx, ports.Notification{
		Kind:          ports.NotifyConfirmation,
		ReservationID: r.ID,
		Message:       fmt.Sprintf("Reservation %s for %s is %s", r.BookingRef, r.Booker.Name, r.Status),
	})
	return r.Clone(), nil
}

func buildRoom(in RoomInput, resStatus entity.Status) (entity.RoomStay, error) {
	if strings.TrimSpace(in.RoomNumber) == "" {
		return entity.RoomStay{}, fmt.Errorf("%w: número de habitación vacío", domain.ErrInvalidInput)
	}
	if !in.CheckOut.After(in.CheckIn) {
		return entity.RoomStay{}, fmt.Errorf("%w: habitación %s", domain.ErrInvalidDates, in.RoomNumber)
	}
	status := in.Status
	if status == "" {
		status = resStatus
	}
	if !status.Valid() {
		return entity.RoomStay{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	rs := entity.RoomStay{
		ID:           uuid.NewString(),
		RoomNumber:   in.RoomNumber,
		RoomTypeID:   in.RoomTypeID,
		RatePlanID:   in.RatePlanID,
		Status:       status,
		OptionExpiry: utcPtr(in.OptionExpiry),
		CheckIn:      in.CheckIn,
		CheckOut:     in.CheckOut,
		PricingMode:  entity.PricingFixed,
		FixedPrice:   in.FixedPrice,
		Guests:       append([]string(nil), in.Guests...),
	}
	if len(in.NightlyRates) > 0 {
		rs.PricingMode = entity.PricingPerNight
		rs.NightlyRates = append([]decimal.Decimal(nil), in.NightlyRates...)
		rs.FixedPrice = decimal.Zero
	}
	if rs.FixedPrice.IsNegative() {
		return entity.RoomStay{}, fmt.Errorf("%w: precio negativo en habitación %s", domain.ErrInvalidInput, in.RoomNumber)
	}
	for _, n := range rs.NightlyRates {
		if n.IsNegative() {
			return entity.RoomStay{}, fmt.Errorf("%w: tarifa negativa en habitación %s", domain.ErrInvalidInput, in.RoomNumber)
		}
	}
	return rs, nil
}

func buildExtra(r *entity.Reservation, in ExtraInput) (entity.ExtraLine, error) {
	if strings.TrimSpace(in.Name) == "" {
		return entity.ExtraLine{}, fmt.Errorf("%w: el extra necesita nombre", domain.ErrInvalidInput)
	}
	if !in.Quantity.IsPositive() || in.UnitPrice.IsNegative() {
		return entity.ExtraLine{}, fmt.Errorf("%w: cantidad o precio del extra %s", domain.ErrInvalidInput, in.Name)
	}
	key := strings.TrimSpace(in.Key)
	if key == "" {
		key = uuid.NewString()
	}
	for _, e := range r.Extras {
		if e.Key == key {
			return entity.ExtraLine{}, fmt.Errorf("%w: extra %s", domain.ErrDuplicate, key)
		}
	}
	if in.RoomID != "" && roomIndexByID(r, in.RoomID) < 0 {
		return entity.ExtraLine{}, fmt.Errorf("%w: habitación %s", domain.ErrNotFound, in.RoomID)
	}
	return entity.ExtraLine{
		Key:       key,
		Name:      in.Name,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		VATRate:   in.VATRate,
		RoomID:    in.RoomID,
	}, nil
}

func roomIndexByID(r *entity.Reservation, id string) int {
	for i := range r.Rooms {
		if r.Rooms[i].ID == id {
			return i
		}
	}
	return -1
}

// UpdateRoomDates cambia las fechas de una habitación. Las habitaciones bloqueadas no se mueven.
// En tarificación por noche la lista de tarifas se ajusta al nuevo número de noches repitiendo la última.
func (uc *UseCase) UpdateRoomDates(ctx context.Context, actor, resID string, roomIndex int, checkIn, checkOut time.Time) (*entity.Reservation, error) {
	if !checkOut.After(checkIn) {
		return nil, domain.ErrInvalidDates
	}
	return uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		if roomIndex < 0 || roomIndex >= len(r.Rooms) {
			return fmt.Errorf("%w: habitación %d", domain.ErrNotFound, roomIndex)
		}
		rs := &r.Rooms[roomIndex]
		if rs.Locked {
			return fmt.Errorf("%w: la habitación %s está bloqueada", domain.ErrConflict, rs.RoomNumber)
		}
		if num, ok := calc.CoveredKeys(r)[calc.RoomKey(rs.ID)]; ok {
			return fmt.Errorf("%w: la habitación %s está en la factura %s; abónela primero", domain.ErrConflict, rs.RoomNumber, num)
		}
		if rs.CheckIn.Equal(checkIn) && rs.CheckOut.Equal(checkOut) {
			return ports.ErrNoChange
		}
		from := fmt.Sprintf("%s → %s", rs.CheckIn.Format("2006-01-02"), rs.CheckOut.Format("2006-01-02"))
		rs.CheckIn, rs.CheckOut = checkIn, checkOut
		if rs.PricingMode == entity.PricingPerNight {
			rs.NightlyRates = resizeRates(rs.NightlyRates, rs.Nights())
		}
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Room %s dates: %s to %s → %s", rs.RoomNumber, from,
			checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02")))
		return nil
	})
}

func resizeRates(rates []decimal.Decimal, nights int) []decimal.Decimal {
	if len(rates) == 0 || nights <= 0 {
		return rates
	}
	if len(rates) >= nights {
		return rates[:nights]
	}
	last := rates[len(rates)-1]
	for len(rates) < nights {
		rates = append(rates, last)
	}
	return rates
}

// AddExtra agrega un cargo.
func (uc *UseCase) AddExtra(ctx context.Context, actor, resID string, in ExtraInput) (*entity.ExtraLine, error) {
	var added entity.ExtraLine
	_, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		e, err := buildExtra(r, in)
		if err != nil {
			return err
		}
		r.Extras = append(r.Extras, e)
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Extra %s added: %s × %s", e.Name,
			e.Quantity.String(), calc.FormatMoney(uc.currency, e.UnitPrice)))
		added = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// RemoveExtra elimina un cargo que ninguna factura vigente cubre.
func (uc *UseCase) RemoveExtra(ctx context.Context, actor, resID, key string) error {
	_, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		idx := -1
		for i := range r.Extras {
			if r.Extras[i].Key == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: extra %s", domain.ErrNotFound, key)
		}
		if num, ok := calc.CoveredKeys(r)[calc.ExtraKey(key)]; ok {
			return fmt.Errorf("%w: el extra está en la factura %s; abónela primero", domain.ErrConflict, num)
		}
		name := r.Extras[idx].Name
		r.Extras = append(r.Extras[:idx], r.Extras[idx+1:]...)
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Extra %s removed", name))
		return nil
	})
	return err
}

// SetBillingRecipient cambia el destinatario vivo. Las facturas emitidas conservan su snapshot.
// Con save=true el destinatario también se guarda en el directorio de perfiles.
func (uc *UseCase) SetBillingRecipient(ctx context.Context, actor, resID string, recipient entity.Recipient, save bool) (*entity.Reservation, error) {
	if err := recipient.Validate(); err != nil {
		return nil, err
	}
	res, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		rc := recipient
		r.Recipient = &rc
		r.Log(uc.clock.Now().UTC(), actor, "Billing recipient set to "+recipient.DisplayName())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if save && uc.profiles != nil {
		now := uc.clock.Now().UTC()
		p := &entity.Profile{ID: uuid.NewString(), Recipient: recipient, CreatedAt: now, UpdatedAt: now}
		if err := uc.profiles.Upsert(ctx, p); err != nil {
			return res, fmt.Errorf("guardar perfil: %w", err)
		}
	}
	return res, nil
}

// SearchProfiles autocompletado de destinatarios.
func (uc *UseCase) SearchProfiles(ctx context.Context, term string, limit int) ([]*entity.Profile, error) {
	if uc.profiles == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return uc.profiles.Search(ctx, term, limit)
}

// Get devuelve una copia de la reserva.
func (uc *UseCase) Get(ctx context.Context, resID string) (*entity.Reservation, error) {
	return uc.store.Get(ctx, resID)
}

// List todas las reservas.
func (uc *UseCase) List(ctx context.Context) ([]*entity.Reservation, error) {
	return uc.store.List(ctx)
}
