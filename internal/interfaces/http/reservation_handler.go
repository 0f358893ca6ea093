package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/frontdesk-api/internal/application/dto"
	"github.com/jhoicas/frontdesk-api/internal/application/reservation"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// ReservationHandler maneja las operaciones interactivas sobre reservas (protegido).
type ReservationHandler struct {
	uc       *reservation.UseCase
	currency string
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *reservation.UseCase, currency string) *ReservationHandler {
	return &ReservationHandler{uc: uc, currency: currency}
}

func (h *ReservationHandler) ok(c *fiber.Ctx, r *entity.Reservation) error {
	return c.JSON(dto.FromReservation(r, h.currency))
}

func (h *ReservationHandler) statusChange(c *fiber.Ctx, sc *reservation.StatusChange) error {
	return c.JSON(dto.StatusChangeResponse{
		Reservation: dto.FromReservation(sc.Reservation, h.currency),
		Warning:     sc.Warning,
	})
}

// Create godoc
// @Summary      Crear reserva
// @Description  Alta de reserva con habitaciones y extras. La referencia sale de la secuencia de reservas.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReservationRequest  true  "titular, habitaciones, extras"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := reservation.CreateInput{
		Booker:       in.Booker,
		Recipient:    in.Recipient,
		Status:       entity.Status(in.Status),
		OptionExpiry: in.OptionExpiry,
	}
	for _, rr := range in.Rooms {
		input.Rooms = append(input.Rooms, reservation.RoomInput{
			RoomNumber:   rr.RoomNumber,
			RoomTypeID:   rr.RoomTypeID,
			RatePlanID:   rr.RatePlanID,
			Status:       entity.Status(rr.Status),
			OptionExpiry: rr.OptionExpiry,
			CheckIn:      rr.CheckIn,
			CheckOut:     rr.CheckOut,
			FixedPrice:   rr.FixedPrice,
			NightlyRates: rr.NightlyRates,
			Guests:       rr.Guests,
		})
	}
	for _, er := range in.Extras {
		input.Extras = append(input.Extras, extraInput(er))
	}
	r, err := h.uc.CreateReservation(c.Context(), GetAgentID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromReservation(r, h.currency))
}

func extraInput(er dto.ExtraRequest) reservation.ExtraInput {
	return reservation.ExtraInput{
		Key:       er.Key,
		Name:      er.Name,
		Quantity:  er.Quantity,
		UnitPrice: er.UnitPrice,
		VATRate:   er.VATRate,
		RoomID:    er.RoomID,
	}
}

// List godoc
// @Summary      Listar reservas
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReservationListItem
// @Router       /api/reservations [get]
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReservationList(list))
}

// GetByID GET /api/reservations/:id
func (h *ReservationHandler) GetByID(c *fiber.Ctx) error {
	r, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return h.ok(c, r)
}

// ── Estados ──────────────────────────────────────────────────────────────────

// SetStatus godoc
// @Summary      Cambiar estado de la reserva
// @Description  Propaga el estado a todas las habitaciones. Al pasar a checked-out devuelve el aviso de facturación pendiente.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la reserva"
// @Param        body  body  dto.SetStatusRequest  true  "estado"
// @Success      200   {object}  dto.StatusChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/status [put]
func (h *ReservationHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sc, err := h.uc.SetReservationStatus(c.Context(), GetAgentID(c), c.Params("id"), entity.Status(in.Status))
	if err != nil {
		return respondError(c, err)
	}
	return h.statusChange(c, sc)
}

// SetRoomStatus PUT /api/reservations/:id/rooms/:index/status
func (h *ReservationHandler) SetRoomStatus(c *fiber.Ctx) error {
	idx, err := roomIndex(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.SetStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sc, err := h.uc.SetRoomStatus(c.Context(), GetAgentID(c), c.Params("id"), idx, entity.Status(in.Status))
	if err != nil {
		return respondError(c, err)
	}
	return h.statusChange(c, sc)
}

// SetRoomDates PUT /api/reservations/:id/rooms/:index/dates
func (h *ReservationHandler) SetRoomDates(c *fiber.Ctx) error {
	idx, err := roomIndex(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.SetDatesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.uc.UpdateRoomDates(c.Context(), GetAgentID(c), c.Params("id"), idx, in.CheckIn, in.CheckOut)
	if err != nil {
		return respondError(c, err)
	}
	return h.ok(c, r)
}

// ── Opciones ─────────────────────────────────────────────────────────────────

// SetOptionExpiry PUT /api/reservations/:id/option-expiry
func (h *ReservationHandler) SetOptionExpiry(c *fiber.Ctx) error {
	var in dto.SetOptionExpiryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.uc.SetOptionExpiry(c.Context(), GetAgentID(c), c.Params("id"), in.OptionExpiry)
	if err != nil {
		return respondError(c, err)
	}
	return h.ok(c, r)
}

// SetRoomOptionExpiry PUT /api/reservations/:id/rooms/:index/option-expiry
func (h *ReservationHandler) SetRoomOptionExpiry(c *fiber.Ctx) error {
	idx, err := roomIndex(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.SetOptionExpiryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.uc.SetRoomOptionExpiry(c.Context(), GetAgentID(c), c.Params("id"), idx, in.OptionExpiry)
	if err != nil {
		return respondError(c, err)
	}
	return h.ok(c, r)
}

// ── Extras y destinatario ────────────────────────────────────────────────────

// AddExtra POST /api/reservations/:id/extras
func (h *ReservationHandler) AddExtra(c *fiber.Ctx) error {
	var in dto.ExtraRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	e, err := h.uc.AddExtra(c.Context(), GetAgentID(c), c.Params("id"), extraInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

// RemoveExtra DELETE /api/reservations/:id/extras/:key
func (h *ReservationHandler) RemoveExtra(c *fiber.Ctx) error {
	if err := h.uc.RemoveExtra(c.Context(), GetAgentID(c), c.Params("id"), c.Params("key")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetRecipient godoc
// @Summary      Fijar destinatario de facturación
// @Description  Las facturas ya emitidas conservan su snapshot. save_profile guarda el destinatario en el directorio.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la reserva"
// @Param        body  body  dto.SetRecipientRequest  true  "destinatario"
// @Success      200   {object}  dto.ReservationResponse
// @Router       /api/reservations/{id}/recipient [put]
func (h *ReservationHandler) SetRecipient(c *fiber.Ctx) error {
	var in dto.SetRecipientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.uc.SetBillingRecipient(c.Context(), GetAgentID(c), c.Params("id"), in.Recipient, in.SaveProfile)
	if err != nil {
		return respondError(c, err)
	}
	return h.ok(c, r)
}

// SearchProfiles GET /api/profiles?q=...&limit=...
func (h *ReservationHandler) SearchProfiles(c *fiber.Ctx) error {
	list, err := h.uc.SearchProfiles(c.Context(), c.Query("q"), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromProfiles(list))
}

// ── Recordatorios ────────────────────────────────────────────────────────────

// AddReminder POST /api/reservations/:id/reminders
func (h *ReservationHandler) AddReminder(c *fiber.Ctx) error {
	var in dto.ReminderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rem, err := h.uc.AddReminder(c.Context(), GetAgentID(c), c.Params("id"), in.Message, in.DueAt)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rem)
}

// AcknowledgeReminder POST /api/reservations/:id/reminders/:reminderId/ack
func (h *ReservationHandler) AcknowledgeReminder(c *fiber.Ctx) error {
	rem, err := h.uc.AcknowledgeReminder(c.Context(), GetAgentID(c), c.Params("id"), c.Params("reminderId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rem)
}
