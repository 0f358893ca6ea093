package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/application/dto"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// PaymentHandler maneja el libro de pagos de una reserva (protegido).
type PaymentHandler struct {
	uc *billing.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar pago
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la reserva"
// @Param        body  body  dto.RecordPaymentRequest  true  "importe, método, estado"
// @Success      201   {object}  entity.Payment
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/payments [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := billing.RecordPaymentInput{
		Amount: in.Amount,
		Method: in.Method,
		Status: entity.PaymentStatus(in.Status),
	}
	if in.Date != nil {
		input.Date = *in.Date
	}
	p, err := h.uc.RecordPayment(c.Context(), GetAgentID(c), c.Params("id"), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Confirm POST /api/reservations/:id/payments/:paymentId/confirm
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	p, err := h.uc.ConfirmPayment(c.Context(), GetAgentID(c), c.Params("id"), c.Params("paymentId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// Link vincula el pago a una factura; con invoice_number vacío lo desvincula.
// PUT /api/reservations/:id/payments/:paymentId/link
func (h *PaymentHandler) Link(c *fiber.Ctx) error {
	var in dto.LinkPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	actor, resID, paymentID := GetAgentID(c), c.Params("id"), c.Params("paymentId")
	if in.InvoiceNumber == "" {
		if err := h.uc.UnlinkPayment(c.Context(), actor, resID, paymentID); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
	p, err := h.uc.LinkPayment(c.Context(), actor, resID, paymentID, in.InvoiceNumber)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// Delete elimina un pago (solo manager).
// DELETE /api/reservations/:id/payments/:paymentId
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeletePayment(c.Context(), GetAgentID(c), c.Params("id"), c.Params("paymentId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
