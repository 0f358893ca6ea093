package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/frontdesk-api/internal/application/billing"
	"github.com/jhoicas/frontdesk-api/internal/application/dto"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// InvoiceHandler maneja la vista de facturación y el ciclo de vida de facturas (protegido).
type InvoiceHandler struct {
	uc       *billing.InvoiceUseCase
	docs     *billing.DocumentUseCase
	currency string
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, docs *billing.DocumentUseCase, currency string) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, docs: docs, currency: currency}
}

// Overview godoc
// @Summary      Vista de facturación
// @Description  Totales de la reserva y cada ítem facturable con la factura que lo cubre.
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.BillingOverviewResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/billing [get]
func (h *InvoiceHandler) Overview(c *fiber.Ctx) error {
	resID := c.Params("id")
	ov, err := h.uc.Overview(c.Context(), resID)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.BillingOverviewResponse{
		ReservationID: resID,
		Totals:        dto.FromSummary(ov.Summary, h.currency),
		Items:         make([]dto.BillableItemResponse, 0, len(ov.Items)),
	}
	for _, it := range ov.Items {
		out.Items = append(out.Items, dto.BillableItemResponse{
			Key:       it.Key,
			Label:     it.Label,
			Detail:    it.Detail,
			Amount:    it.Amount,
			VATRate:   it.VATRate,
			InvoiceNo: it.InvoiceNumber,
		})
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Emitir factura o proforma
// @Description  Los ítems seleccionados deben estar todos sin facturar.
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la reserva"
// @Param        body  body  dto.CreateInvoiceRequest  true  "claves de ítems, tipo, destinatario"
// @Success      201   {object}  entity.Invoice
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.CreateInvoice(c.Context(), GetAgentID(c), c.Params("id"), billing.CreateInvoiceInput{
		Keys:           in.Keys,
		Type:           entity.InvoiceType(in.Type),
		Recipient:      in.Recipient,
		LinkPaymentIDs: in.LinkPaymentIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// Quick factura todo lo pendiente y vincula los pagos completados sin factura.
// POST /api/reservations/:id/invoices/quick
func (h *InvoiceHandler) Quick(c *fiber.Ctx) error {
	inv, created, err := h.uc.QuickInvoice(c.Context(), GetAgentID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(dto.QuickInvoiceResponse{Invoice: *inv, Created: created})
}

// Credit emite la nota de crédito de una factura (solo manager).
// POST /api/reservations/:id/invoices/:invoiceId/credit
func (h *InvoiceHandler) Credit(c *fiber.Ctx) error {
	cn, err := h.uc.CreditInvoice(c.Context(), GetAgentID(c), c.Params("id"), c.Params("invoiceId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cn)
}

// Amend abona la factura y emite una nueva con los mismos ítems (solo manager).
// POST /api/reservations/:id/invoices/:invoiceId/amend
func (h *InvoiceHandler) Amend(c *fiber.Ctx) error {
	var in dto.AmendInvoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	res, err := h.uc.AmendInvoice(c.Context(), GetAgentID(c), c.Params("id"), c.Params("invoiceId"), in.Recipient)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AmendInvoiceResponse{
		Credited:    res.Credited,
		CreditNote:  res.CreditNote,
		Replacement: res.Replacement,
	})
}

// Finalize convierte una proforma en factura estándar.
// POST /api/reservations/:id/invoices/:invoiceId/finalize
func (h *InvoiceHandler) Finalize(c *fiber.Ctx) error {
	inv, err := h.uc.FinalizeProforma(c.Context(), GetAgentID(c), c.Params("id"), c.Params("invoiceId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// Delete elimina una proforma en estado created (solo manager).
// DELETE /api/reservations/:id/invoices/:invoiceId
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteProforma(c.Context(), GetAgentID(c), c.Params("id"), c.Params("invoiceId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Documentos ───────────────────────────────────────────────────────────────

// PDF godoc
// @Summary      Descargar PDF de la factura
// @Tags         billing
// @Security     Bearer
// @Produce      application/pdf
// @Param        id         path  string  true  "ID de la reserva"
// @Param        invoiceId  path  string  true  "ID o número de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/invoices/{invoiceId}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.docs.RenderPDF(c.Context(), c.Params("id"), c.Params("invoiceId"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// UBL exporta la factura en UBL 2.1. Con ?format=xml devuelve el XML tal cual.
// GET /api/reservations/:id/invoices/:invoiceId/ubl
func (h *InvoiceHandler) UBL(c *fiber.Ctx) error {
	data, digest, err := h.docs.ExportUBL(c.Context(), c.Params("id"), c.Params("invoiceId"))
	if err != nil {
		return respondError(c, err)
	}
	if c.Query("format") == "xml" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
		c.Set("X-Content-Digest", "sha-256="+digest)
		return c.Send(data)
	}
	return c.JSON(dto.UBLExportResponse{
		Invoice: c.Params("invoiceId"),
		Digest:  digest,
		XML:     string(data),
	})
}
