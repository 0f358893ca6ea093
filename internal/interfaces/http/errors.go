package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/frontdesk-api/internal/application/dto"
	"github.com/jhoicas/frontdesk-api/internal/domain"
)

// respondError traduce un error de dominio a código HTTP y ErrorResponse.
// El orden importa: los errores concretos envuelven a los genéricos.
func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code = fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrEmptySelection):
		status, code = fiber.StatusBadRequest, "EMPTY_SELECTION"
	case errors.Is(err, domain.ErrItemsNotUninvoiced):
		status, code = fiber.StatusBadRequest, "ITEMS_NOT_UNINVOICED"
	case errors.Is(err, domain.ErrInvalidAmount):
		status, code = fiber.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, domain.ErrInvalidDates):
		status, code = fiber.StatusBadRequest, "INVALID_DATES"
	case errors.Is(err, domain.ErrInvalidStatus):
		status, code = fiber.StatusBadRequest, "INVALID_STATUS"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvoiceCredited):
		status, code = fiber.StatusConflict, "INVOICE_CREDITED"
	case errors.Is(err, domain.ErrNotProforma):
		status, code = fiber.StatusConflict, "NOT_PROFORMA"
	case errors.Is(err, domain.ErrProformaState):
		status, code = fiber.StatusConflict, "PROFORMA_STATE"
	case errors.Is(err, domain.ErrProformaNotAmenable):
		status, code = fiber.StatusConflict, "PROFORMA_NOT_AMENABLE"
	case errors.Is(err, domain.ErrCreditNoteImmutable):
		status, code = fiber.StatusConflict, "CREDIT_NOTE_IMMUTABLE"
	case errors.Is(err, domain.ErrPaymentState):
		status, code = fiber.StatusConflict, "PAYMENT_STATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrCommitFailed):
		status, code = fiber.StatusServiceUnavailable, "COMMIT_FAILED"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// roomIndex lee :index como entero no negativo.
func roomIndex(c *fiber.Ctx) (int, error) {
	idx, err := c.ParamsInt("index", -1)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("%w: índice de habitación %q", domain.ErrInvalidInput, c.Params("index"))
	}
	return idx, nil
}
