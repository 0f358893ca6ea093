package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("agente no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrCommitFailed la persistencia rechazó la mutación; el estado en memoria no cambió.
	ErrCommitFailed = errors.New("no se pudo confirmar la mutación")
)

// Errores de validación. Envuelven ErrInvalidInput o ErrConflict para que el caller
// pueda distinguir tanto la clase como la precondición concreta con errors.Is.
var (
	ErrEmptySelection      = fmt.Errorf("%w: selección de ítems vacía", ErrInvalidInput)
	ErrItemsNotUninvoiced  = fmt.Errorf("%w: hay ítems seleccionados que ya están facturados o no existen", ErrInvalidInput)
	ErrInvalidAmount       = fmt.Errorf("%w: el importe debe ser mayor que cero", ErrInvalidInput)
	ErrInvalidDates        = fmt.Errorf("%w: la fecha de salida debe ser posterior a la de entrada", ErrInvalidInput)
	ErrInvalidStatus       = fmt.Errorf("%w: estado desconocido", ErrInvalidInput)
	ErrInvoiceCredited     = fmt.Errorf("%w: la factura ya está abonada", ErrConflict)
	ErrNotProforma         = fmt.Errorf("%w: la operación solo aplica a proformas", ErrConflict)
	ErrProformaState       = fmt.Errorf("%w: la proforma no está en estado created", ErrConflict)
	ErrProformaNotAmenable = fmt.Errorf("%w: las proformas se finalizan o eliminan, no se enmiendan", ErrConflict)
	ErrCreditNoteImmutable = fmt.Errorf("%w: una nota de crédito no se abona ni se enmienda", ErrConflict)
	ErrPaymentState        = fmt.Errorf("%w: estado de pago no permite la operación", ErrConflict)
	ErrEmailAlreadyExists  = fmt.Errorf("%w: el email ya está registrado", ErrDuplicate)
)
