package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/frontdesk-api/internal/application/ports"
	"github.com/jhoicas/frontdesk-api/internal/domain"
	calc "github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// RecordPaymentInput datos de un pago nuevo.
type RecordPaymentInput struct {
	Amount decimal.Decimal
	Method string
	Status entity.PaymentStatus // completed por defecto
	Date   time.Time            // cero = ahora
}

// PaymentUseCase libro de pagos de la reserva y su vinculación con facturas.
type PaymentUseCase struct {
	store    ports.ReservationStore
	clock    clockwork.Clock
	currency string
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(store ports.ReservationStore, clock clockwork.Clock, currency string) *PaymentUseCase {
	return &PaymentUseCase{store: store, clock: clock, currency: currency}
}

// RecordPayment agrega un pago. El importe debe ser mayor que cero.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, actor, resID string, in RecordPaymentInput) (*entity.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if in.Status == "" {
		in.Status = entity.PaymentCompleted
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: estado de pago %q", domain.ErrInvalidInput, in.Status)
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = "cash"
	}

	var p entity.Payment
	_, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		now := uc.clock.Now().UTC()
		date := in.Date
		if date.IsZero() {
			date = now
		}
		p = entity.Payment{
			ID:     uuid.NewString(),
			Date:   date,
			Amount: in.Amount,
			Method: method,
			Status: in.Status,
		}
		r.Payments = append(r.Payments, p)
		r.Log(now, actor, fmt.Sprintf("Payment of %s recorded (%s, %s)", calc.FormatMoney(uc.currency, p.Amount), p.Method, p.Status))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ConfirmPayment pasa un pago pending o request-sent a completed.
func (uc *PaymentUseCase) ConfirmPayment(ctx context.Context, actor, resID, paymentID string) (*entity.Payment, error) {
	var p entity.Payment
	_, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		idx := r.PaymentByID(paymentID)
		if idx < 0 {
			return fmt.Errorf("%w: pago %s", domain.ErrNotFound, paymentID)
		}
		switch r.Payments[idx].Status {
		case entity.PaymentPending, entity.PaymentRequestSent:
		default:
			return fmt.Errorf("%w: el pago %s ya está %s", domain.ErrPaymentState, paymentID, r.Payments[idx].Status)
		}
		r.Payments[idx].Status = entity.PaymentCompleted
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Payment of %s confirmed",
			calc.FormatMoney(uc.currency, r.Payments[idx].Amount)))
		p = r.Payments[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LinkPayment vincula un pago completado a una factura estándar vigente. Un vínculo previo se
// elimina en ambos lados antes de crear el nuevo, de modo que el pago nunca figura en dos facturas.
func (uc *PaymentUseCase) LinkPayment(ctx context.Context, actor, resID, paymentID, invoiceNumber string) (*entity.Payment, error) {
	var p entity.Payment
	_, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		invIdx := r.InvoiceByNumber(invoiceNumber)
		if invIdx < 0 {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceNumber)
		}
		inv := r.Invoices[invIdx]
		if inv.Type != entity.InvoiceStandard || inv.Status != entity.InvoiceCreated {
			return fmt.Errorf("%w: solo se vinculan pagos a facturas estándar vigentes (%s es %s/%s)",
				domain.ErrConflict, inv.Number, inv.Type, inv.Status)
		}
		pidx := r.PaymentByID(paymentID)
		if pidx >= 0 && r.Payments[pidx].LinkedInvoice == invoiceNumber && inv.HasPayment(paymentID) {
			p = r.Payments[pidx]
			return ports.ErrNoChange
		}
		if err := linkCompleted(r, paymentID, invIdx); err != nil {
			return err
		}
		pidx = r.PaymentByID(paymentID)
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Payment of %s linked to invoice %s",
			calc.FormatMoney(uc.currency, r.Payments[pidx].Amount), invoiceNumber))
		p = r.Payments[pidx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UnlinkPayment quita el vínculo del pago, si lo tiene.
func (uc *PaymentUseCase) UnlinkPayment(ctx context.Context, actor, resID, paymentID string) error {
	_, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		idx := r.PaymentByID(paymentID)
		if idx < 0 {
			return fmt.Errorf("%w: pago %s", domain.ErrNotFound, paymentID)
		}
		old := unlinkPayment(r, idx)
		if old == "" {
			return ports.ErrNoChange
		}
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Payment unlinked from invoice %s", old))
		return nil
	})
	return err
}

// DeletePayment elimina el pago. No toca otros registros: si la factura lo listaba, la referencia
// queda colgando hasta que se vuelva a vincular o se abone la factura.
func (uc *PaymentUseCase) DeletePayment(ctx context.Context, actor, resID, paymentID string) error {
	_, err := uc.store.Update(ctx, resID, func(r *entity.Reservation) error {
		idx := r.PaymentByID(paymentID)
		if idx < 0 {
			return fmt.Errorf("%w: pago %s", domain.ErrNotFound, paymentID)
		}
		amount := r.Payments[idx].Amount
		r.Payments = append(r.Payments[:idx], r.Payments[idx+1:]...)
		r.Log(uc.clock.Now().UTC(), actor, fmt.Sprintf("Payment of %s deleted", calc.FormatMoney(uc.currency, amount)))
		return nil
	})
	return err
}
