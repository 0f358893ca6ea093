package billing

import (
	"context"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

// InvoiceDocument todo lo que necesita un renderizador para representar una factura, proforma o
// nota de crédito sin volver a consultar el store.
type InvoiceDocument struct {
	Property   entity.Property
	Invoice    entity.Invoice
	BookingRef string
	Currency   string
	Payments   []entity.Payment // pagos vinculados al documento
	IssuedBy   string           // agente o "system"
}

// InvoicePDFGenerator genera la representación gráfica del documento.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// UBLBuilder genera el XML UBL 2.1 (Peppol BIS Billing 3.0) y su huella canónica SHA-256 en hex.
type UBLBuilder interface {
	BuildUBL(ctx context.Context, doc InvoiceDocument) (xml []byte, digest string, err error)
}
