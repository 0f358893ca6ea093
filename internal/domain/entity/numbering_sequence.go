package entity

import "time"

// SequenceKind identifica un contador de numeración.
type SequenceKind string

// Contadores. Facturas y notas de crédito comparten SequenceInvoice (requisito legal: sin huecos).
const (
	SequenceInvoice  SequenceKind = "invoice"
	SequenceProforma SequenceKind = "proforma"
	SequenceBooking  SequenceKind = "booking"
)

// NumberingSequence configuración y estado de un contador de la propiedad.
type NumberingSequence struct {
	Kind        SequenceKind
	Prefix      string // ej. "INV", "PF", "BK"
	Separator   string // ej. "-"
	Padding     int    // dígitos con ceros a la izquierda
	IncludeYear bool
	YearlyReset bool
	Next        int64 // próximo valor a emitir
	LastYear    int   // año de la última emisión (0 = nunca)
	UpdatedAt   time.Time
}
