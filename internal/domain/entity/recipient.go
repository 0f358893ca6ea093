package entity

import (
	"fmt"
	"strings"

	"github.com/jhoicas/frontdesk-api/internal/domain"
)

// Tipos de destinatario de facturación.
const (
	RecipientIndividual = "individual"
	RecipientCompany    = "company"
)

// Recipient destinatario de facturación. Las facturas guardan una copia (snapshot),
// nunca una referencia al destinatario vivo de la reserva.
type Recipient struct {
	Kind      string `json:"kind"` // individual | company
	Name      string `json:"name"`
	Company   string `json:"company,omitempty"`
	VATNumber string `json:"vat_number,omitempty"`
	PeppolID  string `json:"peppol_id,omitempty"` // ej. "0208:0123456789"
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"` // ISO 3166-1 alpha-2
	Email     string `json:"email,omitempty"`
}

// DisplayName nombre a mostrar en documentos.
func (r Recipient) DisplayName() string {
	if r.Kind == RecipientCompany && r.Company != "" {
		return r.Company
	}
	return r.Name
}

// Validate exige nombre a un particular y razón social a una empresa.
func (r Recipient) Validate() error {
	switch r.Kind {
	case RecipientIndividual:
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: el destinatario necesita nombre", domain.ErrInvalidInput)
		}
	case RecipientCompany:
		if strings.TrimSpace(r.Company) == "" {
			return fmt.Errorf("%w: el destinatario empresa necesita razón social", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: tipo de destinatario %q", domain.ErrInvalidInput, r.Kind)
	}
	return nil
}
