package billing

import (
	"context"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
)

// InvoicePDFGenerator puerto de salida para la representación impresa de la factura.
// El adaptador (maroto) solo recibe la fotografía; no consulta repositorios.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}
