package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

// InvoiceUseCase consulta facturas y genera su PDF.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
}

// NewInvoiceUseCase construye el caso de uso inyectando sus dependencias.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator) *InvoiceUseCase {
	return &InvoiceUseCase{invoiceRepo: invoiceRepo, generator: generator}
}

// GetByID obtiene la factura.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewInvoiceResponse(inv)
	return &out, nil
}

// DownloadInvoicePDF genera el PDF de la factura.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrConflict         si la factura sigue en borrador.
func (uc *InvoiceUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv.State != entity.DocumentStateSettled {
		return nil, "", fmt.Errorf("%w: la factura %s no está liquidada", domain.ErrConflict, inv.InvoiceNumber)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("factura_%s.pdf", inv.InvoiceNumber)
	return pdfBytes, filename, nil
}
