package repository

import (
	"context"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia de las facturas (fotografía de la venta).
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error)
	// Update reescribe los campos financieros, estado y anulación.
	Update(ctx context.Context, invoice *entity.Invoice) error
}
