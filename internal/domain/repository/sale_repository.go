package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas y sus líneas.
type SaleRepository interface {
	// Create persiste la cabecera y las líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// Update reescribe los campos mutables: total, paid_amount, payment_status, state y anulación.
	Update(ctx context.Context, sale *entity.Sale) error
	// ListOverdueCandidates ventas no contado en unpaid/partial creadas antes de cutoff.
	ListOverdueCandidates(ctx context.Context, cutoff time.Time) ([]*entity.Sale, error)
}

// InvoiceNumberGenerator entrega números de factura consecutivos.
type InvoiceNumberGenerator interface {
	Next(ctx context.Context) (string, error)
}
