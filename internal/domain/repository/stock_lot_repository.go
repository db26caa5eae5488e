package repository

import (
	"context"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
)

// StockLotRepository define el puerto para los lotes de inventario.
type StockLotRepository interface {
	Create(ctx context.Context, lot *entity.StockLot) error
	// AvailableQuantity suma las cantidades de los lotes en estado available.
	AvailableQuantity(ctx context.Context, productID string) (int64, error)
	// ListAvailableForUpdate devuelve los lotes available del producto en orden FEFO
	// (vencimiento ascendente, sin vencimiento al final) y los bloquea hasta el fin de la transacción.
	ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.StockLot, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockLot, error)
	UpdateQuantity(ctx context.Context, lotID string, quantity int64) error
	Delete(ctx context.Context, lotID string) error
	// Restore suma quantity al lote; si ya no existe lo recrea con los datos dados.
	Restore(ctx context.Context, lot *entity.StockLot) error

	CreateAllocation(ctx context.Context, alloc *entity.SaleAllocation) error
	ListAllocationsBySale(ctx context.Context, saleID string) ([]*entity.SaleAllocation, error)
}
