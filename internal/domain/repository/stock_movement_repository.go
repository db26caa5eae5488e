package repository

import (
	"context"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de la bitácora de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
