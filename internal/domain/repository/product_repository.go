package repository

import (
	"context"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia del catálogo.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// UpdatePurchasePrice se usa en el ingreso de mercancía (costo promedio ponderado).
	UpdatePurchasePrice(ctx context.Context, productID string, price decimal.Decimal) error
}
