package repository

import (
	"context"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CustomerRepository define el puerto de persistencia de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetForUpdate obtiene el cliente y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
	// AdjustDebt incrementa atómicamente current_debt en delta y devuelve el nuevo saldo.
	AdjustDebt(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	// SetDebt fija current_debt en un valor exacto.
	SetDebt(ctx context.Context, id string, debt decimal.Decimal) error
}
