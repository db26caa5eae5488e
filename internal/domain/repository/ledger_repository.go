package repository

import (
	"context"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LedgerRepository define el puerto del historial de deuda de clientes (solo inserción).
type LedgerRepository interface {
	Create(ctx context.Context, tx *entity.LedgerTransaction) error
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.LedgerTransaction, error)
	// SumByCustomer reconstruye la deuda sumando todos los deltas.
	SumByCustomer(ctx context.Context, customerID string) (decimal.Decimal, error)
}

// PaymentRepository define el puerto de pagos y abonos (solo inserción).
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Payment, error)
	CreateDebtPayment(ctx context.Context, dp *entity.DebtPayment) error
	ListDebtPaymentsBySale(ctx context.Context, saleID string) ([]*entity.DebtPayment, error)
}
