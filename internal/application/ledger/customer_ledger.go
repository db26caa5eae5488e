package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/application/ports"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

// CustomerLedger es el único escritor de la deuda de los clientes. Cada cambio queda como
// LedgerTransaction y el saldo de Customer.CurrentDebt se incrementa atómicamente en la
// misma transacción, así la suma del historial siempre reconstruye el saldo.
type CustomerLedger struct {
	txRunner  ports.TxRunner
	customers repository.CustomerRepository
	ledger    repository.LedgerRepository
}

// NewCustomerLedger construye el caso de uso.
func NewCustomerLedger(txRunner ports.TxRunner, customers repository.CustomerRepository, ledger repository.LedgerRepository) *CustomerLedger {
	return &CustomerLedger{txRunner: txRunner, customers: customers, ledger: ledger}
}

// Entry describe un cambio de deuda.
type Entry struct {
	CustomerID string
	Delta      decimal.Decimal
	Reason     string
	SaleID     string
	PaymentID  string
	UserID     string
}

// GetDebtAndLimit devuelve la deuda actual y el cupo del cliente.
func (l *CustomerLedger) GetDebtAndLimit(ctx context.Context, customerID string) (debt, limit decimal.Decimal, err error) {
	c, err := l.customers.GetByID(ctx, customerID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return c.CurrentDebt, c.CreditLimit, nil
}

// AdjustDebtInTx suma e.Delta a la deuda (sin piso ni techo) y registra el movimiento.
// Un delta en cero no deja registro. Retorna el saldo resultante.
func (l *CustomerLedger) AdjustDebtInTx(ctx context.Context, repos repository.TxRepos, e Entry, now time.Time) (decimal.Decimal, error) {
	if e.Delta.IsZero() {
		c, err := repos.Customers.GetByID(ctx, e.CustomerID)
		if err != nil {
			return decimal.Zero, err
		}
		return c.CurrentDebt, nil
	}
	balance, err := repos.Customers.AdjustDebt(ctx, e.CustomerID, e.Delta)
	if err != nil {
		return decimal.Zero, err
	}
	err = repos.Ledger.Create(ctx, &entity.LedgerTransaction{
		ID:           uuid.New().String(),
		CustomerID:   e.CustomerID,
		Delta:        e.Delta,
		Reason:       e.Reason,
		SaleID:       e.SaleID,
		PaymentID:    e.PaymentID,
		BalanceAfter: balance,
		CreatedBy:    e.UserID,
		CreatedAt:    now,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// ZeroDebtInTx deja la deuda en cero registrando un movimiento de -deudaActual.
// Retorna la deuda que había antes.
func (l *CustomerLedger) ZeroDebtInTx(ctx context.Context, repos repository.TxRepos, e Entry, now time.Time) (decimal.Decimal, error) {
	c, err := repos.Customers.GetByID(ctx, e.CustomerID)
	if err != nil {
		return decimal.Zero, err
	}
	e.Delta = c.CurrentDebt.Neg()
	if _, err := l.AdjustDebtInTx(ctx, repos, e, now); err != nil {
		return decimal.Zero, err
	}
	return c.CurrentDebt, nil
}

// Transactions lista el historial de deuda del cliente, del más reciente al más antiguo.
func (l *CustomerLedger) Transactions(ctx context.Context, customerID string, page dto.PageRequest) ([]dto.LedgerTransactionResponse, error) {
	if _, err := l.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := l.ledger.ListByCustomer(ctx, customerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.NewLedgerTransactionResponse(t))
	}
	return out, nil
}

// Reconcile compara la deuda almacenada con la suma del historial.
// Con fix=true y diferencia distinta de cero, fija la deuda al valor reconstruido.
func (l *CustomerLedger) Reconcile(ctx context.Context, customerID string, fix bool) (*dto.ReconcileResponse, error) {
	var out dto.ReconcileResponse
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		c, err := repos.Customers.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		derived, err := repos.Ledger.SumByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		out = dto.ReconcileResponse{
			CustomerID: customerID,
			Cached:     c.CurrentDebt,
			Derived:    derived,
			Drift:      c.CurrentDebt.Sub(derived),
		}
		if fix && !out.Drift.IsZero() {
			if err := repos.Customers.SetDebt(ctx, customerID, derived); err != nil {
				return err
			}
			out.Fixed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
