package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.LedgerRepository   = (*LedgerRepo)(nil)
	_ repository.PaymentRepository  = (*PaymentRepo)(nil)
)

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ h handle }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.customers[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.customers[c.ID] = copyCustomer(c)
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.h.read(func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = copyCustomer(c)
		return nil
	})
	return out, err
}

// GetForUpdate en memoria el bloqueo lo da la transacción serializada.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *CustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	err := r.h.read(func(st *state) error {
		all := make([]*entity.Customer, 0, len(st.customers))
		for _, c := range st.customers {
			all = append(all, c)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].Name != all[j].Name {
				return all[i].Name < all[j].Name
			}
			return all[i].ID < all[j].ID
		})
		from, to := page(len(all), limit, offset)
		for _, c := range all[from:to] {
			out = append(out, copyCustomer(c))
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) AdjustDebt(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.h.write(func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		c.CurrentDebt = c.CurrentDebt.Add(delta)
		balance = c.CurrentDebt
		return nil
	})
	return balance, err
}

func (r *CustomerRepo) SetDebt(_ context.Context, id string, debt decimal.Decimal) error {
	return r.h.write(func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		c.CurrentDebt = debt
		return nil
	})
}

// LedgerRepo historial de deuda en memoria.
type LedgerRepo struct{ h handle }

func (r *LedgerRepo) Create(_ context.Context, t *entity.LedgerTransaction) error {
	return r.h.write(func(st *state) error {
		c := *t
		st.ledger = append(st.ledger, &c)
		return nil
	})
}

// ListByCustomer del más reciente al más antiguo.
func (r *LedgerRepo) ListByCustomer(_ context.Context, customerID string, limit, offset int) ([]*entity.LedgerTransaction, error) {
	var out []*entity.LedgerTransaction
	err := r.h.read(func(st *state) error {
		var all []*entity.LedgerTransaction
		for i := len(st.ledger) - 1; i >= 0; i-- {
			if st.ledger[i].CustomerID == customerID {
				all = append(all, st.ledger[i])
			}
		}
		from, to := page(len(all), limit, offset)
		for _, t := range all[from:to] {
			c := *t
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *LedgerRepo) SumByCustomer(_ context.Context, customerID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.h.read(func(st *state) error {
		for _, t := range st.ledger {
			if t.CustomerID == customerID {
				sum = sum.Add(t.Delta)
			}
		}
		return nil
	})
	return sum, err
}

// PaymentRepo pagos y abonos en memoria.
type PaymentRepo struct{ h handle }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.h.write(func(st *state) error {
		c := *p
		st.payments = append(st.payments, &c)
		return nil
	})
}

func (r *PaymentRepo) ListByCustomer(_ context.Context, customerID string, limit, offset int) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.h.read(func(st *state) error {
		var all []*entity.Payment
		for i := len(st.payments) - 1; i >= 0; i-- {
			if st.payments[i].CustomerID == customerID {
				all = append(all, st.payments[i])
			}
		}
		from, to := page(len(all), limit, offset)
		for _, p := range all[from:to] {
			c := *p
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *PaymentRepo) CreateDebtPayment(_ context.Context, dp *entity.DebtPayment) error {
	return r.h.write(func(st *state) error {
		c := *dp
		st.debtPayments = append(st.debtPayments, &c)
		return nil
	})
}

func (r *PaymentRepo) ListDebtPaymentsBySale(_ context.Context, saleID string) ([]*entity.DebtPayment, error) {
	var out []*entity.DebtPayment
	err := r.h.read(func(st *state) error {
		for _, dp := range st.debtPayments {
			if dp.SaleID == saleID {
				c := *dp
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}
