package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

var (
	_ repository.LedgerRepository  = (*LedgerRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
)

// LedgerRepo historial de deuda (solo inserción).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func (r *LedgerRepo) Create(ctx context.Context, t *entity.LedgerTransaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ledger_transactions (id, customer_id, delta, reason, sale_id, payment_id, balance_after, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.CustomerID, t.Delta, t.Reason, nullIfEmpty(t.SaleID), nullIfEmpty(t.PaymentID),
		t.BalanceAfter, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger transaction: %w", err)
	}
	return nil
}

func (r *LedgerRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.LedgerTransaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, customer_id, delta, reason, sale_id, payment_id, balance_after, created_by, created_at
		FROM ledger_transactions WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerTransaction
	for rows.Next() {
		var (
			t                 entity.LedgerTransaction
			saleID, paymentID *string
		)
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Delta, &t.Reason, &saleID, &paymentID,
			&t.BalanceAfter, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger transaction: %w", err)
		}
		t.SaleID, t.PaymentID = derefString(saleID), derefString(paymentID)
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *LedgerRepo) SumByCustomer(ctx context.Context, customerID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta), 0) FROM ledger_transactions WHERE customer_id = $1`, customerID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum ledger transactions: %w", err)
	}
	return sum, nil
}

// PaymentRepo pagos y abonos (solo inserción).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, customer_id, sale_id, amount, method, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.CustomerID, nullIfEmpty(p.SaleID), p.Amount, p.Method, p.Notes, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, customer_id, sale_id, amount, method, notes, created_by, created_at
		FROM payments WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var (
			p      entity.Payment
			saleID *string
		)
		if err := rows.Scan(&p.ID, &p.CustomerID, &saleID, &p.Amount, &p.Method, &p.Notes,
			&p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.SaleID = derefString(saleID)
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *PaymentRepo) CreateDebtPayment(ctx context.Context, dp *entity.DebtPayment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO debt_payments (id, customer_id, sale_id, amount, method, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		dp.ID, dp.CustomerID, dp.SaleID, dp.Amount, dp.Method, dp.CreatedBy, dp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert debt payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListDebtPaymentsBySale(ctx context.Context, saleID string) ([]*entity.DebtPayment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, customer_id, sale_id, amount, method, created_by, created_at
		FROM debt_payments WHERE sale_id = $1 ORDER BY created_at`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list debt payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.DebtPayment
	for rows.Next() {
		var dp entity.DebtPayment
		if err := rows.Scan(&dp.ID, &dp.CustomerID, &dp.SaleID, &dp.Amount, &dp.Method,
			&dp.CreatedBy, &dp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan debt payment: %w", err)
		}
		list = append(list, &dp)
	}
	return list, rows.Err()
}
