package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, sale_id, invoice_number, customer_id, customer_name, customer_phone, customer_email,
	customer_address, payment_method, payment_status, state, previous_debt, total, paid_amount,
	total_outstanding, previous_debt_remaining, paid_toward_previous, paid_toward_invoice, excess_payment,
	balance_after, cancelled_by, cancelled_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv         entity.Invoice
		cancelledBy *string
	)
	if err := row.Scan(&inv.ID, &inv.SaleID, &inv.InvoiceNumber, &inv.CustomerID, &inv.CustomerName,
		&inv.CustomerPhone, &inv.CustomerEmail, &inv.CustomerAddress, &inv.PaymentMethod, &inv.PaymentStatus,
		&inv.State, &inv.PreviousDebt, &inv.Total, &inv.PaidAmount, &inv.TotalOutstanding,
		&inv.PreviousDebtRemaining, &inv.PaidTowardPrevious, &inv.PaidTowardInvoice, &inv.ExcessPayment,
		&inv.BalanceAfter, &cancelledBy, &inv.CancelledAt, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	inv.CancelledBy = derefString(cancelledBy)
	return &inv, nil
}

// Create persiste la factura y sus líneas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		inv.ID, inv.SaleID, inv.InvoiceNumber, inv.CustomerID, inv.CustomerName, inv.CustomerPhone,
		inv.CustomerEmail, inv.CustomerAddress, inv.PaymentMethod, inv.PaymentStatus, inv.State,
		inv.PreviousDebt, inv.Total, inv.PaidAmount, inv.TotalOutstanding, inv.PreviousDebtRemaining,
		inv.PaidTowardPrevious, inv.PaidTowardInvoice, inv.ExcessPayment, inv.BalanceAfter,
		nullIfEmpty(inv.CancelledBy), inv.CancelledAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for i, it := range inv.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, position, product_id, product_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			inv.ID, i, nullIfEmpty(it.ProductID), it.ProductName, it.Quantity, it.UnitPrice, it.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la factura con sus líneas.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetBySaleID obtiene la factura de una venta.
func (r *InvoiceRepo) GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE sale_id = $1`, saleID)
}

func (r *InvoiceRepo) get(ctx context.Context, query, arg string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_id, product_name, quantity, unit_price, line_total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it        entity.InvoiceItem
			productID *string
		)
		if err := rows.Scan(&productID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		it.ProductID = derefString(productID)
		inv.Items = append(inv.Items, it)
	}
	return inv, rows.Err()
}

// Update reescribe los campos financieros, estado y anulación.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET payment_status          = $2,
		    state                   = $3,
		    total                   = $4,
		    paid_amount             = $5,
		    total_outstanding       = $6,
		    previous_debt_remaining = $7,
		    paid_toward_previous    = $8,
		    paid_toward_invoice     = $9,
		    excess_payment          = $10,
		    balance_after           = $11,
		    cancelled_by            = $12,
		    cancelled_at            = $13,
		    updated_at              = $14
		WHERE id = $1`,
		inv.ID, inv.PaymentStatus, inv.State, inv.Total, inv.PaidAmount, inv.TotalOutstanding,
		inv.PreviousDebtRemaining, inv.PaidTowardPrevious, inv.PaidTowardInvoice, inv.ExcessPayment,
		inv.BalanceAfter, nullIfEmpty(inv.CancelledBy), inv.CancelledAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
