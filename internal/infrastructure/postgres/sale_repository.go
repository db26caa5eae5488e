package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository         = (*SaleRepo)(nil)
	_ repository.InvoiceNumberGenerator = (*InvoiceNumberSequence)(nil)
)

// SaleRepo ventas y sus líneas (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, invoice_number, customer_id, subtotal, discount, total, payment_method, payment_status,
	paid_amount, state, created_by, cancelled_by, cancelled_at, created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s           entity.Sale
		cancelledBy *string
	)
	if err := row.Scan(&s.ID, &s.InvoiceNumber, &s.CustomerID, &s.Subtotal, &s.Discount, &s.Total,
		&s.PaymentMethod, &s.PaymentStatus, &s.PaidAmount, &s.State, &s.CreatedBy, &cancelledBy,
		&s.CancelledAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.CancelledBy = derefString(cancelledBy)
	return &s, nil
}

// Create persiste la cabecera y las líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		s.ID, s.InvoiceNumber, s.CustomerID, s.Subtotal, s.Discount, s.Total, s.PaymentMethod,
		s.PaymentStatus, s.PaidAmount, s.State, s.CreatedBy, nullIfEmpty(s.CancelledBy), s.CancelledAt,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for i, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, position, product_id, product_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, s.ID, i, nullIfEmpty(it.ProductID), it.ProductName, it.Quantity, it.UnitPrice, it.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate obtiene la venta y bloquea la fila.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, quantity, unit_price, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var (
			it        entity.SaleItem
			productID *string
		)
		if err := rows.Scan(&it.ID, &it.SaleID, &productID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.ProductID = derefString(productID)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update reescribe los campos mutables; las líneas no cambian.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales
		SET total = $2, paid_amount = $3, payment_status = $4, state = $5,
		    cancelled_by = $6, cancelled_at = $7, updated_at = $8
		WHERE id = $1`,
		s.ID, s.Total, s.PaidAmount, s.PaymentStatus, s.State, nullIfEmpty(s.CancelledBy), s.CancelledAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListOverdueCandidates devuelve solo cabeceras (sin líneas).
func (r *SaleRepo) ListOverdueCandidates(ctx context.Context, cutoff time.Time) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+saleColumns+` FROM sales
		WHERE payment_method <> 'cash'
		  AND payment_status IN ('unpaid', 'partial')
		  AND created_at < $1
		ORDER BY created_at`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list overdue candidates: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// InvoiceNumberSequence numera facturas con la secuencia invoice_number_seq.
// Un número tomado por una venta que luego falla se pierde (la secuencia no retrocede).
type InvoiceNumberSequence struct {
	q Querier
}

// NewInvoiceNumberSequence construye el generador.
func NewInvoiceNumberSequence(q Querier) *InvoiceNumberSequence {
	return &InvoiceNumberSequence{q: q}
}

// Next devuelve INV-000001, INV-000002...
func (g *InvoiceNumberSequence) Next(ctx context.Context) (string, error) {
	var n int64
	if err := g.q.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%06d", n), nil
}
