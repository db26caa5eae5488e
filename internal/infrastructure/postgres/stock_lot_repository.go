package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo lotes de inventario y asignaciones por venta (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

const lotColumns = `id, product_id, quantity, batch_number, expiry_date, status, created_at, updated_at`

// Orden FEFO: sin vencimiento al final, empates por antigüedad.
const fefoOrder = `ORDER BY expiry_date ASC NULLS LAST, created_at, id`

func scanLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	if err := row.Scan(&l.ID, &l.ProductID, &l.Quantity, &l.BatchNumber, &l.ExpiryDate, &l.Status,
		&l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *StockLotRepo) queryLots(ctx context.Context, query string, args ...any) ([]*entity.StockLot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Create persiste un lote nuevo.
func (r *StockLotRepo) Create(ctx context.Context, l *entity.StockLot) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_lots (`+lotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.ProductID, l.Quantity, l.BatchNumber, l.ExpiryDate, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock lot: %w", err)
	}
	return nil
}

// AvailableQuantity suma los lotes available del producto.
func (r *StockLotRepo) AvailableQuantity(ctx context.Context, productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::bigint
		FROM stock_lots WHERE product_id = $1 AND status = 'available'`, productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum stock lots: %w", err)
	}
	return total, nil
}

// ListAvailableForUpdate bloquea los lotes available (SELECT FOR UPDATE) en orden FEFO.
func (r *StockLotRepo) ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.StockLot, error) {
	return r.queryLots(ctx, `
		SELECT `+lotColumns+` FROM stock_lots
		WHERE product_id = $1 AND status = 'available' AND quantity > 0
		`+fefoOrder+`
		FOR UPDATE`, productID)
}

// ListByProduct lista todos los lotes del producto, en cualquier estado.
func (r *StockLotRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLot, error) {
	return r.queryLots(ctx, `SELECT `+lotColumns+` FROM stock_lots WHERE product_id = $1 `+fefoOrder, productID)
}

// UpdateQuantity fija la cantidad del lote.
func (r *StockLotRepo) UpdateQuantity(ctx context.Context, lotID string, quantity int64) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_lots SET quantity = $2, updated_at = now() WHERE id = $1`, lotID, quantity)
	if err != nil {
		return fmt.Errorf("update stock lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el lote (se usa cuando queda en cero).
func (r *StockLotRepo) Delete(ctx context.Context, lotID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_lots WHERE id = $1`, lotID)
	if err != nil {
		return fmt.Errorf("delete stock lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Restore suma la cantidad al lote o lo recrea si fue eliminado.
func (r *StockLotRepo) Restore(ctx context.Context, l *entity.StockLot) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_lots (`+lotColumns+`)
		VALUES ($1, $2, $3, $4, $5, 'available', $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET quantity = stock_lots.quantity + EXCLUDED.quantity,
		    status = 'available',
		    updated_at = EXCLUDED.updated_at`,
		l.ID, l.ProductID, l.Quantity, l.BatchNumber, l.ExpiryDate, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("restore stock lot: %w", err)
	}
	return nil
}

// CreateAllocation registra lo tomado de un lote por una venta.
func (r *StockLotRepo) CreateAllocation(ctx context.Context, a *entity.SaleAllocation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_allocations (id, sale_id, product_id, lot_id, batch_number, expiry_date, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.SaleID, a.ProductID, a.LotID, a.BatchNumber, a.ExpiryDate, a.Quantity, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale allocation: %w", err)
	}
	return nil
}

// ListAllocationsBySale lista las asignaciones de la venta.
func (r *StockLotRepo) ListAllocationsBySale(ctx context.Context, saleID string) ([]*entity.SaleAllocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, lot_id, batch_number, expiry_date, quantity, created_at
		FROM sale_allocations WHERE sale_id = $1 ORDER BY created_at, id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleAllocation
	for rows.Next() {
		var a entity.SaleAllocation
		if err := rows.Scan(&a.ID, &a.SaleID, &a.ProductID, &a.LotID, &a.BatchNumber, &a.ExpiryDate,
			&a.Quantity, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale allocation: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
