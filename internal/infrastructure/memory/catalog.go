package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/inventory"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.StockLotRepository      = (*StockLotRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// ProductRepo catálogo en memoria.
type ProductRepo struct{ h handle }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = copyProduct(p)
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// List ordena por nombre y luego por ID.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.h.read(func(st *state) error {
		all := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			all = append(all, p)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].Name != all[j].Name {
				return all[i].Name < all[j].Name
			}
			return all[i].ID < all[j].ID
		})
		from, to := page(len(all), limit, offset)
		for _, p := range all[from:to] {
			out = append(out, copyProduct(p))
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) UpdatePurchasePrice(_ context.Context, productID string, price decimal.Decimal) error {
	return r.h.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.PurchasePrice = price
		return nil
	})
}

// StockLotRepo lotes y asignaciones en memoria.
type StockLotRepo struct{ h handle }

func (r *StockLotRepo) Create(_ context.Context, lot *entity.StockLot) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.lots[lot.ID]; ok {
			return domain.ErrDuplicate
		}
		st.lots[lot.ID] = copyLot(lot)
		return nil
	})
}

func (r *StockLotRepo) AvailableQuantity(_ context.Context, productID string) (int64, error) {
	var total int64
	err := r.h.read(func(st *state) error {
		for _, l := range st.lots {
			if l.ProductID == productID && l.Status == entity.LotStatusAvailable {
				total += l.Quantity
			}
		}
		return nil
	})
	return total, err
}

// ListAvailableForUpdate en memoria el bloqueo lo da la transacción serializada.
func (r *StockLotRepo) ListAvailableForUpdate(_ context.Context, productID string) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	err := r.h.read(func(st *state) error {
		for _, l := range st.lots {
			if l.ProductID == productID && l.Status == entity.LotStatusAvailable && l.Quantity > 0 {
				out = append(out, copyLot(l))
			}
		}
		return nil
	})
	inventory.SortFEFO(out)
	return out, err
}

func (r *StockLotRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	err := r.h.read(func(st *state) error {
		for _, l := range st.lots {
			if l.ProductID == productID {
				out = append(out, copyLot(l))
			}
		}
		return nil
	})
	return out, err
}

func (r *StockLotRepo) UpdateQuantity(_ context.Context, lotID string, quantity int64) error {
	return r.h.write(func(st *state) error {
		l, ok := st.lots[lotID]
		if !ok {
			return domain.ErrNotFound
		}
		l.Quantity = quantity
		return nil
	})
}

func (r *StockLotRepo) Delete(_ context.Context, lotID string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.lots[lotID]; !ok {
			return domain.ErrNotFound
		}
		delete(st.lots, lotID)
		return nil
	})
}

func (r *StockLotRepo) Restore(_ context.Context, lot *entity.StockLot) error {
	return r.h.write(func(st *state) error {
		if l, ok := st.lots[lot.ID]; ok {
			l.Quantity += lot.Quantity
			l.Status = entity.LotStatusAvailable
			l.UpdatedAt = lot.UpdatedAt
			return nil
		}
		st.lots[lot.ID] = copyLot(lot)
		return nil
	})
}

func (r *StockLotRepo) CreateAllocation(_ context.Context, alloc *entity.SaleAllocation) error {
	return r.h.write(func(st *state) error {
		a := *alloc
		a.ExpiryDate = copyTime(alloc.ExpiryDate)
		st.allocations = append(st.allocations, &a)
		return nil
	})
}

func (r *StockLotRepo) ListAllocationsBySale(_ context.Context, saleID string) ([]*entity.SaleAllocation, error) {
	var out []*entity.SaleAllocation
	err := r.h.read(func(st *state) error {
		for _, a := range st.allocations {
			if a.SaleID == saleID {
				c := *a
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

// StockMovementRepo bitácora de movimientos en memoria.
type StockMovementRepo struct{ h handle }

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.h.write(func(st *state) error {
		c := *m
		st.movements = append(st.movements, &c)
		return nil
	})
}

// ListByProduct del más reciente al más antiguo (orden inverso de inserción).
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.h.read(func(st *state) error {
		var all []*entity.StockMovement
		for i := len(st.movements) - 1; i >= 0; i-- {
			if st.movements[i].ProductID == productID {
				all = append(all, st.movements[i])
			}
		}
		from, to := page(len(all), limit, offset)
		for _, m := range all[from:to] {
			c := *m
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}
