package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/application/ports"
	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/inventory"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

// StockLedger es el único que modifica existencias: ingresos, salidas FEFO por venta
// y reintegros por anulación. Las salidas y reintegros se ejecutan con los repos de la
// transacción del llamador para que la venta completa sea atómica.
type StockLedger struct {
	txRunner  ports.TxRunner
	products  repository.ProductRepository
	lots      repository.StockLotRepository
	movements repository.StockMovementRepository
}

// NewStockLedger construye el caso de uso.
func NewStockLedger(
	txRunner ports.TxRunner,
	products repository.ProductRepository,
	lots repository.StockLotRepository,
	movements repository.StockMovementRepository,
) *StockLedger {
	return &StockLedger{
		txRunner:  txRunner,
		products:  products,
		lots:      lots,
		movements: movements,
	}
}

// AvailableQuantity suma los lotes disponibles del producto.
func (s *StockLedger) AvailableQuantity(ctx context.Context, productID string) (*dto.StockResponse, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	qty, err := s.lots.AvailableQuantity(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		ProductID:     productID,
		Available:     qty,
		MinStockLevel: product.MinStockLevel,
		BelowMinimum:  qty < product.MinStockLevel,
	}, nil
}

// Intake registra un ingreso de mercancía: un lote nuevo y un movimiento "in".
// Si viene UnitCost, el precio de compra del producto pasa a ser el costo promedio ponderado.
func (s *StockLedger) Intake(ctx context.Context, userID string, in dto.IntakeRequest) (*dto.StockLotResponse, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.NewValidationError("unit_cost", "no puede ser negativo")
	}
	var expiry *time.Time
	if in.ExpiryDate != "" {
		t, err := time.Parse("2006-01-02", in.ExpiryDate)
		if err != nil {
			return nil, domain.NewValidationError("expiry_date", "formato esperado YYYY-MM-DD")
		}
		expiry = &t
	}

	now := time.Now().UTC()
	lot := &entity.StockLot{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		BatchNumber: in.BatchNumber,
		ExpiryDate:  expiry,
		Status:      entity.LotStatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	reference := in.Reference
	if reference == "" {
		reference = in.BatchNumber
	}

	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		// Con el producto bloqueado, dos ingresos no parten de las mismas existencias ni del mismo costo.
		product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		onHand, err := repos.Lots.AvailableQuantity(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if in.UnitCost != nil {
			cost := inventory.WeightedAverageCost(onHand, product.PurchasePrice, in.Quantity, *in.UnitCost)
			if err := repos.Products.UpdatePurchasePrice(ctx, product.ID, cost); err != nil {
				return err
			}
		}
		if err := repos.Lots.Create(ctx, lot); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, &entity.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      in.ProductID,
			Type:           entity.MovementTypeIn,
			Quantity:       in.Quantity,
			Reference:      reference,
			QuantityOnHand: onHand + in.Quantity,
			CreatedBy:      userID,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewStockLotResponse(lot)
	return &out, nil
}

// DepleteInTx descuenta quantity unidades del producto en orden FEFO dentro de la transacción
// del llamador. Bloquea los lotes, y si no alcanza retorna *domain.InsufficientStockError sin
// modificar nada. Los lotes que quedan en cero se eliminan. Escribe un movimiento "out" y una
// asignación por lote tocado (para poder reintegrar en una anulación).
func (s *StockLedger) DepleteInTx(
	ctx context.Context,
	repos repository.TxRepos,
	productID string,
	quantity int64,
	saleID, reference, userID string,
	now time.Time,
) error {
	if quantity <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	lots, err := repos.Lots.ListAvailableForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	plan, available, ok := inventory.PlanDepletion(lots, quantity)
	if !ok {
		return &domain.InsufficientStockError{ProductID: productID, Available: available, Requested: quantity}
	}

	for _, step := range plan {
		if step.Remaining == 0 {
			if err := repos.Lots.Delete(ctx, step.Lot.ID); err != nil {
				return err
			}
		} else if err := repos.Lots.UpdateQuantity(ctx, step.Lot.ID, step.Remaining); err != nil {
			return err
		}
		if err := repos.Lots.CreateAllocation(ctx, &entity.SaleAllocation{
			ID:          uuid.New().String(),
			SaleID:      saleID,
			ProductID:   productID,
			LotID:       step.Lot.ID,
			BatchNumber: step.Lot.BatchNumber,
			ExpiryDate:  step.Lot.ExpiryDate,
			Quantity:    step.Take,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
	}

	return repos.Movements.Create(ctx, &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      productID,
		Type:           entity.MovementTypeOut,
		Quantity:       quantity,
		Reference:      reference,
		QuantityOnHand: available - quantity,
		CreatedBy:      userID,
		CreatedAt:      now,
	})
}

// RestockInTx devuelve a sus lotes lo que la venta consumió (según sus asignaciones).
// Un lote eliminado al llegar a cero se recrea con su número y vencimiento originales.
// Retorna la cantidad total reintegrada.
func (s *StockLedger) RestockInTx(
	ctx context.Context,
	repos repository.TxRepos,
	saleID, reference, userID string,
	now time.Time,
) (int64, error) {
	allocs, err := repos.Lots.ListAllocationsBySale(ctx, saleID)
	if err != nil {
		return 0, err
	}
	byProduct := make(map[string]int64)
	for _, a := range allocs {
		if err := repos.Lots.Restore(ctx, &entity.StockLot{
			ID:          a.LotID,
			ProductID:   a.ProductID,
			Quantity:    a.Quantity,
			BatchNumber: a.BatchNumber,
			ExpiryDate:  a.ExpiryDate,
			Status:      entity.LotStatusAvailable,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			return 0, fmt.Errorf("reintegrar lote %s: %w", a.LotID, err)
		}
		byProduct[a.ProductID] += a.Quantity
	}

	productIDs := make([]string, 0, len(byProduct))
	for id := range byProduct {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	var total int64
	for _, productID := range productIDs {
		onHand, err := repos.Lots.AvailableQuantity(ctx, productID)
		if err != nil {
			return 0, err
		}
		if err := repos.Movements.Create(ctx, &entity.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      productID,
			Type:           entity.MovementTypeIn,
			Quantity:       byProduct[productID],
			Reference:      reference,
			QuantityOnHand: onHand,
			CreatedBy:      userID,
			CreatedAt:      now,
		}); err != nil {
			return 0, err
		}
		total += byProduct[productID]
	}
	return total, nil
}

// ListLots lista todos los lotes del producto en orden FEFO.
func (s *StockLedger) ListLots(ctx context.Context, productID string) ([]dto.StockLotResponse, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	lots, err := s.lots.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	inventory.SortFEFO(lots)
	out := make([]dto.StockLotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.NewStockLotResponse(l))
	}
	return out, nil
}

// ListMovements lista la bitácora de movimientos del producto, del más reciente al más antiguo.
func (s *StockLedger) ListMovements(ctx context.Context, productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	page.DefaultPage()
	list, err := s.movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.NewStockMovementResponse(m))
	}
	return out, nil
}
