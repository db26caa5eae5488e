package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

// replenishmentPageSize tamaño de página al recorrer el catálogo.
const replenishmentPageSize = 200

// ReplenishmentUseCase genera la lista de reposición: productos con existencias
// por debajo de su mínimo, con la cantidad sugerida de pedido y su costo estimado.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	lots     repository.StockLotRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository, lots repository.StockLotRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products, lots: lots}
}

// GenerateReplenishmentList devuelve los productos bajo mínimo ordenados por urgencia
// (menor cobertura primero). Stock ideal = mínimo * 1.5, redondeado hacia arriba.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	var suggestions []dto.ReplenishmentSuggestion
	for offset := 0; ; offset += replenishmentPageSize {
		page, err := uc.products.List(ctx, replenishmentPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			if p.MinStockLevel <= 0 {
				continue
			}
			available, err := uc.lots.AvailableQuantity(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			if available >= p.MinStockLevel {
				continue
			}
			ideal := (p.MinStockLevel*3 + 1) / 2
			qty := ideal - available
			suggestions = append(suggestions, dto.ReplenishmentSuggestion{
				ProductID:          p.ID,
				ProductName:        p.Name,
				CurrentStock:       available,
				MinStockLevel:      p.MinStockLevel,
				IdealStock:         ideal,
				SuggestedOrderQty:  qty,
				UnitCost:           p.PurchasePrice,
				EstimatedOrderCost: p.PurchasePrice.Mul(decimal.NewFromInt(qty)),
			})
		}
		if len(page) < replenishmentPageSize {
			break
		}
	}

	// Cobertura = existencias / mínimo; comparar en cruz evita divisiones.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		return a.CurrentStock*b.MinStockLevel < b.CurrentStock*a.MinStockLevel
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	if suggestions == nil {
		suggestions = []dto.ReplenishmentSuggestion{}
	}
	return suggestions, nil
}
