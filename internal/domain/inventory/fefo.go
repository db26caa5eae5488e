package inventory

import (
	"sort"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
)

// Deduction es lo que se toma de un lote concreto.
type Deduction struct {
	Lot       *entity.StockLot
	Take      int64
	Remaining int64 // cantidad que queda en el lote; 0 = se elimina
}

// SortFEFO ordena los lotes por vencimiento ascendente (primero en vencer, primero en salir).
// Los lotes sin vencimiento van al final; empates por fecha de creación y luego por ID.
func SortFEFO(lots []*entity.StockLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate != nil:
			return false
		case a.ExpiryDate != nil && b.ExpiryDate == nil:
			return true
		case a.ExpiryDate != nil && b.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// PlanDepletion calcula qué lotes tocar para retirar quantity unidades.
// Solo considera lotes available con cantidad positiva. ok=false si no alcanza;
// en ese caso available trae el total disponible y no se devuelve plan.
func PlanDepletion(lots []*entity.StockLot, quantity int64) (plan []Deduction, available int64, ok bool) {
	candidates := make([]*entity.StockLot, 0, len(lots))
	for _, l := range lots {
		if l.Status != entity.LotStatusAvailable || l.Quantity <= 0 {
			continue
		}
		candidates = append(candidates, l)
		available += l.Quantity
	}
	if available < quantity {
		return nil, available, false
	}
	SortFEFO(candidates)

	remaining := quantity
	for _, l := range candidates {
		if remaining == 0 {
			break
		}
		take := l.Quantity
		if take > remaining {
			take = remaining
		}
		plan = append(plan, Deduction{Lot: l, Take: take, Remaining: l.Quantity - take})
		remaining -= take
	}
	return plan, available, true
}
