package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/inventory"
)

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func lot(id string, qty int64, expiry *time.Time, created time.Time) *entity.StockLot {
	return &entity.StockLot{
		ID: id, ProductID: "p1", Quantity: qty, ExpiryDate: expiry,
		Status: entity.LotStatusAvailable, CreatedAt: created,
	}
}

func TestPlanDepletion_FEFO(t *testing.T) {
	now := time.Now()
	// Escenario E: 5 unidades vencen en enero, 5 en junio; se venden 7
	lots := []*entity.StockLot{
		lot("junio", 5, date("2025-06-01"), now),
		lot("enero", 5, date("2025-01-01"), now),
	}

	plan, available, ok := inventory.PlanDepletion(lots, 7)
	require.True(t, ok)
	assert.Equal(t, int64(10), available)
	require.Len(t, plan, 2)

	assert.Equal(t, "enero", plan[0].Lot.ID)
	assert.Equal(t, int64(5), plan[0].Take)
	assert.Equal(t, int64(0), plan[0].Remaining)

	assert.Equal(t, "junio", plan[1].Lot.ID)
	assert.Equal(t, int64(2), plan[1].Take)
	assert.Equal(t, int64(3), plan[1].Remaining)
}

func TestPlanDepletion_SinVencimientoAlFinal(t *testing.T) {
	now := time.Now()
	lots := []*entity.StockLot{
		lot("sin-fecha", 4, nil, now.Add(-time.Hour)),
		lot("con-fecha", 4, date("2030-01-01"), now),
	}

	plan, _, ok := inventory.PlanDepletion(lots, 5)
	require.True(t, ok)
	require.Len(t, plan, 2)
	assert.Equal(t, "con-fecha", plan[0].Lot.ID)
	assert.Equal(t, "sin-fecha", plan[1].Lot.ID)
	assert.Equal(t, int64(1), plan[1].Take)
}

func TestPlanDepletion_EmpateUsaElMasAntiguo(t *testing.T) {
	now := time.Now()
	lots := []*entity.StockLot{
		lot("nuevo", 3, nil, now),
		lot("viejo", 3, nil, now.Add(-24*time.Hour)),
	}

	plan, _, ok := inventory.PlanDepletion(lots, 2)
	require.True(t, ok)
	require.Len(t, plan, 1)
	assert.Equal(t, "viejo", plan[0].Lot.ID)
}

func TestPlanDepletion_Insuficiente(t *testing.T) {
	now := time.Now()
	reserved := lot("reservado", 50, nil, now)
	reserved.Status = entity.LotStatusReserved
	lots := []*entity.StockLot{lot("a", 2, nil, now), lot("b", 1, nil, now), reserved}

	plan, available, ok := inventory.PlanDepletion(lots, 4)
	assert.False(t, ok)
	assert.Nil(t, plan)
	assert.Equal(t, int64(3), available, "los lotes reservados no cuentan como disponibles")
	// El plan fallido no toca los lotes
	assert.Equal(t, int64(2), lots[0].Quantity)
}

func TestWeightedAverageCost(t *testing.T) {
	cost := inventory.WeightedAverageCost(10, d("100"), 10, d("200"))
	assert.Equal(t, "150", cost.String())

	// Sin existencias previas toma el costo del ingreso
	assert.Equal(t, "80", inventory.WeightedAverageCost(0, d("0"), 0, d("80")).String())
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }
