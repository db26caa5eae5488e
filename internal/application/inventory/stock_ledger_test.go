package inventory_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/application/inventory"
	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/infrastructure/memory"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func newStockLedger(t *testing.T) (*inventory.StockLedger, *memory.Store) {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	require.NoError(t, repos.Products.Create(context.Background(), &entity.Product{
		ID: "p1", Name: "Vinilo blanco", PurchasePrice: d("100"), MinStockLevel: 10,
	}))
	return inventory.NewStockLedger(store, repos.Products, repos.Lots, repos.Movements), store
}

func TestIntake_CostoPromedioPonderado(t *testing.T) {
	ctx := context.Background()
	ledger, store := newStockLedger(t)

	_, err := ledger.Intake(ctx, "u1", dto.IntakeRequest{ProductID: "p1", Quantity: 10, BatchNumber: "A"})
	require.NoError(t, err)
	cost := d("200")
	lot, err := ledger.Intake(ctx, "u1", dto.IntakeRequest{
		ProductID: "p1", Quantity: 10, BatchNumber: "B", ExpiryDate: "2026-12-31", UnitCost: &cost, Reference: "FC-991",
	})
	require.NoError(t, err)
	require.NotNil(t, lot.ExpiryDate)
	assert.Equal(t, "2026-12-31", *lot.ExpiryDate)

	p, err := store.Repos().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, d("150").Equal(p.PurchasePrice), "costo=%s", p.PurchasePrice)

	stock, err := ledger.AvailableQuantity(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), stock.Available)
	assert.False(t, stock.BelowMinimum)

	moves, err := ledger.ListMovements(ctx, "p1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, "FC-991", moves[0].Reference)
	assert.Equal(t, int64(20), moves[0].QuantityOnHand)
}

func TestIntake_Concurrentes(t *testing.T) {
	ctx := context.Background()
	ledger, store := newStockLedger(t)
	const n = 20

	cost := d("100")
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Intake(ctx, "u1", dto.IntakeRequest{ProductID: "p1", Quantity: 1, BatchNumber: "C", UnitCost: &cost})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	moves, err := ledger.ListMovements(ctx, "p1", dto.PageRequest{Limit: n})
	require.NoError(t, err)
	require.Len(t, moves, n)
	onHand := make([]int, 0, n)
	for _, m := range moves {
		onHand = append(onHand, int(m.QuantityOnHand))
	}
	sort.Ints(onHand)
	for i, q := range onHand {
		assert.Equal(t, i+1, q, "cada ingreso debe partir de las existencias del anterior")
	}

	p, err := store.Repos().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, d("100").Equal(p.PurchasePrice))
}

func TestIntake_Validaciones(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newStockLedger(t)
	neg := d("-1")

	cases := []dto.IntakeRequest{
		{Quantity: 1},
		{ProductID: "p1", Quantity: 0},
		{ProductID: "p1", Quantity: 1, UnitCost: &neg},
		{ProductID: "p1", Quantity: 1, ExpiryDate: "31/12/2026"},
	}
	for _, in := range cases {
		_, err := ledger.Intake(ctx, "u1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	_, err := ledger.Intake(ctx, "u1", dto.IntakeRequest{ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplenishment(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repos := store.Repos()
	ledger := inventory.NewStockLedger(store, repos.Products, repos.Lots, repos.Movements)

	products := []*entity.Product{
		{ID: "p1", Name: "Vinilo", PurchasePrice: d("50"), MinStockLevel: 10},
		{ID: "p2", Name: "Thinner", PurchasePrice: d("8"), MinStockLevel: 4},
		{ID: "p3", Name: "Brocha", PurchasePrice: d("3"), MinStockLevel: 2},
		{ID: "p4", Name: "Lija", PurchasePrice: d("1"), MinStockLevel: 0},
	}
	for _, p := range products {
		require.NoError(t, repos.Products.Create(ctx, p))
	}
	for id, qty := range map[string]int64{"p1": 5, "p2": 1, "p3": 2} {
		_, err := ledger.Intake(ctx, "u1", dto.IntakeRequest{ProductID: id, Quantity: qty})
		require.NoError(t, err)
	}

	list, err := inventory.NewReplenishmentUseCase(repos.Products, repos.Lots).GenerateReplenishmentList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "p2", list[0].ProductID, "menor cobertura primero")
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(6), list[0].IdealStock)
	assert.Equal(t, int64(5), list[0].SuggestedOrderQty)
	assert.True(t, d("40").Equal(list[0].EstimatedOrderCost))

	assert.Equal(t, "p1", list[1].ProductID)
	assert.Equal(t, int64(15), list[1].IdealStock)
	assert.Equal(t, int64(10), list[1].SuggestedOrderQty)
}
