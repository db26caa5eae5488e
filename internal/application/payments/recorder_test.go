package payments_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	appinventory "github.com/jhoicas/pintureria-api/internal/application/inventory"
	"github.com/jhoicas/pintureria-api/internal/application/ledger"
	"github.com/jhoicas/pintureria-api/internal/application/payments"
	"github.com/jhoicas/pintureria-api/internal/application/sales"
	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/infrastructure/memory"
	"github.com/jhoicas/pintureria-api/pkg/logger"
)

const testUser = "00000000-0000-0000-0000-000000000001"

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

type env struct {
	ctx      context.Context
	store    *memory.Store
	ledger   *ledger.CustomerLedger
	engine   *sales.SettlementEngine
	recorder *payments.Recorder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	repos := store.Repos()
	stock := appinventory.NewStockLedger(store, repos.Products, repos.Lots, repos.Movements)
	customerLedger := ledger.NewCustomerLedger(store, repos.Customers, repos.Ledger)
	engine := sales.NewSettlementEngine(store, stock, customerLedger, store, repos.Sales, repos.Invoices, sales.Config{}, logger.Nop())
	recorder := payments.NewRecorder(store, customerLedger, repos.Payments, logger.Nop())

	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: "c1", Name: "Ana", CreditLimit: d("1000")}))
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: "c2", Name: "Luis", CreditLimit: d("1000")}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", Name: "Esmalte", SellingPrice: d("20")}))
	_, err := stock.Intake(ctx, testUser, dto.IntakeRequest{ProductID: "p1", Quantity: 50, BatchNumber: "B1"})
	require.NoError(t, err)

	return &env{ctx: ctx, store: store, ledger: customerLedger, engine: engine, recorder: recorder}
}

func (e *env) creditSale(t *testing.T, customerID string, qty int64, paid string) *dto.CreateSaleResponse {
	t.Helper()
	pid := "p1"
	total := d("20").Mul(decimal.NewFromInt(qty))
	out, err := e.engine.CreateSale(e.ctx, testUser, dto.CreateSaleRequest{
		CustomerID:    customerID,
		Items:         []dto.SaleItemRequest{{ProductID: &pid, Quantity: qty, UnitPrice: d("20"), LineTotal: total}},
		Subtotal:      total,
		Total:         total,
		PaymentMethod: entity.PaymentMethodCredit,
		PaidAmount:    d(paid),
	})
	require.NoError(t, err)
	return out
}

func (e *env) debt(t *testing.T, customerID string) decimal.Decimal {
	t.Helper()
	debt, _, err := e.ledger.GetDebtAndLimit(e.ctx, customerID)
	require.NoError(t, err)
	return debt
}

func TestRecordPayment_AbonoGeneral(t *testing.T) {
	e := newEnv(t)
	e.creditSale(t, "c1", 5, "0")

	out, err := e.recorder.RecordPayment(e.ctx, testUser, dto.RecordPaymentRequest{CustomerID: "c1", Amount: d("30")})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentMethodCash, out.Method)
	assert.True(t, d("70").Equal(out.BalanceAfter))
	assert.True(t, d("70").Equal(e.debt(t, "c1")))

	r, err := e.ledger.Reconcile(e.ctx, "c1", false)
	require.NoError(t, err)
	assert.True(t, r.Drift.IsZero())

	list, err := e.recorder.ListByCustomer(e.ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, out.ID, list[0].ID)
}

func TestRecordPayment_AplicaAVenta(t *testing.T) {
	e := newEnv(t)
	sale := e.creditSale(t, "c1", 2, "10")

	_, err := e.recorder.RecordPayment(e.ctx, testUser, dto.RecordPaymentRequest{
		CustomerID: "c1", SaleID: sale.Sale.ID, Amount: d("10"), Method: "bank_transfer",
	})
	require.NoError(t, err)

	detail, err := e.engine.GetSale(e.ctx, sale.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, detail.Sale.PaymentStatus)
	assert.True(t, d("20").Equal(detail.Invoice.TotalOutstanding))
	assert.True(t, d("20").Equal(detail.Sale.PaidAmount))

	// Paga de más: cubre la factura y el resto queda como saldo a favor
	_, err = e.recorder.RecordPayment(e.ctx, testUser, dto.RecordPaymentRequest{
		CustomerID: "c1", SaleID: sale.Sale.ID, Amount: d("50"),
	})
	require.NoError(t, err)

	detail, err = e.engine.GetSale(e.ctx, sale.Sale.ID)
	require.NoError(t, err)
	inv := detail.Invoice
	assert.Equal(t, entity.PaymentStatusPaid, detail.Sale.PaymentStatus)
	assert.Equal(t, entity.PaymentStatusPaid, inv.PaymentStatus)
	assert.True(t, inv.TotalOutstanding.IsZero())
	assert.True(t, d("40").Equal(inv.PaidTowardInvoice))
	assert.True(t, d("-30").Equal(e.debt(t, "c1")))

	recon := inv.PreviousDebtRemaining.Add(inv.TotalOutstanding).Sub(inv.ExcessPayment)
	assert.True(t, recon.Equal(inv.BalanceAfter))
}

func TestRecordPayment_VentaVencidaSigueVencidaHastaPagarse(t *testing.T) {
	e := newEnv(t)
	sale := e.creditSale(t, "c1", 2, "0")

	_, err := e.engine.MarkOverdue(e.ctx, -time.Hour)
	require.NoError(t, err)

	_, err = e.recorder.RecordPayment(e.ctx, testUser, dto.RecordPaymentRequest{CustomerID: "c1", SaleID: sale.Sale.ID, Amount: d("10")})
	require.NoError(t, err)
	detail, err := e.engine.GetSale(e.ctx, sale.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusOverdue, detail.Sale.PaymentStatus)

	_, err = e.recorder.RecordPayment(e.ctx, testUser, dto.RecordPaymentRequest{CustomerID: "c1", SaleID: sale.Sale.ID, Amount: d("30")})
	require.NoError(t, err)
	detail, err = e.engine.GetSale(e.ctx, sale.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, detail.Sale.PaymentStatus)
}

func TestRecordPayment_Rechazos(t *testing.T) {
	e := newEnv(t)
	sale := e.creditSale(t, "c1", 1, "0")

	cases := []struct {
		name   string
		req    dto.RecordPaymentRequest
		target error
	}{
		{"monto cero", dto.RecordPaymentRequest{CustomerID: "c1"}, domain.ErrInvalidInput},
		{"método crédito", dto.RecordPaymentRequest{CustomerID: "c1", Amount: d("5"), Method: "credit"}, domain.ErrInvalidInput},
		{"venta de otro cliente", dto.RecordPaymentRequest{CustomerID: "c2", SaleID: sale.Sale.ID, Amount: d("5")}, domain.ErrInvalidInput},
		{"cliente inexistente", dto.RecordPaymentRequest{CustomerID: "zz", Amount: d("5")}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.recorder.RecordPayment(e.ctx, testUser, tc.req)
			assert.ErrorIs(t, err, tc.target)
		})
	}
	assert.True(t, d("20").Equal(e.debt(t, "c1")))
	assert.True(t, e.debt(t, "c2").IsZero())
}
