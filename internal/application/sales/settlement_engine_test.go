package sales

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	appinventory "github.com/jhoicas/pintureria-api/internal/application/inventory"
	"github.com/jhoicas/pintureria-api/internal/application/ledger"
	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
	"github.com/jhoicas/pintureria-api/internal/infrastructure/memory"
	"github.com/jhoicas/pintureria-api/pkg/logger"
)

const testUser = "00000000-0000-0000-0000-000000000001"

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *memory.Store
	stock  *appinventory.StockLedger
	ledger *ledger.CustomerLedger
	engine *SettlementEngine
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	stock := appinventory.NewStockLedger(store, repos.Products, repos.Lots, repos.Movements)
	customerLedger := ledger.NewCustomerLedger(store, repos.Customers, repos.Ledger)
	engine := NewSettlementEngine(store, stock, customerLedger, store, repos.Sales, repos.Invoices, cfg, logger.Nop())
	return &fixture{t: t, ctx: context.Background(), store: store, stock: stock, ledger: customerLedger, engine: engine}
}

// customer crea un cliente con deuda inicial registrada en el historial.
func (f *fixture) customer(id, debt, limit string) {
	f.t.Helper()
	repos := f.store.Repos()
	require.NoError(f.t, repos.Customers.Create(f.ctx, &entity.Customer{
		ID: id, Name: "Cliente " + id, Phone: "3001234567", CreditLimit: d(limit),
	}))
	err := f.store.Run(f.ctx, func(ctx context.Context, tx repository.TxRepos) error {
		_, err := f.ledger.AdjustDebtInTx(ctx, tx, ledger.Entry{
			CustomerID: id, Delta: d(debt), Reason: entity.LedgerReasonOpeningBalance, UserID: testUser,
		}, time.Now().UTC())
		return err
	})
	require.NoError(f.t, err)
}

// product crea un producto y le ingresa un lote por cada cantidad/vencimiento.
func (f *fixture) product(id string, lots map[string]int64) {
	f.t.Helper()
	require.NoError(f.t, f.store.Repos().Products.Create(f.ctx, &entity.Product{
		ID: id, Name: "Producto " + id, Unit: "galón", SellingPrice: d("20"), MinStockLevel: 2,
	}))
	for expiry, qty := range lots {
		_, err := f.stock.Intake(f.ctx, testUser, dto.IntakeRequest{
			ProductID: id, Quantity: qty, BatchNumber: "L-" + expiry, ExpiryDate: expiry,
		})
		require.NoError(f.t, err)
	}
}

func (f *fixture) available(productID string) int64 {
	f.t.Helper()
	s, err := f.stock.AvailableQuantity(f.ctx, productID)
	require.NoError(f.t, err)
	return s.Available
}

func (f *fixture) debt(customerID string) decimal.Decimal {
	f.t.Helper()
	debt, _, err := f.ledger.GetDebtAndLimit(f.ctx, customerID)
	require.NoError(f.t, err)
	return debt
}

// assertReconciled verifica que la suma del historial reconstruye la deuda.
func (f *fixture) assertReconciled(customerID string) {
	f.t.Helper()
	r, err := f.ledger.Reconcile(f.ctx, customerID, false)
	require.NoError(f.t, err)
	assert.True(f.t, r.Drift.IsZero(), "deuda descuadrada: cache %s, historial %s", r.Cached, r.Derived)
}

func saleOf(customerID, productID string, qty int64, unit, method, paid string) dto.CreateSaleRequest {
	pid := productID
	total := d(unit).Mul(decimal.NewFromInt(qty))
	return dto.CreateSaleRequest{
		CustomerID: customerID,
		Items: []dto.SaleItemRequest{{
			ProductID: &pid, Quantity: qty, UnitPrice: d(unit), LineTotal: total,
		}},
		Subtotal:      total,
		Total:         total,
		PaymentMethod: method,
		PaidAmount:    d(paid),
	}
}

func withItemTotal(req dto.CreateSaleRequest, lineTotal string) dto.CreateSaleRequest {
	req.Items[0].LineTotal = d(lineTotal)
	return req
}

func withAmounts(req dto.CreateSaleRequest, subtotal, discount, total string) dto.CreateSaleRequest {
	req.Subtotal, req.Discount, req.Total = d(subtotal), d(discount), d(total)
	return req
}

func assertInvoiceMatchesSale(t *testing.T, out *dto.CreateSaleResponse) {
	t.Helper()
	inv := out.Invoice
	assert.Equal(t, out.Sale.ID, inv.SaleID)
	assert.Equal(t, out.Sale.InvoiceNumber, inv.InvoiceNumber)
	assert.True(t, out.Sale.Total.Equal(inv.Total), "total venta %s, factura %s", out.Sale.Total, inv.Total)
	assert.True(t, out.Sale.PaidAmount.Equal(inv.PaidAmount))
	assert.Equal(t, out.Sale.PaymentStatus, inv.PaymentStatus)
	assert.Equal(t, entity.DocumentStateSettled, out.Sale.State)
	assert.Equal(t, entity.DocumentStateSettled, inv.State)

	recon := inv.PreviousDebtRemaining.Add(inv.TotalOutstanding).Sub(inv.ExcessPayment)
	assert.True(t, recon.Equal(inv.BalanceAfter), "balance %s, conciliación %s", inv.BalanceAfter, recon)
	assert.True(t, inv.BalanceAfter.Equal(out.PaymentSummary.FinalDebt))
}

func TestCreateSale_ContadoSinDeuda(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "1000")
	f.product("p1", map[string]int64{"": 10})

	out, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 2, "20", "cash", "40"))
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusPaid, out.Sale.PaymentStatus)
	assert.True(t, d("40").Equal(out.Sale.Total))
	assert.True(t, f.debt("c1").IsZero())
	assert.Equal(t, int64(8), f.available("p1"))
	assertInvoiceMatchesSale(t, out)
	f.assertReconciled("c1")
}

func TestCreateSale_MetodoPorDefectoEsContado(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "0")
	f.product("p1", map[string]int64{"": 5})

	out, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 1, "20", "", "20"))
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentMethodCash, out.Sale.PaymentMethod)
}

func TestCreateSale_CreditoDentroDelCupoYLuegoRechazado(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "100")
	f.product("p1", map[string]int64{"": 20})

	out, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 3, "20", "credit", "0"))
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusUnpaid, out.Sale.PaymentStatus)
	assert.True(t, d("60").Equal(f.debt("c1")))
	assert.True(t, d("60").Equal(out.Invoice.TotalOutstanding))
	assertInvoiceMatchesSale(t, out)
	assert.Equal(t, int64(17), f.available("p1"))

	_, err = f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 10, "20", "credit", "0"))
	require.ErrorIs(t, err, domain.ErrCreditLimitExceeded)
	var credit *domain.CreditLimitExceededError
	require.ErrorAs(t, err, &credit)
	assert.True(t, d("40").Equal(credit.Available))
	assert.True(t, d("200").Equal(credit.Requested))

	assert.True(t, d("60").Equal(f.debt("c1")), "la deuda no debe cambiar")
	assert.Equal(t, int64(17), f.available("p1"), "el stock no debe cambiar")
	f.assertReconciled("c1")
}

func TestCreateSale_PagoCubreDeudaPreviaYFactura(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "60", "200")
	f.product("p1", map[string]int64{"": 10})

	out, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 2, "20", "credit", "100"))
	require.NoError(t, err)

	inv := out.Invoice
	assert.True(t, d("60").Equal(inv.PaidTowardPrevious))
	assert.True(t, d("40").Equal(inv.PaidTowardInvoice))
	assert.True(t, inv.ExcessPayment.IsZero())
	assert.True(t, inv.PreviousDebt.IsZero(), "a crédito la deuda previa se reescribe descontando el abono")
	assert.True(t, inv.PreviousDebtRemaining.IsZero())
	assert.True(t, d("60").Equal(out.PaymentSummary.PreviousDebt), "el resumen conserva la deuda original")
	assert.Equal(t, entity.PaymentStatusPaid, out.Sale.PaymentStatus)
	assert.True(t, f.debt("c1").IsZero())
	assertInvoiceMatchesSale(t, out)
	f.assertReconciled("c1")

	dps, err := f.store.Repos().Payments.ListDebtPaymentsBySale(f.ctx, out.Sale.ID)
	require.NoError(t, err)
	require.Len(t, dps, 1)
	assert.True(t, d("60").Equal(dps[0].Amount))
}

func TestCreateSale_SobrepagoDejaSaldoAFavor(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "10", "500")
	f.product("p1", map[string]int64{"": 10})

	out, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 2, "20", "bank_transfer", "70"))
	require.NoError(t, err)

	assert.True(t, d("20").Equal(out.Invoice.ExcessPayment))
	assert.True(t, d("-20").Equal(f.debt("c1")))
	assert.True(t, d("-20").Equal(out.PaymentSummary.FinalDebt))
	assertInvoiceMatchesSale(t, out)
	f.assertReconciled("c1")
}

func TestCreateSale_FEFO(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "0")
	f.product("p1", map[string]int64{"2025-01-01": 5, "2025-06-01": 5})

	_, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 7, "20", "cash", "140"))
	require.NoError(t, err)

	lots, err := f.stock.ListLots(f.ctx, "p1")
	require.NoError(t, err)
	require.Len(t, lots, 1, "el lote de enero debe eliminarse al quedar en cero")
	require.NotNil(t, lots[0].ExpiryDate)
	assert.Equal(t, "2025-06-01", *lots[0].ExpiryDate)
	assert.Equal(t, int64(3), lots[0].Quantity)

	moves, err := f.stock.ListMovements(f.ctx, "p1", dto.PageRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, moves)
	assert.Equal(t, entity.MovementTypeOut, moves[0].Type)
	assert.Equal(t, int64(7), moves[0].Quantity)
	assert.Equal(t, int64(3), moves[0].QuantityOnHand)
}

func TestCreateSale_StockInsuficienteNoEscribeNada(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "15", "1000")
	f.product("p1", map[string]int64{"": 10})
	f.product("p2", map[string]int64{"": 1})

	p1, p2 := "p1", "p2"
	req := dto.CreateSaleRequest{
		CustomerID: "c1",
		Items: []dto.SaleItemRequest{
			{ProductID: &p1, Quantity: 2, UnitPrice: d("20"), LineTotal: d("40")},
			{ProductID: &p2, Quantity: 3, UnitPrice: d("10"), LineTotal: d("30")},
		},
		Subtotal: d("70"), Total: d("70"), PaymentMethod: "credit",
	}
	_, err := f.engine.CreateSale(f.ctx, testUser, req)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p2", stockErr.ProductID)
	assert.Equal(t, int64(1), stockErr.Available)
	assert.Equal(t, int64(3), stockErr.Requested)

	assert.Equal(t, int64(10), f.available("p1"))
	assert.Equal(t, int64(1), f.available("p2"))
	assert.True(t, d("15").Equal(f.debt("c1")))
	f.assertReconciled("c1")
}

func TestCreateSale_LineasDelMismoProductoSeSuman(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "0")
	f.product("p1", map[string]int64{"": 5})

	p1 := "p1"
	req := dto.CreateSaleRequest{
		CustomerID: "c1",
		Items: []dto.SaleItemRequest{
			{ProductID: &p1, Quantity: 3, UnitPrice: d("20"), LineTotal: d("60")},
			{ProductID: &p1, Quantity: 3, UnitPrice: d("20"), LineTotal: d("60")},
		},
		Subtotal: d("120"), Total: d("120"), PaidAmount: d("120"),
	}
	_, err := f.engine.CreateSale(f.ctx, testUser, req)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.available("p1"))
}

func TestCreateSale_LineaSinProducto(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "0")

	req := dto.CreateSaleRequest{
		CustomerID: "c1",
		Items: []dto.SaleItemRequest{
			{ProductName: "Tinturado", Quantity: 1, UnitPrice: d("15"), LineTotal: d("15")},
		},
		Subtotal: d("15"), Total: d("15"), PaidAmount: d("15"),
	}
	out, err := f.engine.CreateSale(f.ctx, testUser, req)
	require.NoError(t, err)
	require.Len(t, out.Sale.Items, 1)
	assert.Nil(t, out.Sale.Items[0].ProductID)
	assert.Equal(t, "Tinturado", out.Sale.Items[0].ProductName)
}

func TestCreateSale_Validaciones(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "0")
	f.product("p1", map[string]int64{"": 5})

	cases := []struct {
		name  string
		req   dto.CreateSaleRequest
		field string
	}{
		{"sin cliente", dto.CreateSaleRequest{Items: saleOf("", "p1", 1, "20", "cash", "20").Items}, "customer_id"},
		{"sin líneas", dto.CreateSaleRequest{CustomerID: "c1"}, "items"},
		{"cantidad cero", saleOf("c1", "p1", 0, "20", "cash", "0"), "items[0].quantity"},
		{"pago negativo", saleOf("c1", "p1", 1, "20", "cash", "-1"), "paid_amount"},
		{"método desconocido", saleOf("c1", "p1", 1, "20", "bitcoin", "20"), "payment_method"},
		{"total de línea descuadrado", withItemTotal(saleOf("c1", "p1", 5, "20", "credit", "0"), "10"), "items[0].line_total"},
		{"subtotal descuadrado", withAmounts(saleOf("c1", "p1", 5, "20", "credit", "0"), "90", "0", "90"), "subtotal"},
		{"total descuadrado", withAmounts(saleOf("c1", "p1", 5, "20", "credit", "0"), "100", "0", "0"), "total"},
		{"descuento mal aplicado", withAmounts(saleOf("c1", "p1", 5, "20", "credit", "0"), "100", "10", "100"), "total"},
		{"descuento mayor al subtotal", withAmounts(saleOf("c1", "p1", 1, "20", "cash", "0"), "20", "30", "0"), "discount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.CreateSale(f.ctx, testUser, tc.req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
	assert.Equal(t, int64(5), f.available("p1"))
}

func TestCreateSale_ClienteInexistente(t *testing.T) {
	f := newFixture(t, Config{})
	f.product("p1", map[string]int64{"": 5})

	_, err := f.engine.CreateSale(f.ctx, testUser, saleOf("nadie", "p1", 1, "20", "cash", "20"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(5), f.available("p1"))
}

func TestCreateSale_ConservaStock(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "10000")
	f.product("p1", map[string]int64{"2025-03-01": 4, "2025-09-01": 6, "": 10})

	sold := int64(0)
	for _, qty := range []int64{3, 5, 7} {
		_, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", qty, "20", "credit", "0"))
		require.NoError(t, err)
		sold += qty
	}
	assert.Equal(t, 20-sold, f.available("p1"))
	f.assertReconciled("c1")
}

func TestGetSale(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "0")
	f.product("p1", map[string]int64{"": 5})

	out, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 1, "20", "cash", "20"))
	require.NoError(t, err)

	detail, err := f.engine.GetSale(f.ctx, out.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Sale.InvoiceNumber, detail.Invoice.InvoiceNumber)

	_, err = f.engine.GetSale(f.ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkOverdue(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "1000")
	f.customer("c2", "0", "1000")
	f.product("p1", map[string]int64{"": 10})

	credit, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 2, "20", "credit", "10"))
	require.NoError(t, err)
	// c2 no debe nada: el pago completo va a la factura y la venta queda pagada
	paid, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c2", "p1", 1, "20", "credit", "20"))
	require.NoError(t, err)
	require.Equal(t, entity.PaymentStatusPaid, paid.Sale.PaymentStatus)
	_, err = f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 1, "20", "cash", "20"))
	require.NoError(t, err)

	later := time.Now().UTC().Add(40 * 24 * time.Hour)
	f.engine.now = func() time.Time { return later }

	out, err := f.engine.MarkOverdue(f.ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{credit.Sale.ID}, out.Updated)

	detail, err := f.engine.GetSale(f.ctx, credit.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusOverdue, detail.Sale.PaymentStatus)
	assert.Equal(t, entity.PaymentStatusOverdue, detail.Invoice.PaymentStatus)

	detail, err = f.engine.GetSale(f.ctx, paid.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, detail.Sale.PaymentStatus)

	// Una segunda pasada no encuentra nada nuevo
	out, err = f.engine.MarkOverdue(f.ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, out.Updated)
}

func TestCreateSale_ContadoCobraDeudaPrevia(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "25", "1000")
	f.product("p1", map[string]int64{"": 10})

	out, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 2, "20", "cash", "0"))
	require.NoError(t, err)

	inv := out.Invoice
	assert.True(t, d("65").Equal(inv.Total), "total=%s", inv.Total)
	assert.True(t, d("65").Equal(inv.PaidAmount), "pagado=%s", inv.PaidAmount)
	assert.True(t, d("65").Equal(out.Sale.Total))
	assert.True(t, d("25").Equal(inv.PreviousDebt))
	assert.True(t, d("25").Equal(inv.PaidTowardPrevious))
	assert.True(t, d("40").Equal(out.PaymentSummary.SaleAmount))
	assert.True(t, d("65").Equal(out.PaymentSummary.GrandTotal))
	assert.Equal(t, entity.PaymentStatusPaid, inv.PaymentStatus)
	assert.True(t, f.debt("c1").IsZero())
	assertInvoiceMatchesSale(t, out)
	f.assertReconciled("c1")
}

func TestCreateSale_ContadoConSaldoAFavorMayorQueLaVenta(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "-100", "0")
	f.product("p1", map[string]int64{"": 10})

	out, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 2, "20", "cash", "0"))
	require.NoError(t, err)

	// El saldo a favor se consume completo: la venta de contado siempre deja la deuda en cero.
	assert.True(t, d("-60").Equal(out.Invoice.Total))
	assert.True(t, d("-60").Equal(out.Invoice.PaidAmount))
	assert.True(t, f.debt("c1").IsZero())
	f.assertReconciled("c1")

	entries, err := f.ledger.Transactions(f.ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.LedgerReasonCashSettlement, entries[0].Reason)
	assert.True(t, d("100").Equal(entries[0].Delta))
}

func TestNewDraftInvoice_LlevaElPagoDeclarado(t *testing.T) {
	sale := &entity.Sale{ID: "s1", InvoiceNumber: "INV-000001", Total: d("40"), PaidAmount: d("15"), PaymentMethod: entity.PaymentMethodCredit}
	customer := &entity.Customer{ID: "c1", Name: "Cliente"}

	inv := newDraftInvoice(sale, customer, d("10"), time.Now().UTC())

	assert.Equal(t, entity.DocumentStateDraft, inv.State)
	assert.True(t, d("10").Equal(inv.PreviousDebt))
	assert.True(t, d("40").Equal(inv.Total))
	assert.True(t, d("15").Equal(inv.PaidAmount))
	assert.True(t, d("35").Equal(inv.BalanceAfter))
}

// failingInvoices hace fallar la escritura de la factura indicada.
type failingInvoices struct {
	repository.InvoiceRepository
	failOn string
}

var errDiscoLleno = errors.New("disco lleno")

func (r failingInvoices) Create(ctx context.Context, inv *entity.Invoice) error {
	if r.failOn == "create" {
		return errDiscoLleno
	}
	return r.InvoiceRepository.Create(ctx, inv)
}

func (r failingInvoices) Update(ctx context.Context, inv *entity.Invoice) error {
	if r.failOn == "update" {
		return errDiscoLleno
	}
	return r.InvoiceRepository.Update(ctx, inv)
}

// failingRunner envuelve el store y cambia el repositorio de facturas dentro de la transacción.
type failingRunner struct {
	*memory.Store
	failOn string
}

func (r failingRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	return r.Store.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		repos.Invoices = failingInvoices{InvoiceRepository: repos.Invoices, failOn: r.failOn}
		return fn(ctx, repos)
	})
}

func TestCreateSale_FalloAMitadNoDejaRastro(t *testing.T) {
	for _, failOn := range []string{"create", "update"} {
		t.Run(failOn, func(t *testing.T) {
			f := newFixture(t, Config{})
			f.customer("c1", "30", "1000")
			f.product("p1", map[string]int64{"2025-01-01": 1, "2025-06-01": 5})

			repos := f.store.Repos()
			f.engine = NewSettlementEngine(failingRunner{Store: f.store, failOn: failOn}, f.stock, f.ledger, f.store,
				repos.Sales, repos.Invoices, Config{}, logger.Nop())

			lotsBefore, err := f.stock.ListLots(f.ctx, "p1")
			require.NoError(t, err)
			movesBefore, err := f.stock.ListMovements(f.ctx, "p1", dto.PageRequest{})
			require.NoError(t, err)
			ledgerBefore, err := f.ledger.Transactions(f.ctx, "c1", dto.PageRequest{})
			require.NoError(t, err)

			_, err = f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 3, "20", "credit", "50"))
			require.ErrorIs(t, err, errDiscoLleno)

			lotsAfter, err := f.stock.ListLots(f.ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, lotsBefore, lotsAfter, "los lotes deben quedar intactos")
			movesAfter, err := f.stock.ListMovements(f.ctx, "p1", dto.PageRequest{})
			require.NoError(t, err)
			assert.Len(t, movesAfter, len(movesBefore))
			ledgerAfter, err := f.ledger.Transactions(f.ctx, "c1", dto.PageRequest{})
			require.NoError(t, err)
			assert.Len(t, ledgerAfter, len(ledgerBefore))
			assert.True(t, d("30").Equal(f.debt("c1")))
			assert.Equal(t, int64(6), f.available("p1"))
			f.assertReconciled("c1")
		})
	}
}

func TestCreateSale_CreditosConcurrentesRespetanElCupo(t *testing.T) {
	f := newFixture(t, Config{})
	f.customer("c1", "0", "100")
	f.product("p1", map[string]int64{"": 50})

	const n = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.CreateSale(f.ctx, testUser, saleOf("c1", "p1", 1, "20", "credit", "0"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, domain.ErrCreditLimitExceeded):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, accepted)
	assert.Equal(t, 5, rejected)
	assert.True(t, d("100").Equal(f.debt("c1")), "deuda=%s", f.debt("c1"))
	assert.Equal(t, int64(45), f.available("p1"))
	f.assertReconciled("c1")
}
