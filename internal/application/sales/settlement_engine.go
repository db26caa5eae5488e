package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	appinventory "github.com/jhoicas/pintureria-api/internal/application/inventory"
	"github.com/jhoicas/pintureria-api/internal/application/ledger"
	"github.com/jhoicas/pintureria-api/internal/application/ports"
	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
	"github.com/jhoicas/pintureria-api/internal/domain/settlement"
	"github.com/jhoicas/pintureria-api/pkg/logger"
)

// Config decide la compensación al anular una venta de contado.
type Config struct {
	CancelRestock     bool
	CancelRestoreDebt bool
}

// SettlementEngine registra ventas: valida stock, descuenta FEFO, aplica el cupo de crédito,
// reparte el pago entre deuda previa y factura, y deja la factura cuadrada con la deuda
// del cliente. Todo ocurre en una sola transacción con el cliente y los lotes bloqueados.
type SettlementEngine struct {
	txRunner ports.TxRunner
	stock    *appinventory.StockLedger
	ledger   *ledger.CustomerLedger
	numbers  repository.InvoiceNumberGenerator
	sales    repository.SaleRepository
	invoices repository.InvoiceRepository
	cfg      Config
	log      *logger.Logger
	now      func() time.Time
}

// NewSettlementEngine construye el motor de liquidación.
func NewSettlementEngine(
	txRunner ports.TxRunner,
	stock *appinventory.StockLedger,
	customerLedger *ledger.CustomerLedger,
	numbers repository.InvoiceNumberGenerator,
	sales repository.SaleRepository,
	invoices repository.InvoiceRepository,
	cfg Config,
	log *logger.Logger,
) *SettlementEngine {
	return &SettlementEngine{
		txRunner: txRunner,
		stock:    stock,
		ledger:   customerLedger,
		numbers:  numbers,
		sales:    sales,
		invoices: invoices,
		cfg:      cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// saleLine línea validada.
type saleLine struct {
	productID   string
	productName string
	quantity    int64
	unitPrice   decimal.Decimal
	lineTotal   decimal.Decimal
}

// CreateSale ejecuta la liquidación completa de una venta.
//
// Errores: *domain.ValidationError, *domain.InsufficientStockError,
// *domain.CreditLimitExceededError, domain.ErrNotFound (cliente o producto).
// Ante cualquier error no queda nada escrito.
func (e *SettlementEngine) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.CreateSaleResponse, error) {
	// 1. Validar
	lines, err := validateSale(in)
	if err != nil {
		return nil, err
	}
	// 3. Clasificar pago
	method := strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = entity.PaymentMethodCash
	}
	if !entity.IsValidPaymentMethod(method) {
		return nil, domain.NewValidationError("payment_method", "debe ser cash, credit, bank_transfer o check")
	}

	needed := make(map[string]int64)
	for _, l := range lines {
		if l.productID != "" {
			needed[l.productID] += l.quantity
		}
	}
	productIDs := make([]string, 0, len(needed))
	for id := range needed {
		productIDs = append(productIDs, id)
	}
	// Orden de bloqueo: cliente y luego productos por ID
	sort.Strings(productIDs)

	number, err := e.numbers.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("generar número de factura: %w", err)
	}

	var (
		sale    *entity.Sale
		invoice *entity.Invoice
		summary dto.PaymentSummary
	)
	err = e.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		now := e.now()

		customer, err := repos.Customers.GetForUpdate(ctx, in.CustomerID)
		if err != nil {
			return fmt.Errorf("cliente %s: %w", in.CustomerID, err)
		}
		previousDebt := customer.CurrentDebt

		// 2. Verificar stock de todas las líneas antes de tocar nada
		names := make(map[string]string, len(productIDs))
		for _, id := range productIDs {
			product, err := repos.Products.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("producto %s: %w", id, err)
			}
			names[id] = product.Name
			available, err := repos.Lots.AvailableQuantity(ctx, id)
			if err != nil {
				return err
			}
			if available < needed[id] {
				return &domain.InsufficientStockError{ProductID: id, Available: available, Requested: needed[id]}
			}
		}

		// 4. Cupo de crédito
		if method == entity.PaymentMethodCredit {
			if err := settlement.CheckCreditLimit(customer.CurrentDebt, customer.CreditLimit, in.Total, in.PaidAmount); err != nil {
				return err
			}
		}

		// 5. Venta en borrador
		sale = &entity.Sale{
			ID:            uuid.New().String(),
			InvoiceNumber: number,
			CustomerID:    customer.ID,
			Subtotal:      in.Subtotal,
			Discount:      in.Discount,
			Total:         in.Total,
			PaymentMethod: method,
			PaymentStatus: entity.PaymentStatusUnpaid,
			PaidAmount:    in.PaidAmount,
			State:         entity.DocumentStateDraft,
			CreatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, l := range lines {
			name := l.productName
			if name == "" {
				name = names[l.productID]
			}
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ProductID:   l.productID,
				ProductName: name,
				Quantity:    l.quantity,
				UnitPrice:   l.unitPrice,
				LineTotal:   l.lineTotal,
			})
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		// 6. Descontar stock (FEFO)
		for _, id := range productIDs {
			if err := e.stock.DepleteInTx(ctx, repos, id, needed[id], sale.ID, number, userID, now); err != nil {
				return err
			}
		}

		// 7. Factura en borrador: deuda previa capturada antes de modificarla y pago tal como se declaró
		invoice = newDraftInvoice(sale, customer, previousDebt, now)
		if err := repos.Invoices.Create(ctx, invoice); err != nil {
			return err
		}

		// 8. Liquidar
		var split settlement.Split
		var balance decimal.Decimal
		entry := ledger.Entry{CustomerID: customer.ID, SaleID: sale.ID, UserID: userID}
		if method == entity.PaymentMethodCash {
			split = settlement.CashSettlement(previousDebt, in.Total)
			entry.Reason = entity.LedgerReasonCashSettlement
			if _, err := e.ledger.ZeroDebtInTx(ctx, repos, entry, now); err != nil {
				return err
			}
			balance = decimal.Zero
			sale.PaidAmount = split.Paid
		} else {
			split = settlement.SplitPayment(previousDebt, in.Total, in.PaidAmount)
			entry.Reason = entity.LedgerReasonCreditSale
			entry.Delta = split.DebtDelta
			if balance, err = e.ledger.AdjustDebtInTx(ctx, repos, entry, now); err != nil {
				return err
			}
			sale.PaidAmount = in.PaidAmount
		}
		if !balance.Equal(split.FinalDebt) {
			return fmt.Errorf("liquidación descuadrada: saldo %s, esperado %s", balance, split.FinalDebt)
		}
		if split.TowardPrevious.IsPositive() {
			if err := repos.Payments.CreateDebtPayment(ctx, &entity.DebtPayment{
				ID:         uuid.New().String(),
				CustomerID: customer.ID,
				SaleID:     sale.ID,
				Amount:     split.TowardPrevious,
				Method:     method,
				CreatedBy:  userID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}

		sale.Total = split.InvoiceTotal
		sale.PaymentStatus = split.Status
		sale.State = entity.DocumentStateSettled
		sale.UpdatedAt = now
		if err := repos.Sales.Update(ctx, sale); err != nil {
			return err
		}
		applySplit(invoice, split, sale.PaidAmount, balance, now)
		if method != entity.PaymentMethodCash {
			// El valor original queda en payment_summary.previous_debt.
			invoice.PreviousDebt = split.PreviousRemaining
		}
		if err := repos.Invoices.Update(ctx, invoice); err != nil {
			return err
		}

		summary = dto.PaymentSummary{
			SaleAmount:    in.Total,
			PreviousDebt:  previousDebt,
			GrandTotal:    in.Total.Add(previousDebt),
			PaidAmount:    sale.PaidAmount,
			ExcessPayment: split.Excess,
			FinalDebt:     balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("sale_id", sale.ID).
		Str("invoice_number", sale.InvoiceNumber).
		Str("customer_id", sale.CustomerID).
		Str("payment_method", sale.PaymentMethod).
		Str("payment_status", sale.PaymentStatus).
		Str("final_debt", summary.FinalDebt.String()).
		Msg("venta liquidada")

	return &dto.CreateSaleResponse{
		Sale:           dto.NewSaleResponse(sale),
		Invoice:        dto.NewInvoiceResponse(invoice),
		PaymentSummary: summary,
	}, nil
}

func validateSale(in dto.CreateSaleRequest) ([]saleLine, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, domain.NewValidationError("customer_id", "requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la venta debe tener al menos una línea")
	}
	lines := make([]saleLine, 0, len(in.Items))
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.Quantity <= 0 {
			return nil, domain.NewValidationError(field+".quantity", "debe ser mayor que cero")
		}
		if it.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError(field+".unit_price", "no puede ser negativo")
		}
		if it.LineTotal.IsNegative() {
			return nil, domain.NewValidationError(field+".line_total", "no puede ser negativo")
		}
		var productID string
		if it.ProductID != nil {
			productID = strings.TrimSpace(*it.ProductID)
		}
		if productID == "" && strings.TrimSpace(it.ProductName) == "" {
			return nil, domain.NewValidationError(field+".product_name", "requerido en líneas sin producto")
		}
		lines = append(lines, saleLine{
			productID:   productID,
			productName: strings.TrimSpace(it.ProductName),
			quantity:    it.Quantity,
			unitPrice:   it.UnitPrice,
			lineTotal:   it.LineTotal,
		})
	}
	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"subtotal", in.Subtotal},
		{"discount", in.Discount},
		{"total", in.Total},
		{"paid_amount", in.PaidAmount},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return nil, domain.NewValidationError(a.field, "no puede ser negativo")
		}
	}
	if err := checkAmounts(lines, in); err != nil {
		return nil, err
	}
	return lines, nil
}

// checkAmounts exige que line_total, subtotal y total cuadren con cantidades y precios.
func checkAmounts(lines []saleLine, in dto.CreateSaleRequest) error {
	subtotal := decimal.Zero
	for i, l := range lines {
		expected := l.unitPrice.Mul(decimal.NewFromInt(l.quantity))
		if !l.lineTotal.Equal(expected) {
			return domain.NewValidationError(fmt.Sprintf("items[%d].line_total", i),
				fmt.Sprintf("debe ser quantity * unit_price (%s)", expected))
		}
		subtotal = subtotal.Add(l.lineTotal)
	}
	if !in.Subtotal.Equal(subtotal) {
		return domain.NewValidationError("subtotal", fmt.Sprintf("debe ser la suma de las líneas (%s)", subtotal))
	}
	if in.Discount.GreaterThan(in.Subtotal) {
		return domain.NewValidationError("discount", "no puede superar el subtotal")
	}
	if total := in.Subtotal.Sub(in.Discount); !in.Total.Equal(total) {
		return domain.NewValidationError("total", fmt.Sprintf("debe ser subtotal - discount (%s)", total))
	}
	return nil
}

func newDraftInvoice(sale *entity.Sale, customer *entity.Customer, previousDebt decimal.Decimal, now time.Time) *entity.Invoice {
	items := make([]entity.InvoiceItem, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, entity.InvoiceItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return &entity.Invoice{
		ID:                    uuid.New().String(),
		SaleID:                sale.ID,
		InvoiceNumber:         sale.InvoiceNumber,
		CustomerID:            customer.ID,
		CustomerName:          customer.Name,
		CustomerPhone:         customer.Phone,
		CustomerEmail:         customer.Email,
		CustomerAddress:       customer.Address,
		Items:                 items,
		PaymentMethod:         sale.PaymentMethod,
		PaymentStatus:         entity.PaymentStatusUnpaid,
		State:                 entity.DocumentStateDraft,
		PreviousDebt:          previousDebt,
		Total:                 sale.Total,
		PaidAmount:            sale.PaidAmount,
		TotalOutstanding:      sale.Total,
		PreviousDebtRemaining: previousDebt,
		PaidTowardPrevious:    decimal.Zero,
		PaidTowardInvoice:     decimal.Zero,
		ExcessPayment:         decimal.Zero,
		BalanceAfter:          previousDebt.Add(sale.Total).Sub(sale.PaidAmount),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func applySplit(inv *entity.Invoice, split settlement.Split, paid, balance decimal.Decimal, now time.Time) {
	inv.Total = split.InvoiceTotal
	inv.PaidAmount = paid
	inv.TotalOutstanding = split.InvoiceOutstanding
	inv.PreviousDebtRemaining = split.PreviousRemaining
	inv.PaidTowardPrevious = split.TowardPrevious
	inv.PaidTowardInvoice = split.TowardInvoice
	inv.ExcessPayment = split.Excess
	inv.BalanceAfter = balance
	inv.PaymentStatus = split.Status
	inv.State = entity.DocumentStateSettled
	inv.UpdatedAt = now
}
