package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/application/ledger"
	"github.com/jhoicas/pintureria-api/internal/application/ports"
	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
	"github.com/jhoicas/pintureria-api/internal/domain/settlement"
	"github.com/jhoicas/pintureria-api/pkg/logger"
)

// Recorder registra pagos recibidos fuera de una venta (abonos en caja).
// El pago reduce la deuda del cliente una única vez, al crearse.
type Recorder struct {
	txRunner ports.TxRunner
	ledger   *ledger.CustomerLedger
	payments repository.PaymentRepository
	log      *logger.Logger
}

// NewRecorder construye el caso de uso.
func NewRecorder(txRunner ports.TxRunner, customerLedger *ledger.CustomerLedger, payments repository.PaymentRepository, log *logger.Logger) *Recorder {
	return &Recorder{txRunner: txRunner, ledger: customerLedger, payments: payments, log: log}
}

// RecordPayment guarda el pago y descuenta amount de la deuda del cliente.
// Si viene SaleID, lo abonado se aplica también a lo pendiente de esa factura
// (hasta cubrirla); el resto queda como abono general del cliente.
func (r *Recorder) RecordPayment(ctx context.Context, userID string, in dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, domain.NewValidationError("customer_id", "requerido")
	}
	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "debe ser mayor que cero")
	}
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if method == "" {
		method = entity.PaymentMethodCash
	}
	if method == entity.PaymentMethodCredit || !entity.IsValidPaymentMethod(method) {
		return nil, domain.NewValidationError("method", "debe ser cash, bank_transfer o check")
	}

	var (
		payment *entity.Payment
		balance decimal.Decimal
	)
	err := r.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		now := time.Now().UTC()
		if _, err := repos.Customers.GetForUpdate(ctx, in.CustomerID); err != nil {
			return err
		}

		var sale *entity.Sale
		if in.SaleID != "" {
			var err error
			if sale, err = repos.Sales.GetForUpdate(ctx, in.SaleID); err != nil {
				return err
			}
			if sale.CustomerID != in.CustomerID {
				return domain.NewValidationError("sale_id", "la venta pertenece a otro cliente")
			}
			if sale.PaymentStatus == entity.PaymentStatusCancelled {
				return fmt.Errorf("%w: la venta está anulada", domain.ErrConflict)
			}
		}

		payment = &entity.Payment{
			ID:         uuid.New().String(),
			CustomerID: in.CustomerID,
			SaleID:     in.SaleID,
			Amount:     in.Amount,
			Method:     method,
			Notes:      in.Notes,
			CreatedBy:  userID,
			CreatedAt:  now,
		}
		if err := repos.Payments.Create(ctx, payment); err != nil {
			return err
		}
		var err error
		balance, err = r.ledger.AdjustDebtInTx(ctx, repos, ledger.Entry{
			CustomerID: in.CustomerID,
			Delta:      in.Amount.Neg(),
			Reason:     entity.LedgerReasonPayment,
			SaleID:     in.SaleID,
			PaymentID:  payment.ID,
			UserID:     userID,
		}, now)
		if err != nil {
			return err
		}
		if sale != nil {
			return applyToSale(ctx, repos, sale, in.Amount, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Str("payment_id", payment.ID).
		Str("customer_id", payment.CustomerID).
		Str("sale_id", payment.SaleID).
		Str("amount", payment.Amount.String()).
		Str("balance_after", balance.String()).
		Msg("pago registrado")

	return &dto.PaymentResponse{
		ID:           payment.ID,
		CustomerID:   payment.CustomerID,
		SaleID:       payment.SaleID,
		Amount:       payment.Amount,
		Method:       payment.Method,
		Notes:        payment.Notes,
		BalanceAfter: balance,
		CreatedBy:    payment.CreatedBy,
		CreatedAt:    payment.CreatedAt,
	}, nil
}

// applyToSale abona a lo pendiente de la factura. BalanceAfter baja en lo aplicado para que
// la fotografía siga cumpliendo BalanceAfter = PreviousDebtRemaining + TotalOutstanding - ExcessPayment.
func applyToSale(ctx context.Context, repos repository.TxRepos, sale *entity.Sale, amount decimal.Decimal, now time.Time) error {
	invoice, err := repos.Invoices.GetBySaleID(ctx, sale.ID)
	if err != nil {
		return err
	}
	applied := decimal.Min(amount, invoice.TotalOutstanding)
	if !applied.IsPositive() {
		return nil
	}
	invoice.PaidTowardInvoice = invoice.PaidTowardInvoice.Add(applied)
	invoice.TotalOutstanding = invoice.TotalOutstanding.Sub(applied)
	invoice.PaidAmount = invoice.PaidAmount.Add(applied)
	invoice.BalanceAfter = invoice.BalanceAfter.Sub(applied)

	status := settlement.StatusFor(invoice.PaidTowardInvoice, invoice.Total)
	if sale.PaymentStatus == entity.PaymentStatusOverdue && status != entity.PaymentStatusPaid {
		status = entity.PaymentStatusOverdue
	}
	invoice.PaymentStatus = status
	invoice.UpdatedAt = now
	if err := repos.Invoices.Update(ctx, invoice); err != nil {
		return err
	}

	sale.PaidAmount = sale.PaidAmount.Add(applied)
	sale.PaymentStatus = status
	sale.UpdatedAt = now
	return repos.Sales.Update(ctx, sale)
}

// ListByCustomer lista los pagos del cliente, del más reciente al más antiguo.
func (r *Recorder) ListByCustomer(ctx context.Context, customerID string, page dto.PageRequest) ([]dto.PaymentResponse, error) {
	page.DefaultPage()
	list, err := r.payments.ListByCustomer(ctx, customerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PaymentResponse{
			ID:         p.ID,
			CustomerID: p.CustomerID,
			SaleID:     p.SaleID,
			Amount:     p.Amount,
			Method:     p.Method,
			Notes:      p.Notes,
			CreatedBy:  p.CreatedBy,
			CreatedAt:  p.CreatedAt,
		})
	}
	return out, nil
}
