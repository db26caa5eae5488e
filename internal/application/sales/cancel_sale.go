package sales

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/application/ledger"
	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

// CancelSale anula una venta de contado (una sola vez). Siempre marca venta y factura como
// cancelled con paidAmount 0; según Config además reintegra los lotes descontados y
// restituye la deuda previa que la venta había saldado.
func (e *SettlementEngine) CancelSale(ctx context.Context, userID, saleID string) (*dto.CancelSaleResponse, error) {
	// Lectura sin bloqueo solo para conocer el cliente y respetar el orden cliente -> venta
	current, err := e.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	var (
		sale      *entity.Sale
		invoice   *entity.Invoice
		restocked int64
		restored  decimal.Decimal
	)
	err = e.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		now := e.now()
		restocked, restored = 0, decimal.Zero

		if _, err := repos.Customers.GetForUpdate(ctx, current.CustomerID); err != nil {
			return err
		}
		sale, err = repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale.PaymentMethod != entity.PaymentMethodCash {
			return fmt.Errorf("%w: solo se pueden anular ventas de contado", domain.ErrConflict)
		}
		if !sale.IsCancellable() {
			return fmt.Errorf("%w: la venta ya está anulada", domain.ErrConflict)
		}
		invoice, err = repos.Invoices.GetBySaleID(ctx, saleID)
		if err != nil {
			return err
		}

		if e.cfg.CancelRestock {
			if restocked, err = e.stock.RestockInTx(ctx, repos, sale.ID, sale.InvoiceNumber, userID, now); err != nil {
				return err
			}
		}
		if e.cfg.CancelRestoreDebt && !invoice.PreviousDebt.IsZero() {
			// La venta de contado llevó la deuda de PreviousDebt a cero; se revierte ese delta.
			if _, err := e.ledger.AdjustDebtInTx(ctx, repos, ledger.Entry{
				CustomerID: sale.CustomerID,
				Delta:      invoice.PreviousDebt,
				Reason:     entity.LedgerReasonCancellationReversal,
				SaleID:     sale.ID,
				UserID:     userID,
			}, now); err != nil {
				return err
			}
			restored = invoice.PreviousDebt
		}

		sale.PaymentStatus = entity.PaymentStatusCancelled
		sale.PaidAmount = decimal.Zero
		sale.CancelledBy = userID
		sale.CancelledAt = &now
		sale.UpdatedAt = now
		if err := repos.Sales.Update(ctx, sale); err != nil {
			return err
		}

		invoice.PaymentStatus = entity.PaymentStatusCancelled
		invoice.PaidAmount = decimal.Zero
		invoice.CancelledBy = userID
		invoice.CancelledAt = &now
		invoice.UpdatedAt = now
		return repos.Invoices.Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("sale_id", sale.ID).
		Str("invoice_number", sale.InvoiceNumber).
		Str("cancelled_by", userID).
		Int64("restocked_units", restocked).
		Str("debt_restored", restored.String()).
		Msg("venta anulada")

	return &dto.CancelSaleResponse{
		Sale:         dto.NewSaleResponse(sale),
		Invoice:      dto.NewInvoiceResponse(invoice),
		Restocked:    restocked > 0,
		DebtRestored: restored,
	}, nil
}
