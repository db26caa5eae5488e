package sales

import (
	"context"
	"time"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

// SaleDetail venta con su factura.
type SaleDetail struct {
	Sale    dto.SaleResponse    `json:"sale"`
	Invoice dto.InvoiceResponse `json:"invoice"`
}

// GetSale obtiene la venta y su factura.
func (e *SettlementEngine) GetSale(ctx context.Context, id string) (*SaleDetail, error) {
	sale, err := e.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice, err := e.invoices.GetBySaleID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleDetail{Sale: dto.NewSaleResponse(sale), Invoice: dto.NewInvoiceResponse(invoice)}, nil
}

// MarkOverdue pasa a overdue las ventas no contado en unpaid/partial creadas hace más de olderThan.
// Cada venta se actualiza en su propia transacción y se vuelve a verificar bajo bloqueo.
func (e *SettlementEngine) MarkOverdue(ctx context.Context, olderThan time.Duration) (*dto.MarkOverdueResponse, error) {
	cutoff := e.now().Add(-olderThan)
	candidates, err := e.sales.ListOverdueCandidates(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	out := &dto.MarkOverdueResponse{Cutoff: cutoff, Updated: []string{}}
	for _, c := range candidates {
		updated := false
		err := e.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
			updated = false
			sale, err := repos.Sales.GetForUpdate(ctx, c.ID)
			if err != nil {
				return err
			}
			if sale.PaymentStatus != entity.PaymentStatusUnpaid && sale.PaymentStatus != entity.PaymentStatusPartial {
				return nil
			}
			now := e.now()
			sale.PaymentStatus = entity.PaymentStatusOverdue
			sale.UpdatedAt = now
			if err := repos.Sales.Update(ctx, sale); err != nil {
				return err
			}
			invoice, err := repos.Invoices.GetBySaleID(ctx, sale.ID)
			if err != nil {
				return err
			}
			invoice.PaymentStatus = entity.PaymentStatusOverdue
			invoice.UpdatedAt = now
			if err := repos.Invoices.Update(ctx, invoice); err != nil {
				return err
			}
			updated = true
			return nil
		})
		if err != nil {
			return nil, err
		}
		if updated {
			out.Updated = append(out.Updated, c.ID)
		}
	}

	e.log.Info().Int("updated", len(out.Updated)).Time("cutoff", cutoff).Msg("ventas marcadas como vencidas")
	return out, nil
}
