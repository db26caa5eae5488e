package dto

import (
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// NewSaleResponse convierte la entidad Sale.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID:   optionalID(it.ProductID),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return SaleResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		CustomerID:    s.CustomerID,
		Items:         items,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		PaymentStatus: s.PaymentStatus,
		PaidAmount:    s.PaidAmount,
		State:         s.State,
		CreatedBy:     s.CreatedBy,
		CancelledBy:   s.CancelledBy,
		CancelledAt:   s.CancelledAt,
		CreatedAt:     s.CreatedAt,
	}
}

// NewInvoiceResponse convierte la entidad Invoice.
func NewInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ProductID:   optionalID(it.ProductID),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return InvoiceResponse{
		ID:                    inv.ID,
		SaleID:                inv.SaleID,
		InvoiceNumber:         inv.InvoiceNumber,
		CustomerID:            inv.CustomerID,
		CustomerName:          inv.CustomerName,
		CustomerPhone:         inv.CustomerPhone,
		CustomerEmail:         inv.CustomerEmail,
		CustomerAddress:       inv.CustomerAddress,
		Items:                 items,
		PaymentMethod:         inv.PaymentMethod,
		PaymentStatus:         inv.PaymentStatus,
		State:                 inv.State,
		PreviousDebt:          inv.PreviousDebt,
		Total:                 inv.Total,
		PaidAmount:            inv.PaidAmount,
		TotalOutstanding:      inv.TotalOutstanding,
		PreviousDebtRemaining: inv.PreviousDebtRemaining,
		PaidTowardPrevious:    inv.PaidTowardPrevious,
		PaidTowardInvoice:     inv.PaidTowardInvoice,
		ExcessPayment:         inv.ExcessPayment,
		BalanceAfter:          inv.BalanceAfter,
		CancelledBy:           inv.CancelledBy,
		CancelledAt:           inv.CancelledAt,
		CreatedAt:             inv.CreatedAt,
	}
}

// NewProductResponse convierte la entidad Product.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		MinStockLevel: p.MinStockLevel,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewCustomerResponse convierte la entidad Customer.
func NewCustomerResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		Email:           c.Email,
		Address:         c.Address,
		CurrentDebt:     c.CurrentDebt,
		CreditLimit:     c.CreditLimit,
		AvailableCredit: c.AvailableCredit(),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// NewStockLotResponse convierte la entidad StockLot.
func NewStockLotResponse(l *entity.StockLot) StockLotResponse {
	var expiry *string
	if l.ExpiryDate != nil {
		s := l.ExpiryDate.Format(dateLayout)
		expiry = &s
	}
	return StockLotResponse{
		ID:          l.ID,
		ProductID:   l.ProductID,
		Quantity:    l.Quantity,
		BatchNumber: l.BatchNumber,
		ExpiryDate:  expiry,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt,
	}
}

// NewStockMovementResponse convierte la entidad StockMovement.
func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		Reference:      m.Reference,
		QuantityOnHand: m.QuantityOnHand,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

// NewLedgerTransactionResponse convierte la entidad LedgerTransaction.
func NewLedgerTransactionResponse(t *entity.LedgerTransaction) LedgerTransactionResponse {
	return LedgerTransactionResponse{
		ID:           t.ID,
		CustomerID:   t.CustomerID,
		Delta:        t.Delta,
		Reason:       t.Reason,
		SaleID:       t.SaleID,
		PaymentID:    t.PaymentID,
		BalanceAfter: t.BalanceAfter,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
	}
}

// NewUserResponse convierte la entidad User (sin hash).
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
