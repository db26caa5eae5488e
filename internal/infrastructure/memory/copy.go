package memory

import (
	"time"

	"github.com/jhoicas/pintureria-api/internal/domain/entity"
)

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func copyLot(l *entity.StockLot) *entity.StockLot {
	c := *l
	c.ExpiryDate = copyTime(l.ExpiryDate)
	return &c
}

func copyCustomer(cu *entity.Customer) *entity.Customer {
	c := *cu
	return &c
}

func copySale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = append([]entity.SaleItem(nil), s.Items...)
	c.CancelledAt = copyTime(s.CancelledAt)
	return &c
}

func copyInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	c.CancelledAt = copyTime(inv.CancelledAt)
	return &c
}

// page aplica limit/offset a un largo n y devuelve los índices [from, to).
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		return n, n
	}
	to := n
	if limit > 0 && offset+limit < n {
		to = offset + limit
	}
	return offset, to
}
