package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository         = (*SaleRepo)(nil)
	_ repository.InvoiceRepository      = (*InvoiceRepo)(nil)
	_ repository.InvoiceNumberGenerator = (*Store)(nil)
	_ repository.UserRepository         = (*UserRepo)(nil)
)

// Next entrega el siguiente número de factura (INV-000001, INV-000002...).
func (s *Store) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("INV-%06d", s.seq), nil
}

// SaleRepo ventas en memoria.
type SaleRepo struct{ h handle }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, s := range st.sales {
			if s.InvoiceNumber == sale.InvoiceNumber {
				return domain.ErrDuplicate
			}
		}
		st.sales[sale.ID] = copySale(sale)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.read(func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = copySale(s)
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

// Update reescribe los campos mutables; las líneas no cambian.
func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	return r.h.write(func(st *state) error {
		s, ok := st.sales[sale.ID]
		if !ok {
			return domain.ErrNotFound
		}
		s.Total = sale.Total
		s.PaidAmount = sale.PaidAmount
		s.PaymentStatus = sale.PaymentStatus
		s.State = sale.State
		s.CancelledBy = sale.CancelledBy
		s.CancelledAt = copyTime(sale.CancelledAt)
		s.UpdatedAt = sale.UpdatedAt
		return nil
	})
}

func (r *SaleRepo) ListOverdueCandidates(_ context.Context, cutoff time.Time) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.h.read(func(st *state) error {
		for _, s := range st.sales {
			if s.PaymentMethod == entity.PaymentMethodCash {
				continue
			}
			if s.PaymentStatus != entity.PaymentStatusUnpaid && s.PaymentStatus != entity.PaymentStatusPartial {
				continue
			}
			if s.CreatedAt.Before(cutoff) {
				out = append(out, copySale(s))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ h handle }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.invoices[inv.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, i := range st.invoices {
			if i.SaleID == inv.SaleID {
				return domain.ErrDuplicate
			}
		}
		st.invoices[inv.ID] = copyInvoice(inv)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.h.read(func(st *state) error {
		inv, ok := st.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = copyInvoice(inv)
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetBySaleID(_ context.Context, saleID string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.h.read(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.SaleID == saleID {
				out = copyInvoice(inv)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

// Update reescribe los campos financieros, estado y anulación.
func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	return r.h.write(func(st *state) error {
		cur, ok := st.invoices[inv.ID]
		if !ok {
			return domain.ErrNotFound
		}
		items := cur.Items
		*cur = *copyInvoice(inv)
		cur.Items = items
		return nil
	})
}

// UserRepo usuarios en memoria.
type UserRepo struct{ h handle }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.h.write(func(st *state) error {
		for _, existing := range st.users {
			if existing.Email == u.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		c := *u
		st.users[u.ID] = &c
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.h.read(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		c := *u
		out = &c
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.h.read(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				c := *u
				out = &c
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}
