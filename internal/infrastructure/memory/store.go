// Package memory implementa todos los puertos de persistencia en memoria.
// Sirve para desarrollo local (STORAGE_DRIVER=memory) y para los tests de casos de uso.
// Las transacciones son serializables: una sola a la vez, con snapshot para rollback.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/pintureria-api/internal/application/ports"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store guarda el estado completo detrás de un RWMutex.
type Store struct {
	mu    sync.RWMutex
	state *state
	seq   int64 // consecutivo de facturas; no retrocede con un rollback
}

type state struct {
	products     map[string]*entity.Product
	lots         map[string]*entity.StockLot
	allocations  []*entity.SaleAllocation
	movements    []*entity.StockMovement
	customers    map[string]*entity.Customer
	ledger       []*entity.LedgerTransaction
	payments     []*entity.Payment
	debtPayments []*entity.DebtPayment
	sales        map[string]*entity.Sale
	invoices     map[string]*entity.Invoice
	users        map[string]*entity.User
}

// New crea un store vacío.
func New() *Store {
	return &Store{state: newState()}
}

func newState() *state {
	return &state{
		products:  make(map[string]*entity.Product),
		lots:      make(map[string]*entity.StockLot),
		customers: make(map[string]*entity.Customer),
		sales:     make(map[string]*entity.Sale),
		invoices:  make(map[string]*entity.Invoice),
		users:     make(map[string]*entity.User),
	}
}

// clone copia el estado completo. Las entidades se copian por valor, así que
// los punteros del snapshot no comparten memoria con el estado vivo.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range s.lots {
		c.lots[k] = copyLot(v)
	}
	for _, v := range s.allocations {
		a := *v
		c.allocations = append(c.allocations, &a)
	}
	for _, v := range s.movements {
		m := *v
		c.movements = append(c.movements, &m)
	}
	for k, v := range s.customers {
		c.customers[k] = copyCustomer(v)
	}
	for _, v := range s.ledger {
		t := *v
		c.ledger = append(c.ledger, &t)
	}
	for _, v := range s.payments {
		p := *v
		c.payments = append(c.payments, &p)
	}
	for _, v := range s.debtPayments {
		p := *v
		c.debtPayments = append(c.debtPayments, &p)
	}
	for k, v := range s.sales {
		c.sales[k] = copySale(v)
	}
	for k, v := range s.invoices {
		c.invoices[k] = copyInvoice(v)
	}
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	return c
}

// handle da acceso al estado. Fuera de una transacción toma el lock en cada llamada;
// dentro, el lock ya lo tiene Run.
type handle struct {
	s    *Store
	inTx bool
}

func (h handle) read(fn func(st *state) error) error {
	if h.inTx {
		return fn(h.s.state)
	}
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	return fn(h.s.state)
}

func (h handle) write(fn func(st *state) error) error {
	if h.inTx {
		return fn(h.s.state)
	}
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return fn(h.s.state)
}

func reposFor(h handle) repository.TxRepos {
	return repository.TxRepos{
		Products:  &ProductRepo{h: h},
		Lots:      &StockLotRepo{h: h},
		Movements: &StockMovementRepo{h: h},
		Customers: &CustomerRepo{h: h},
		Ledger:    &LedgerRepo{h: h},
		Payments:  &PaymentRepo{h: h},
		Sales:     &SaleRepo{h: h},
		Invoices:  &InvoiceRepo{h: h},
	}
}

// Repos devuelve repositorios fuera de transacción (cada llamada es atómica por sí sola).
func (s *Store) Repos() repository.TxRepos {
	return reposFor(handle{s: s})
}

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() repository.UserRepository {
	return &UserRepo{h: handle{s: s}}
}

// Run ejecuta fn con el store bloqueado. Si fn falla (o entra en pánico) el estado vuelve
// al snapshot tomado al inicio.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	committed := false
	defer func() {
		if !committed {
			s.state = snapshot
		}
	}()

	if err := fn(ctx, reposFor(handle{s: s, inTx: true})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	committed = true
	return nil
}
