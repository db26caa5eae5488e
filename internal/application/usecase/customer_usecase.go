package usecase

import (
	"context"
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
)

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	txRunner ports.TxRunner
	repo     repository.CustomerRepository
	ledger   *ledger.CustomerLedger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(txRunner ports.TxRunner, repo repository.CustomerRepository, customerLedger *ledger.CustomerLedger) *CustomerUseCase {
	return &CustomerUseCase{txRunner: txRunner, repo: repo, ledger: customerLedger}
}

// Create crea un cliente. Si trae saldo inicial, entra a la deuda como movimiento
// opening_balance para que el historial reconstruya el saldo desde el primer día.
func (uc *CustomerUseCase) Create(ctx context.Context, userID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	if in.CreditLimit.IsNegative() {
		return nil, domain.NewValidationError("credit_limit", "no puede ser negativo")
	}
	now := time.Now().UTC()
	customer := &entity.Customer{
		ID:          uuid.New().String(),
		Name:        name,
		Phone:       in.Phone,
		Email:       in.Email,
		Address:     in.Address,
		CurrentDebt: decimal.Zero,
		CreditLimit: in.CreditLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		customer.CurrentDebt = decimal.Zero
		if err := repos.Customers.Create(ctx, customer); err != nil {
			return err
		}
		balance, err := uc.ledger.AdjustDebtInTx(ctx, repos, ledger.Entry{
			CustomerID: customer.ID,
			Delta:      in.OpeningDebt,
			Reason:     entity.LedgerReasonOpeningBalance,
			UserID:     userID,
		}, now)
		if err != nil {
			return err
		}
		customer.CurrentDebt = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewCustomerResponse(customer)
	return &out, nil
}

// GetByID obtiene un cliente con su deuda actual.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCustomerResponse(c)
	return &out, nil
}

// List lista clientes.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCustomerResponse(c))
	}
	return out, nil
}
