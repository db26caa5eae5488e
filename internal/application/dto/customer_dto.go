package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest entrada para crear un cliente.
// OpeningDebt permite migrar clientes con saldo pendiente; queda registrado en el historial.
type CreateCustomerRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	OpeningDebt decimal.Decimal `json:"opening_debt"`
}

// CustomerResponse salida de un cliente con su deuda y cupo.
type CustomerResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	Address         string          `json:"address"`
	CurrentDebt     decimal.Decimal `json:"current_debt"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LedgerTransactionResponse un movimiento del historial de deuda.
type LedgerTransactionResponse struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	Delta        decimal.Decimal `json:"delta"`
	Reason       string          `json:"reason"`
	SaleID       string          `json:"sale_id,omitempty"`
	PaymentID    string          `json:"payment_id,omitempty"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ReconcileResponse compara la deuda almacenada con la reconstruida desde el historial.
type ReconcileResponse struct {
	CustomerID string          `json:"customer_id"`
	Cached     decimal.Decimal `json:"cached"`
	Derived    decimal.Decimal `json:"derived"`
	Drift      decimal.Decimal `json:"drift"`
	Fixed      bool            `json:"fixed"`
}
