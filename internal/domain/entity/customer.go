package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente del almacén.
// CurrentDebt es el saldo que el cliente le debe al negocio (puede quedar negativo por sobrepago);
// es un caché derivado de LedgerTransaction. CreditLimit solo se valida al aceptar ventas a crédito.
type Customer struct {
	ID          string
	Name        string
	Phone       string
	Email       string
	Address     string
	CurrentDebt decimal.Decimal
	CreditLimit decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AvailableCredit devuelve el cupo restante (puede ser negativo).
func (c *Customer) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.CurrentDebt)
}
