package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de un movimiento de deuda.
const (
	LedgerReasonCreditSale           = "credit_sale"
	LedgerReasonCashSettlement       = "cash_settlement"
	LedgerReasonPayment              = "payment"
	LedgerReasonCancellationReversal = "cancellation_reversal"
	LedgerReasonOpeningBalance       = "opening_balance" // saldo con el que se da de alta al cliente
)

// LedgerTransaction es un cambio en la deuda de un cliente. La suma de los Delta de un
// cliente reconstruye su CurrentDebt. Solo inserción.
type LedgerTransaction struct {
	ID           string
	CustomerID   string
	Delta        decimal.Decimal // positivo aumenta lo que debe el cliente
	Reason       string
	SaleID       string // opcional
	PaymentID    string // opcional
	BalanceAfter decimal.Decimal
	CreatedBy    string
	CreatedAt    time.Time
}

// DebtPayment registra el abono a deuda previa cobrado dentro de una venta.
// Reemplaza las "ventas" sin producto que se usaban como comprobante del abono.
type DebtPayment struct {
	ID         string
	CustomerID string
	SaleID     string
	Amount     decimal.Decimal
	Method     string
	CreatedBy  string
	CreatedAt  time.Time
}

// Payment es un pago recibido fuera de una venta, opcionalmente ligado a una.
// Afecta la deuda del cliente (y la venta) una única vez, al crearse.
type Payment struct {
	ID         string
	CustomerID string
	SaleID     string // opcional
	Amount     decimal.Decimal
	Method     string
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
}
