package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice es la fotografía financiera de una venta al momento de liquidarla (1:1 con Sale).
// Copia los datos de contacto del cliente y los nombres de los productos para que siga
// siendo legible aunque estos cambien o se eliminen.
//
// Invariante tras liquidar: BalanceAfter = PreviousDebtRemaining + TotalOutstanding - ExcessPayment.
type Invoice struct {
	ID              string
	SaleID          string
	InvoiceNumber   string
	CustomerID      string
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	Items           []InvoiceItem
	PaymentMethod   string
	PaymentStatus   string
	State           string

	PreviousDebt          decimal.Decimal // deuda antes de la venta; a crédito, ya descontado el abono
	Total                 decimal.Decimal
	PaidAmount            decimal.Decimal
	TotalOutstanding      decimal.Decimal // parte de esta factura que queda pendiente
	PreviousDebtRemaining decimal.Decimal // deuda previa que queda tras el abono
	PaidTowardPrevious    decimal.Decimal
	PaidTowardInvoice     decimal.Decimal
	ExcessPayment         decimal.Decimal
	BalanceAfter          decimal.Decimal // deuda del cliente después de la venta

	CancelledBy string
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceItem línea desnormalizada de la factura.
type InvoiceItem struct {
	ProductID   string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}
