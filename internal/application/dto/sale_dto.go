package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. ProductID nulo = línea sin inventario.
type SaleItemRequest struct {
	ProductID   *string         `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID    string            `json:"customer_id"`
	Items         []SaleItemRequest `json:"items"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Discount      decimal.Decimal   `json:"discount"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod string            `json:"payment_method"` // cash (por defecto), credit, bank_transfer, check
	PaidAmount    decimal.Decimal   `json:"paid_amount"`
}

// SaleItemResponse línea de venta en la respuesta.
type SaleItemResponse struct {
	ProductID   *string         `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerID    string             `json:"customer_id"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	PaymentStatus string             `json:"payment_status"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	State         string             `json:"state"`
	CreatedBy     string             `json:"created_by"`
	CancelledBy   string             `json:"cancelled_by,omitempty"`
	CancelledAt   *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// InvoiceItemResponse línea de factura.
type InvoiceItemResponse struct {
	ProductID   *string         `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse salida de la factura (fotografía de la venta).
type InvoiceResponse struct {
	ID                    string                `json:"id"`
	SaleID                string                `json:"sale_id"`
	InvoiceNumber         string                `json:"invoice_number"`
	CustomerID            string                `json:"customer_id"`
	CustomerName          string                `json:"customer_name"`
	CustomerPhone         string                `json:"customer_phone"`
	CustomerEmail         string                `json:"customer_email"`
	CustomerAddress       string                `json:"customer_address"`
	Items                 []InvoiceItemResponse `json:"items"`
	PaymentMethod         string                `json:"payment_method"`
	PaymentStatus         string                `json:"payment_status"`
	State                 string                `json:"state"`
	PreviousDebt          decimal.Decimal       `json:"previous_debt"`
	Total                 decimal.Decimal       `json:"total"`
	PaidAmount            decimal.Decimal       `json:"paid_amount"`
	TotalOutstanding      decimal.Decimal       `json:"total_outstanding"`
	PreviousDebtRemaining decimal.Decimal       `json:"previous_debt_remaining"`
	PaidTowardPrevious    decimal.Decimal       `json:"paid_toward_previous"`
	PaidTowardInvoice     decimal.Decimal       `json:"paid_toward_invoice"`
	ExcessPayment         decimal.Decimal       `json:"excess_payment"`
	BalanceAfter          decimal.Decimal       `json:"balance_after"`
	CancelledBy           string                `json:"cancelled_by,omitempty"`
	CancelledAt           *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
}

// PaymentSummary resumen del cobro para el recibo.
type PaymentSummary struct {
	SaleAmount    decimal.Decimal `json:"sale_amount"`
	PreviousDebt  decimal.Decimal `json:"previous_debt"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	ExcessPayment decimal.Decimal `json:"excess_payment"`
	FinalDebt     decimal.Decimal `json:"final_debt"`
}

// CreateSaleResponse salida de POST /api/sales.
type CreateSaleResponse struct {
	Sale           SaleResponse    `json:"sale"`
	Invoice        InvoiceResponse `json:"invoice"`
	PaymentSummary PaymentSummary  `json:"payment_summary"`
}

// CancelSaleResponse salida de POST /api/sales/:id/cancel.
type CancelSaleResponse struct {
	Sale         SaleResponse    `json:"sale"`
	Invoice      InvoiceResponse `json:"invoice"`
	Restocked    bool            `json:"restocked"`
	DebtRestored decimal.Decimal `json:"debt_restored"`
}

// MarkOverdueResponse resultado del marcado de ventas vencidas.
type MarkOverdueResponse struct {
	Cutoff  time.Time `json:"cutoff"`
	Updated []string  `json:"updated"`
}
