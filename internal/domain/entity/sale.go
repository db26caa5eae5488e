package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCredit       = "credit"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheck        = "check"
)

// Estados de pago de una venta.
const (
	PaymentStatusPaid      = "paid"
	PaymentStatusPartial   = "partial"
	PaymentStatusUnpaid    = "unpaid"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"
)

// Estados del documento: se crea en borrador y pasa a liquidado cuando se resuelve
// el reparto del pago entre deuda previa y factura.
const (
	DocumentStateDraft   = "draft"
	DocumentStateSettled = "settled"
)

// IsValidPaymentMethod indica si m es un método de pago soportado.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCredit, PaymentMethodBankTransfer, PaymentMethodCheck:
		return true
	}
	return false
}

// Sale es el registro transaccional de una venta.
// Total, PaidAmount y PaymentStatus se reescriben al liquidar (Draft -> Settled).
type Sale struct {
	ID            string
	InvoiceNumber string
	CustomerID    string
	Items         []SaleItem
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	PaymentStatus string
	PaidAmount    decimal.Decimal
	State         string
	CreatedBy     string
	CancelledBy   string
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem es una línea de venta. ProductID vacío = línea sin inventario (ej. servicio de tinturado).
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// IsCancellable indica si la venta admite anulación (solo contado y una sola vez).
func (s *Sale) IsCancellable() bool {
	return s.PaymentMethod == PaymentMethodCash && s.PaymentStatus != PaymentStatusCancelled
}
