package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIn         = "in"
	MovementTypeOut        = "out"
	MovementTypeAdjustment = "adjustment"
)

// StockMovement es una entrada de auditoría de inventario (solo inserción, nunca se modifica).
type StockMovement struct {
	ID             string
	ProductID      string
	Type           string // in, out, adjustment
	Quantity       int64  // siempre positivo; la dirección la da Type
	Reference      string // número de factura de venta o de compra
	QuantityOnHand int64  // existencias del producto después del movimiento
	CreatedBy      string
	CreatedAt      time.Time
}
