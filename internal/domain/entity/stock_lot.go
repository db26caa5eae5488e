package entity

import "time"

// Estados de un lote de stock.
const (
	LotStatusAvailable = "available"
	LotStatusReserved  = "reserved"
	LotStatusExpired   = "expired"
)

// StockLot representa una cantidad de un producto con lote y vencimiento opcional.
// Se crea por ingreso de compra y se descuenta (o elimina al llegar a cero) por ventas.
type StockLot struct {
	ID          string
	ProductID   string
	Quantity    int64
	BatchNumber string
	ExpiryDate  *time.Time // nil = no vence
	Status      string     // available, reserved, expired
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaleAllocation registra cuánto se tomó de cada lote en una venta.
// Permite reintegrar exactamente los mismos lotes si la venta se anula.
type SaleAllocation struct {
	ID          string
	SaleID      string
	ProductID   string
	LotID       string
	BatchNumber string
	ExpiryDate  *time.Time
	Quantity    int64
	CreatedAt   time.Time
}
