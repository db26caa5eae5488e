package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una entrada del catálogo (pintura, solvente, brocha...).
// Los precios se actualizan con las compras; el stock vive en StockLot.
type Product struct {
	ID            string
	Name          string
	Category      string
	Unit          string          // galón, litro, unidad, caneca...
	PurchasePrice decimal.Decimal // último precio de compra
	SellingPrice  decimal.Decimal
	MinStockLevel int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
