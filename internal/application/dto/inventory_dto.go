package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntakeRequest body para POST /api/inventory/intake (ingreso de mercancía).
// ExpiryDate en formato YYYY-MM-DD; vacío = no vence.
type IntakeRequest struct {
	ProductID   string           `json:"product_id"`
	Quantity    int64            `json:"quantity"`
	BatchNumber string           `json:"batch_number"`
	ExpiryDate  string           `json:"expiry_date,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference   string           `json:"reference,omitempty"` // número de factura del proveedor
}

// StockLotResponse salida de un lote.
type StockLotResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Quantity    int64     `json:"quantity"`
	BatchNumber string    `json:"batch_number"`
	ExpiryDate  *string   `json:"expiry_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockMovementResponse salida de un movimiento de inventario.
type StockMovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	Type           string    `json:"type"`
	Quantity       int64     `json:"quantity"`
	Reference      string    `json:"reference"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReplenishmentSuggestion sugerencia de reposición para un producto bajo su mínimo.
type ReplenishmentSuggestion struct {
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int64           `json:"current_stock"`
	MinStockLevel      int64           `json:"min_stock_level"`
	IdealStock         int64           `json:"ideal_stock"`         // mínimo * 1.5
	SuggestedOrderQty  int64           `json:"suggested_order_qty"` // ideal - existencias
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
