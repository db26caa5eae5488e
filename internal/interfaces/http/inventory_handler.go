package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/application/inventory"
)

// InventoryHandler maneja ingreso de mercancía, lotes, bitácora y reposición (protegido).
type InventoryHandler struct {
	stock         *inventory.StockLedger
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockLedger, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, replenishment: replenishment}
}

// Intake godoc
// @Summary      Registrar ingreso de mercancía
// @Description  Crea un lote nuevo y un movimiento de entrada. Con unit_cost recalcula el costo promedio.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IntakeRequest  true  "product_id, quantity, batch_number, expiry_date (YYYY-MM-DD)"
// @Success      201   {object}  dto.StockLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/intake [post]
func (h *InventoryHandler) Intake(c *fiber.Ctx) error {
	var in dto.IntakeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lot, err := h.stock.Intake(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lot)
}

// ListLots godoc
// @Summary      Lotes de un producto en orden FEFO
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query     string  true  "ID del producto"
// @Success      200         {array}   dto.StockLotResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	lots, err := h.stock.ListLots(c.UserContext(), c.Query("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lots)
}

// ListMovements godoc
// @Summary      Bitácora de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query     string  true   "ID del producto"
// @Param        limit       query     int     false  "Límite"
// @Param        offset      query     int     false  "Desplazamiento"
// @Success      200         {array}   dto.StockMovementResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	list, err := h.stock.ListMovements(c.UserContext(), c.Query("product_id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos por debajo de su stock mínimo con la cantidad sugerida de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
