package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/application/ledger"
	"github.com/jhoicas/pintureria-api/internal/application/payments"
	"github.com/jhoicas/pintureria-api/internal/application/usecase"
)

// CustomerHandler maneja clientes, su historial de deuda y sus pagos (protegido).
type CustomerHandler struct {
	uc       *usecase.CustomerUseCase
	ledger   *ledger.CustomerLedger
	payments *payments.Recorder
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase, customerLedger *ledger.CustomerLedger, recorder *payments.Recorder) *CustomerHandler {
	return &CustomerHandler{uc: uc, ledger: customerLedger, payments: recorder}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "Datos del cliente; opening_debt opcional"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	customer, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// List GET /api/customers?limit=20&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	customer, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

// Ledger godoc
// @Summary      Historial de deuda del cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID del cliente"
// @Param        limit   query     int     false  "Límite"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {array}   dto.LedgerTransactionResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/ledger [get]
func (h *CustomerHandler) Ledger(c *fiber.Ctx) error {
	list, err := h.ledger.Transactions(c.UserContext(), c.Params("id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Reconcile godoc
// @Summary      Conciliar deuda con el historial
// @Description  Compara current_debt con la suma del historial. Con fix=true corrige la diferencia.
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true   "ID del cliente"
// @Param        fix  query     bool    false  "Corregir la deuda almacenada"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/ledger/reconcile [post]
func (h *CustomerHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.ledger.Reconcile(c.UserContext(), c.Params("id"), c.QueryBool("fix", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Payments GET /api/customers/:id/payments
func (h *CustomerHandler) Payments(c *fiber.Ctx) error {
	list, err := h.payments.ListByCustomer(c.UserContext(), c.Params("id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
