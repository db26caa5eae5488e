package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/application/payments"
)

// PaymentHandler registra pagos de clientes fuera de una venta (protegido).
type PaymentHandler struct {
	recorder *payments.Recorder
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(recorder *payments.Recorder) *PaymentHandler {
	return &PaymentHandler{recorder: recorder}
}

// Record godoc
// @Summary      Registrar pago
// @Description  Reduce la deuda del cliente. Con sale_id abona además a esa venta.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPaymentRequest  true  "customer_id, sale_id, amount, method"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.recorder.RecordPayment(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
