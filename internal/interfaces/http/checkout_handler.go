package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/internal/application/billing"
	"github.com/jhoicas/retail-pos-api/internal/application/dto"
)

// CheckoutHandler maneja el checkout de una sola llamada (protegido).
type CheckoutHandler struct {
	uc *billing.CheckoutUseCase
}

// NewCheckoutHandler construye el handler de checkout.
func NewCheckoutHandler(uc *billing.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

// Checkout valida el carrito completo y confirma la venta en una transacción.
// Las violaciones de negocio llegan en el cuerpo (Success=false, Failures),
// nunca como error HTTP: 200 con el resultado agregado.
// POST /api/checkout
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CashierID == "" {
		in.CashierID = GetUserID(c)
	}
	result, err := h.uc.Checkout(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
