package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/internal/application/billing"
	"github.com/jhoicas/retail-pos-api/internal/application/dto"
)

// BillHandler maneja el ciclo de vida del bill vía HTTP (protegido).
type BillHandler struct {
	uc *billing.BillUseCase
}

// NewBillHandler construye el handler de bills.
func NewBillHandler(uc *billing.BillUseCase) *BillHandler {
	return &BillHandler{uc: uc}
}

// Create crea un bill en progreso.
// POST /api/bills
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// El cajero sale del token cuando no viene en el cuerpo.
	if in.CashierID == "" {
		in.CashierID = GetUserID(c)
	}
	bill, err := h.uc.CreateBill(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bill)
}

// GetByID obtiene un bill (en progreso o finalizado).
// GET /api/bills/:id
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	bill, err := h.uc.GetBill(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// AddItem agrega un producto al bill asignando stock del canal.
// POST /api/bills/:id/items
func (h *BillHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	bill, err := h.uc.AddItem(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// UpdateItemQuantity cambia la cantidad de una línea.
// PUT /api/bills/:id/items/:itemID
func (h *BillHandler) UpdateItemQuantity(c *fiber.Ctx) error {
	var in dto.UpdateItemQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	bill, err := h.uc.UpdateItemQuantity(c.Context(), c.Params("id"), c.Params("itemID"), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// RemoveItem elimina una línea del bill.
// DELETE /api/bills/:id/items/:itemID
func (h *BillHandler) RemoveItem(c *fiber.Ctx) error {
	bill, err := h.uc.RemoveItem(c.Context(), c.Params("id"), c.Params("itemID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// ClearItems elimina todas las líneas del bill.
// DELETE /api/bills/:id/items
func (h *BillHandler) ClearItems(c *fiber.Ctx) error {
	bill, err := h.uc.ClearItems(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// ApplyDiscount fija el descuento del bill.
// POST /api/bills/:id/discount
func (h *BillHandler) ApplyDiscount(c *fiber.Ctx) error {
	var in dto.ApplyDiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	bill, err := h.uc.ApplyDiscount(c.Context(), c.Params("id"), in.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// CashPayment registra un pago en efectivo (solo tiendas físicas).
// POST /api/bills/:id/payment/cash
func (h *BillHandler) CashPayment(c *fiber.Ctx) error {
	var in dto.CashPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	bill, err := h.uc.ProcessCashPayment(c.Context(), c.Params("id"), in.Tendered)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// OnlinePayment registra un pago online (solo tiendas online).
// POST /api/bills/:id/payment/online
func (h *BillHandler) OnlinePayment(c *fiber.Ctx) error {
	bill, err := h.uc.ProcessOnlinePayment(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// Validate agrega todas las violaciones que impiden finalizar.
// GET /api/bills/:id/validate
func (h *BillHandler) Validate(c *fiber.Ctx) error {
	result, err := h.uc.ValidateForFinalization(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Finalize cierra el bill: revalida, persiste como finalizado y lo saca del registro.
// POST /api/bills/:id/finalize
func (h *BillHandler) Finalize(c *fiber.Ctx) error {
	bill, err := h.uc.FinalizeBill(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// Cancel cancela un bill en progreso (borra bill e items).
// DELETE /api/bills/:id
func (h *BillHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.CancelBill(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt devuelve el PDF del recibo de un bill finalizado.
// GET /api/bills/:id/receipt
func (h *BillHandler) Receipt(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.Receipt(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="receipt.pdf"`)
	return c.Send(pdfBytes)
}
