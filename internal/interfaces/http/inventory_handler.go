package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/application/inventory"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// InventoryHandler maneja restock y consultas de stock (protegido).
type InventoryHandler struct {
	restock *inventory.RestockUseCase
	engine  *inventory.AllocationEngine
}

// NewInventoryHandler construye el handler de inventario.
func NewInventoryHandler(restock *inventory.RestockUseCase, engine *inventory.AllocationEngine) *InventoryHandler {
	return &InventoryHandler{restock: restock, engine: engine}
}

// Restock registra la recepción de un lote repartido entre canales.
// POST /api/inventory/restock
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := inventory.RestockInput{
		ProductCode:      in.ProductCode,
		PhysicalQuantity: in.PhysicalQuantity,
		OnlineQuantity:   in.OnlineQuantity,
		PurchasePrice:    in.PurchasePrice,
		SupplierName:     in.SupplierName,
	}
	if in.PurchaseDate != "" {
		t, err := time.Parse("2006-01-02", in.PurchaseDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "purchase_date inválida (YYYY-MM-DD)"})
		}
		input.PurchaseDate = t
	}
	if in.ExpiryDate != "" {
		t, err := time.Parse("2006-01-02", in.ExpiryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry_date inválida (YYYY-MM-DD)"})
		}
		input.ExpiryDate = t
	}

	batch, err := h.restock.Restock(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(batch))
}

// Availability consulta el total disponible de un producto en un canal.
// GET /api/inventory/availability/:channel/:code
func (h *InventoryHandler) Availability(c *fiber.Ctx) error {
	channel := entity.Channel(c.Params("channel"))
	code := c.Params("code")
	if !channel.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "canal inválido (PHYSICAL u ONLINE)"})
	}
	available, err := h.engine.AvailableQuantity(c.Context(), channel, code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{
		ProductCode: code,
		Channel:     string(channel),
		Available:   available,
	})
}

// Batches lista los lotes disponibles de un producto en orden FIFO.
// GET /api/inventory/batches/:code
func (h *InventoryHandler) Batches(c *fiber.Ctx) error {
	batches, err := h.engine.ListBatches(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		resp = append(resp, *toBatchResponse(b))
	}
	return c.JSON(resp)
}

func toBatchResponse(b *entity.Batch) *dto.BatchResponse {
	resp := &dto.BatchResponse{
		ID:                b.ID,
		ProductCode:       b.ProductCode,
		QuantityReceived:  b.QuantityReceived,
		RemainingQuantity: b.RemainingQuantity,
		PurchaseDate:      b.PurchaseDate.Format("2006-01-02"),
		PurchasePrice:     b.PurchasePrice,
		SupplierName:      b.SupplierName,
	}
	if !b.ExpiryDate.IsZero() {
		resp.ExpiryDate = b.ExpiryDate.Format("2006-01-02")
	}
	return resp
}
