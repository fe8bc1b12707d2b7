package dto

import "github.com/shopspring/decimal"

// RestockRequest body para POST /api/inventory/restock: recepción de un lote
// repartido entre canales.
type RestockRequest struct {
	ProductCode      string          `json:"product_code"`
	PhysicalQuantity int             `json:"physical_quantity"`
	OnlineQuantity   int             `json:"online_quantity"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	SupplierName     string          `json:"supplier_name"`
	PurchaseDate     string          `json:"purchase_date,omitempty"` // YYYY-MM-DD
	ExpiryDate       string          `json:"expiry_date,omitempty"`   // YYYY-MM-DD
}

// BatchResponse lote en respuestas.
type BatchResponse struct {
	ID                string          `json:"id"`
	ProductCode       string          `json:"product_code"`
	QuantityReceived  int             `json:"quantity_received"`
	RemainingQuantity int             `json:"remaining_quantity"`
	PurchaseDate      string          `json:"purchase_date"`
	ExpiryDate        string          `json:"expiry_date,omitempty"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SupplierName      string          `json:"supplier_name,omitempty"`
}

// AvailabilityResponse disponibilidad de un producto en un canal.
type AvailabilityResponse struct {
	ProductCode string `json:"product_code"`
	Channel     string `json:"channel"`
	Available   int    `json:"available"`
}
