package dto

import "github.com/shopspring/decimal"

// CheckoutLine una línea del carrito.
type CheckoutLine struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// CheckoutRequest body para POST /api/checkout: el camino de una sola llamada
// equivalente a create + addItem* + discount + payment + finalize.
type CheckoutRequest struct {
	StoreType       string          `json:"store_type"`
	TransactionType string          `json:"transaction_type"`
	CustomerID      string          `json:"customer_id,omitempty"`
	CashierID       string          `json:"cashier_id,omitempty"`
	Lines           []CheckoutLine  `json:"lines"`
	Discount        decimal.Decimal `json:"discount"`
	CashTendered    decimal.Decimal `json:"cash_tendered,omitempty"`
}

// CheckoutItemResult detalle por línea en un checkout exitoso.
type CheckoutItemResult struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	BatchID     string          `json:"batch_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CheckoutResult resultado del checkout. Las violaciones de reglas de negocio
// nunca se lanzan como error: llegan todas juntas en Failures para que la
// pantalla de cobro muestre cada problema de una vez.
type CheckoutResult struct {
	Success      bool                 `json:"success"`
	Failures     []string             `json:"failures,omitempty"`
	BillID       string               `json:"bill_id,omitempty"`
	SerialNumber string               `json:"serial_number,omitempty"`
	Subtotal     decimal.Decimal      `json:"subtotal"`
	Discount     decimal.Decimal      `json:"discount"`
	Tax          decimal.Decimal      `json:"tax"`
	Total        decimal.Decimal      `json:"total"`
	Tendered     decimal.Decimal      `json:"tendered"`
	Change       decimal.Decimal      `json:"change"`
	Items        []CheckoutItemResult `json:"items,omitempty"`
}
