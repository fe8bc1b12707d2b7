package dto

import "github.com/shopspring/decimal"

// CreateBillRequest body para POST /api/bills.
type CreateBillRequest struct {
	StoreType       string `json:"store_type"`       // PHYSICAL | ONLINE
	TransactionType string `json:"transaction_type"` // CASH | ONLINE | CARD
	CustomerID      string `json:"customer_id,omitempty"`
	CashierID       string `json:"cashier_id,omitempty"`
}

// AddItemRequest body para POST /api/bills/:id/items.
type AddItemRequest struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// UpdateItemQuantityRequest body para PUT /api/bills/:id/items/:itemID.
type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ApplyDiscountRequest body para POST /api/bills/:id/discount.
type ApplyDiscountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CashPaymentRequest body para POST /api/bills/:id/payment/cash.
type CashPaymentRequest struct {
	Tendered decimal.Decimal `json:"tendered"`
}

// BillItemResponse línea del bill en respuestas.
type BillItemResponse struct {
	ID          string          `json:"id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	BatchID     string          `json:"batch_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// BillResponse bill completo en respuestas.
type BillResponse struct {
	ID              string             `json:"id"`
	SerialNumber    string             `json:"serial_number"`
	StoreType       string             `json:"store_type"`
	TransactionType string             `json:"transaction_type"`
	CustomerID      string             `json:"customer_id,omitempty"`
	CashierID       string             `json:"cashier_id,omitempty"`
	Status          string             `json:"status"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	TaxAmount       decimal.Decimal    `json:"tax_amount"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	TenderedAmount  *decimal.Decimal   `json:"tendered_amount,omitempty"`
	ChangeAmount    *decimal.Decimal   `json:"change_amount,omitempty"`
	BillDate        string             `json:"bill_date"`
	Items           []BillItemResponse `json:"items"`
}

// BillValidationResult resultado de la validación previa a finalizar: agrega
// todas las violaciones en lugar de detenerse en la primera.
type BillValidationResult struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
}
