package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Code es el código de negocio
// (único) con el que operan ventas e inventario; Price es el precio de venta.
// El stock nunca vive aquí: se maneja por lotes (Batch) y canales (ChannelStockRow).
type Product struct {
	ID          string
	Code        string // código único de producto, ej. "TEST-001"
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta unitario
	TaxRate     decimal.Decimal // fracción: 0, 0.05, 0.19
	Active      bool            // productos inactivos no se venden
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
