package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote de compra recibido: una cantidad de un producto a un
// precio de compra y fecha de vencimiento. Inmutable una vez recibido, salvo
// RemainingQuantity, que solo decrece (lo decrementa el motor de asignación).
// Un lote nunca se borra: con RemainingQuantity = 0 queda como registro histórico.
// Invariante: 0 <= RemainingQuantity <= QuantityReceived.
type Batch struct {
	ID                string
	ProductCode       string
	QuantityReceived  int
	RemainingQuantity int
	PurchaseDate      time.Time
	ExpiryDate        time.Time
	PurchasePrice     decimal.Decimal
	SupplierName      string
	CreatedAt         time.Time
}

// Available indica si el lote aún tiene unidades sin consumir.
func (b *Batch) Available() bool {
	return b.RemainingQuantity > 0
}
