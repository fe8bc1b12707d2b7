package entity

import "github.com/shopspring/decimal"

// BillItem representa una línea del bill. Una línea de carrito puede expandirse
// en varios BillItems si la cantidad cruza lotes: se crea un item por cada
// entrada del plan de asignación, de modo que BatchID registre el origen exacto
// de las unidades vendidas (referencia no-dueña, solo auditoría).
// Invariante: LineTotal = UnitPrice * Quantity.
type BillItem struct {
	ID          string
	BillID      string
	ProductCode string
	ProductName string
	BatchID     string // lote del que se asignaron las unidades
	Quantity    int
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	LineTotal   decimal.Decimal
}
