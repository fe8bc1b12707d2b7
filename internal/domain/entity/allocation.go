package entity

import "time"

// BatchAllocation es una entrada transitoria del plan de asignación: qué
// cantidad de qué lote satisface una porción de la venta. La produce el motor
// de asignación en orden FIFO y la consume el checkout para confirmar las
// reducciones; no se persiste por sí sola.
type BatchAllocation struct {
	BatchID     string
	ProductCode string
	Quantity    int
	ExpiryDate  time.Time
}
