package entity

import "time"

// Channel identifica el canal de venta. Los dos canales comparten estructura;
// la identidad viaja como parámetro en lugar de duplicar tipos por canal.
type Channel string

const (
	ChannelPhysical Channel = "PHYSICAL" // estantería física
	ChannelOnline   Channel = "ONLINE"   // reserva online
)

// Valid indica si el canal es uno de los conocidos.
func (c Channel) Valid() bool {
	return c == ChannelPhysical || c == ChannelOnline
}

// ChannelStockRow representa el stock de un producto en un canal, atado al lote
// que lo originó. El canal nunca "crea" stock por su cuenta: cada fila nace de
// un movimiento desde el ledger de lotes (restock) y decrece por asignación de
// venta o ajuste. Una fila con QuantityOnHand = 0 permanece pero no es asignable.
type ChannelStockRow struct {
	Channel        Channel
	ProductCode    string
	BatchID        string
	QuantityOnHand int
	ExpiryDate     time.Time
	UpdatedAt      time.Time
}
