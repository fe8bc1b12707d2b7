package repository

import "github.com/jhoicas/retail-pos-api/internal/domain/entity"

// ChannelStockRepository define el puerto sobre las filas de stock por canal.
// Una sola abstracción parametrizada por canal: físico y online comparten
// estructura y lógica.
type ChannelStockRepository interface {
	// FindAvailableByProduct devuelve las filas con QuantityOnHand > 0 en orden
	// FIFO por antigüedad del lote asociado.
	FindAvailableByProduct(channel entity.Channel, productCode string) ([]*entity.ChannelStockRow, error)
	// TotalAvailable suma QuantityOnHand de todas las filas del producto.
	TotalAvailable(channel entity.Channel, productCode string) (int, error)
	// Reduce resta qty de la fila (canal, producto, lote) de forma condicional:
	// false si la fila ya no tiene esa cantidad. Es la frontera de atomicidad
	// con la que se tolera la ventana check-then-commit.
	Reduce(channel entity.Channel, productCode, batchID string, qty int) (bool, error)
	// Upsert crea o incrementa la fila (restock desde el ledger de lotes).
	Upsert(row *entity.ChannelStockRow) error
}
