package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

var _ repository.ChannelStockRepository = (*ChannelStockRepo)(nil)

// ChannelStockRepo implementación del stock por canal sobre PostgreSQL (usable
// con pool o tx). Una sola tabla parametrizada por canal: PHYSICAL y ONLINE
// comparten estructura y consultas.
type ChannelStockRepo struct {
	q Querier
}

// NewChannelStockRepository construye el adaptador de stock por canal. Pasar pool o tx (Querier).
func NewChannelStockRepository(q Querier) *ChannelStockRepo {
	return &ChannelStockRepo{q: q}
}

// FindAvailableByProduct devuelve las filas con unidades en orden FIFO: el
// orden lo da la antigüedad del lote asociado, no la fila de canal.
func (r *ChannelStockRepo) FindAvailableByProduct(channel entity.Channel, productCode string) ([]*entity.ChannelStockRow, error) {
	query := `
		SELECT cs.channel, cs.product_code, cs.batch_id, cs.quantity_on_hand, b.expiry_date, cs.updated_at
		FROM channel_stock cs
		JOIN batches b ON b.id = cs.batch_id
		WHERE cs.channel = $1 AND cs.product_code = $2 AND cs.quantity_on_hand > 0
		ORDER BY b.purchase_date ASC, b.created_at ASC`
	rows, err := r.q.Query(context.Background(), query, string(channel), productCode)
	if err != nil {
		return nil, fmt.Errorf("list channel stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.ChannelStockRow
	for rows.Next() {
		var row entity.ChannelStockRow
		var expiry *time.Time
		if err := rows.Scan(&row.Channel, &row.ProductCode, &row.BatchID, &row.QuantityOnHand, &expiry, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan channel stock: %w", err)
		}
		if expiry != nil {
			row.ExpiryDate = *expiry
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// TotalAvailable suma las unidades del producto en el canal.
func (r *ChannelStockRepo) TotalAvailable(channel entity.Channel, productCode string) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity_on_hand), 0)
		FROM channel_stock WHERE channel = $1 AND product_code = $2`
	var total int
	err := r.q.QueryRow(context.Background(), query, string(channel), productCode).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total channel stock: %w", err)
	}
	return total, nil
}

// Reduce resta qty de la fila (canal, producto, lote) de forma condicional: la
// cláusula quantity_on_hand >= $4 hace del UPDATE la frontera de atomicidad;
// RowsAffected == 0 significa que otro caller ganó la carrera.
func (r *ChannelStockRepo) Reduce(channel entity.Channel, productCode, batchID string, qty int) (bool, error) {
	query := `
		UPDATE channel_stock
		SET quantity_on_hand = quantity_on_hand - $4, updated_at = now()
		WHERE channel = $1 AND product_code = $2 AND batch_id = $3 AND quantity_on_hand >= $4`
	cmd, err := r.q.Exec(context.Background(), query, string(channel), productCode, batchID, qty)
	if err != nil {
		return false, fmt.Errorf("reduce channel stock: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// Upsert crea o incrementa la fila (restock: las unidades entran desde el ledger de lotes).
func (r *ChannelStockRepo) Upsert(row *entity.ChannelStockRow) error {
	query := `
		INSERT INTO channel_stock (channel, product_code, batch_id, quantity_on_hand, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (channel, product_code, batch_id)
		DO UPDATE SET quantity_on_hand = channel_stock.quantity_on_hand + EXCLUDED.quantity_on_hand, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		string(row.Channel), row.ProductCode, row.BatchID, row.QuantityOnHand,
	)
	if err != nil {
		return fmt.Errorf("upsert channel stock: %w", err)
	}
	return nil
}
