package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación del ledger de lotes sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote recién recibido (RemainingQuantity = QuantityReceived).
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (id, product_code, quantity_received, remaining_quantity, purchase_date, expiry_date, purchase_price, supplier_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ProductCode, batch.QuantityReceived, batch.RemainingQuantity,
		batch.PurchaseDate, nullableTime(batch.ExpiryDate), batch.PurchasePrice, batch.SupplierName, batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por id.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `
		SELECT id, product_code, quantity_received, remaining_quantity, purchase_date, expiry_date, purchase_price, supplier_name, created_at
		FROM batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// FindAvailableByProduct devuelve los lotes con unidades restantes en orden
// FIFO: más antiguo primero, con created_at como desempate estable.
func (r *BatchRepo) FindAvailableByProduct(productCode string) ([]*entity.Batch, error) {
	query := `
		SELECT id, product_code, quantity_received, remaining_quantity, purchase_date, expiry_date, purchase_price, supplier_name, created_at
		FROM batches
		WHERE product_code = $1 AND remaining_quantity > 0
		ORDER BY purchase_date ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, productCode)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// DecrementRemaining resta qty de forma condicional: la fila solo cambia si
// todavía tiene esa cantidad. RowsAffected == 0 significa carrera perdida.
func (r *BatchRepo) DecrementRemaining(batchID string, qty int) (bool, error) {
	query := `
		UPDATE batches SET remaining_quantity = remaining_quantity - $2
		WHERE id = $1 AND remaining_quantity >= $2`
	cmd, err := r.q.Exec(context.Background(), query, batchID, qty)
	if err != nil {
		return false, fmt.Errorf("decrement batch: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var expiry *time.Time
	err := row.Scan(
		&b.ID, &b.ProductCode, &b.QuantityReceived, &b.RemainingQuantity,
		&b.PurchaseDate, &expiry, &b.PurchasePrice, &b.SupplierName, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiry != nil {
		b.ExpiryDate = *expiry
	}
	return &b, nil
}
