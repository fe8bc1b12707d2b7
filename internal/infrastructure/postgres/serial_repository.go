package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

var _ repository.SerialRepository = (*SerialRepo)(nil)

// SerialRepo entrega consecutivos por tipo de tienda. El upsert con RETURNING
// hace el incremento atómico: dos llamadas concurrentes nunca ven el mismo valor.
type SerialRepo struct {
	q Querier
}

// NewSerialRepository construye el adaptador de consecutivos. Pasar pool o tx (Querier).
func NewSerialRepository(q Querier) *SerialRepo {
	return &SerialRepo{q: q}
}

// Next devuelve el siguiente consecutivo del tipo de tienda (empieza en 1).
func (r *SerialRepo) Next(storeType entity.StoreType) (int64, error) {
	query := `
		INSERT INTO bill_serials (store_type, value) VALUES ($1, 1)
		ON CONFLICT (store_type) DO UPDATE SET value = bill_serials.value + 1
		RETURNING value`
	var value int64
	err := r.q.QueryRow(context.Background(), query, string(storeType)).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next serial: %w", err)
	}
	return value, nil
}
