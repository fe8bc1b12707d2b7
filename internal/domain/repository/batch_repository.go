package repository

import "github.com/jhoicas/retail-pos-api/internal/domain/entity"

// BatchRepository define el puerto sobre el ledger de lotes de compra.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// FindAvailableByProduct devuelve los lotes con RemainingQuantity > 0 en
	// orden FIFO (más antiguo / más próximo a vencer primero).
	FindAvailableByProduct(productCode string) ([]*entity.Batch, error)
	// DecrementRemaining resta qty condicionalmente: false si el lote ya no
	// tiene esa cantidad (la fila cambió desde la lectura).
	DecrementRemaining(batchID string, qty int) (bool, error)
}
