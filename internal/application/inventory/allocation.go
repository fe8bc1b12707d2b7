package inventory

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// AllocationEngine decide qué lotes satisfacen una cantidad solicitada de un
// producto en un canal (orden FIFO por antigüedad del lote) y confirma las
// reducciones resultantes. Protocolo en dos fases:
//
//   - PlanAllocation: solo lectura. Devuelve el plan o InsufficientStockError
//     (con el total disponible) sin tocar ninguna fila.
//   - CommitAllocation: aplica las reducciones condicionales fila a fila. Un
//     Reduce fallido significa que el stock cambió desde la planeación
//     (carrera); se reporta como StockConflictError para que el caller
//     replanee o aborte, nunca para entregar menos stock en silencio.
//
// No hay locks en proceso: la corrección descansa en la atomicidad por fila de
// la capa de almacenamiento.
type AllocationEngine struct {
	stockRepo repository.ChannelStockRepository
	batchRepo repository.BatchRepository
}

// NewAllocationEngine construye el motor con los repositorios del pool.
func NewAllocationEngine(stockRepo repository.ChannelStockRepository, batchRepo repository.BatchRepository) *AllocationEngine {
	return &AllocationEngine{stockRepo: stockRepo, batchRepo: batchRepo}
}

// PlanAllocation arma el plan FIFO sin mutar nada. Usable con repositorios del
// pool o atados a una transacción (el checkout la invoca dentro de su tx).
func PlanAllocation(
	stockRepo repository.ChannelStockRepository,
	channel entity.Channel,
	productCode string,
	quantity int,
) ([]entity.BatchAllocation, error) {
	if quantity <= 0 {
		return nil, domain.NewValidationError("la cantidad solicitada debe ser mayor que cero")
	}
	if !channel.Valid() {
		return nil, domain.NewValidationError("canal desconocido")
	}

	rows, err := stockRepo.FindAvailableByProduct(channel, productCode)
	if err != nil {
		return nil, err
	}

	// Verificación todo-o-nada antes de cualquier escritura: si el total no
	// alcanza, se falla sin tocar filas.
	total := 0
	for _, row := range rows {
		total += row.QuantityOnHand
	}
	if total < quantity {
		return nil, &domain.InsufficientStockError{
			ProductCode: productCode,
			Channel:     string(channel),
			Requested:   quantity,
			Available:   total,
		}
	}

	// Recorre las filas en orden FIFO tomando min(fila, faltante) de cada una.
	// Una fila posterior solo se toca cuando las anteriores quedaron agotadas.
	remaining := quantity
	plan := make([]entity.BatchAllocation, 0, 2)
	for _, row := range rows {
		if remaining == 0 {
			break
		}
		take := row.QuantityOnHand
		if take > remaining {
			take = remaining
		}
		plan = append(plan, entity.BatchAllocation{
			BatchID:     row.BatchID,
			ProductCode: row.ProductCode,
			Quantity:    take,
			ExpiryDate:  row.ExpiryDate,
		})
		remaining -= take
	}
	return plan, nil
}

// CommitAllocation confirma el plan: por cada entrada reduce la fila del canal
// y el RemainingQuantity del lote, juntos. Las reducciones son condicionales;
// si alguna falla, devuelve StockConflictError y deja de avanzar (el caller
// decide si la transacción envolvente hace rollback o si replanea).
func CommitAllocation(
	stockRepo repository.ChannelStockRepository,
	batchRepo repository.BatchRepository,
	channel entity.Channel,
	plan []entity.BatchAllocation,
) error {
	for _, alloc := range plan {
		ok, err := stockRepo.Reduce(channel, alloc.ProductCode, alloc.BatchID, alloc.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.StockConflictError{
				ProductCode: alloc.ProductCode,
				BatchID:     alloc.BatchID,
				Quantity:    alloc.Quantity,
			}
		}
		ok, err = batchRepo.DecrementRemaining(alloc.BatchID, alloc.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.StockConflictError{
				ProductCode: alloc.ProductCode,
				BatchID:     alloc.BatchID,
				Quantity:    alloc.Quantity,
			}
		}
	}
	return nil
}

// Plan es la fase de solo lectura sobre los repositorios del motor.
func (e *AllocationEngine) Plan(_ context.Context, channel entity.Channel, productCode string, quantity int) ([]entity.BatchAllocation, error) {
	return PlanAllocation(e.stockRepo, channel, productCode, quantity)
}

// Allocate planea y confirma en un solo paso: camina el plan persistiendo cada
// reducción a medida que avanza. La insuficiencia está garantizada antes de la
// primera escritura; un conflicto posterior es una carrera (StockConflictError).
func (e *AllocationEngine) Allocate(ctx context.Context, channel entity.Channel, productCode string, quantity int) ([]entity.BatchAllocation, error) {
	plan, err := e.Plan(ctx, channel, productCode, quantity)
	if err != nil {
		return nil, err
	}
	if err := CommitAllocation(e.stockRepo, e.batchRepo, channel, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// AvailableQuantity devuelve el total disponible del producto en el canal.
func (e *AllocationEngine) AvailableQuantity(_ context.Context, channel entity.Channel, productCode string) (int, error) {
	return e.stockRepo.TotalAvailable(channel, productCode)
}

// HasAvailable indica si el canal puede cubrir la cantidad solicitada.
func (e *AllocationEngine) HasAvailable(ctx context.Context, channel entity.Channel, productCode string, quantity int) (bool, error) {
	total, err := e.AvailableQuantity(ctx, channel, productCode)
	if err != nil {
		return false, err
	}
	return total >= quantity, nil
}

// ListBatches expone los lotes disponibles del producto en orden FIFO (consulta).
func (e *AllocationEngine) ListBatches(_ context.Context, productCode string) ([]*entity.Batch, error) {
	return e.batchRepo.FindAvailableByProduct(productCode)
}
