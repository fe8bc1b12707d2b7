package billing

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// Allocator interfaz del motor de asignación vista desde facturación.
// Allocate confirma las reducciones a medida que camina el plan; la
// insuficiencia está garantizada antes de la primera escritura.
type Allocator interface {
	AvailableQuantity(ctx context.Context, channel entity.Channel, productCode string) (int, error)
	Allocate(ctx context.Context, channel entity.Channel, productCode string, quantity int) ([]entity.BatchAllocation, error)
}

// BillingTxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de inventario y facturación (para el checkout de una llamada).
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		stockRepo repository.ChannelStockRepository,
		billRepo repository.BillRepository,
	) error) error
}

// ReceiptGenerator genera la representación imprimible (PDF) de un bill finalizado.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, bill *entity.Bill) ([]byte, error)
}
