package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// RestockUseCase registra la recepción de un lote de compra y reparte sus
// unidades entre los canales en la misma transacción: el lote y sus filas de
// canal nacen juntos, de modo que el canal nunca crea stock por su cuenta.
type RestockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewRestockUseCase construye el caso de uso.
func NewRestockUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *RestockUseCase {
	return &RestockUseCase{txRunner: txRunner, productRepo: productRepo}
}

// RestockInput entrada para recibir un lote. PhysicalQuantity + OnlineQuantity
// debe igualar la cantidad total recibida del lote.
type RestockInput struct {
	ProductCode      string
	PhysicalQuantity int
	OnlineQuantity   int
	PurchasePrice    decimal.Decimal
	SupplierName     string
	PurchaseDate     time.Time
	ExpiryDate       time.Time
}

// Restock valida la entrada, crea el lote y las filas de canal correspondientes.
func (uc *RestockUseCase) Restock(ctx context.Context, in RestockInput) (*entity.Batch, error) {
	if in.ProductCode == "" {
		return nil, domain.NewValidationError("código de producto requerido")
	}
	if in.PhysicalQuantity < 0 || in.OnlineQuantity < 0 {
		return nil, domain.NewValidationError("las cantidades no pueden ser negativas")
	}
	total := in.PhysicalQuantity + in.OnlineQuantity
	if total <= 0 {
		return nil, domain.NewValidationError("el lote debe recibir al menos una unidad")
	}
	if in.PurchasePrice.IsNegative() {
		return nil, domain.NewValidationError("el precio de compra no puede ser negativo")
	}
	if !in.ExpiryDate.IsZero() && !in.PurchaseDate.IsZero() && in.ExpiryDate.Before(in.PurchaseDate) {
		return nil, domain.NewValidationError("la fecha de vencimiento no puede ser anterior a la de compra")
	}

	product, err := uc.productRepo.GetByCode(in.ProductCode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	now := time.Now()
	purchaseDate := in.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = now
	}

	batch := &entity.Batch{
		ID:                uuid.New().String(),
		ProductCode:       in.ProductCode,
		QuantityReceived:  total,
		RemainingQuantity: total,
		PurchaseDate:      purchaseDate,
		ExpiryDate:        in.ExpiryDate,
		PurchasePrice:     in.PurchasePrice,
		SupplierName:      in.SupplierName,
		CreatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		stockRepo repository.ChannelStockRepository,
	) error {
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		channelSplit := []struct {
			channel entity.Channel
			qty     int
		}{
			{entity.ChannelPhysical, in.PhysicalQuantity},
			{entity.ChannelOnline, in.OnlineQuantity},
		}
		for _, split := range channelSplit {
			if split.qty == 0 {
				continue
			}
			row := &entity.ChannelStockRow{
				Channel:        split.channel,
				ProductCode:    in.ProductCode,
				BatchID:        batch.ID,
				QuantityOnHand: split.qty,
				ExpiryDate:     in.ExpiryDate,
				UpdatedAt:      now,
			}
			if err := stockRepo.Upsert(row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}
