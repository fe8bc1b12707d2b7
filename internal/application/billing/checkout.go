package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/application/inventory"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	domainbilling "github.com/jhoicas/retail-pos-api/internal/domain/billing"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// CheckoutUseCase es el camino de una sola llamada: valida el carrito completo,
// y si todo pasa, crea el bill ya finalizado con la asignación de stock dentro
// de una sola transacción. Las violaciones de reglas de negocio no se lanzan
// como error: se agregan en CheckoutResult.Failures para que la pantalla de
// cobro muestre todos los problemas de una vez. Un checkout fallido no muta
// nada: ni bill, ni items, ni stock.
type CheckoutUseCase struct {
	txRunner    BillingTxRunner
	productRepo repository.ProductRepository
	serialRepo  repository.SerialRepository
	stockRepo   repository.ChannelStockRepository
}

// NewCheckoutUseCase construye el orquestador de checkout.
func NewCheckoutUseCase(
	txRunner BillingTxRunner,
	productRepo repository.ProductRepository,
	serialRepo repository.SerialRepository,
	stockRepo repository.ChannelStockRepository,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		serialRepo:  serialRepo,
		stockRepo:   stockRepo,
	}
}

// Checkout corre la validación por etapas y, de pasar todas, confirma la venta.
//
// Etapas: (1) estructura de la petición, corta en seco si falla; (2) líneas del
// carrito, agregando cada problema; (3) descuento y pago, agregados juntos
// sobre los totales provisionales; (4) transacción de confirmación, con un
// replaneo ante carrera de stock.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResult, error) {
	storeType := entity.StoreType(req.StoreType)
	txType := entity.TransactionType(req.TransactionType)

	if failures := structuralFailures(req, storeType, txType); len(failures) > 0 {
		return &dto.CheckoutResult{Success: false, Failures: failures}, nil
	}

	channel := storeType.Channel()
	products := make(map[string]*entity.Product, len(req.Lines))
	var lineFailures []string
	subtotal := decimal.Zero
	tax := decimal.Zero

	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			lineFailures = append(lineFailures, fmt.Sprintf("Quantity must be greater than zero for %s", line.ProductCode))
			continue
		}
		product, err := uc.productRepo.GetByCode(line.ProductCode)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.Active {
			lineFailures = append(lineFailures, fmt.Sprintf("Product not found: %s", line.ProductCode))
			continue
		}
		available, err := uc.stockRepo.TotalAvailable(channel, line.ProductCode)
		if err != nil {
			return nil, err
		}
		if available < line.Quantity {
			lineFailures = append(lineFailures, fmt.Sprintf("Insufficient stock for %s", line.ProductCode))
			continue
		}
		products[line.ProductCode] = product
		lineTotal := domainbilling.LineTotal(product.Price, line.Quantity)
		subtotal = subtotal.Add(lineTotal)
		tax = tax.Add(domainbilling.LineTax(lineTotal, product.TaxRate))
	}
	if len(lineFailures) > 0 {
		return &dto.CheckoutResult{Success: false, Failures: lineFailures}, nil
	}

	// Descuento y pago se evalúan juntos sobre los totales provisionales, para
	// que un descuento inválido y un efectivo corto lleguen en la misma respuesta.
	// El total del chequeo de efectivo usa el descuento acotado a [0, subtotal]:
	// un descuento fuera de rango no puede volver el total negativo y esconder
	// que el efectivo tampoco alcanza.
	var moneyFailures []string
	discount := req.Discount
	if discount.IsNegative() {
		moneyFailures = append(moneyFailures, "Discount cannot be negative")
		discount = decimal.Zero
	} else if discount.GreaterThan(subtotal) {
		moneyFailures = append(moneyFailures, "Discount cannot exceed subtotal")
		discount = subtotal
	}
	total := subtotal.Sub(discount).Add(tax)
	if txType == entity.TransactionCash && req.CashTendered.LessThan(total) {
		moneyFailures = append(moneyFailures, "Insufficient cash tendered")
	}
	if len(moneyFailures) > 0 {
		return &dto.CheckoutResult{Success: false, Failures: moneyFailures}, nil
	}

	result, err := uc.commit(ctx, req, storeType, txType, channel, products, subtotal, tax, total)
	if err == nil {
		return result, nil
	}
	// Carrera de stock entre la planeación y la confirmación: un replaneo.
	if errors.Is(err, domain.ErrStockConflict) {
		result, err = uc.commit(ctx, req, storeType, txType, channel, products, subtotal, tax, total)
	}
	if err != nil {
		// Si el stock se agotó entre el pre-chequeo y la transacción, sigue
		// siendo una violación de negocio, no una falla del sistema.
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			return &dto.CheckoutResult{
				Success:  false,
				Failures: []string{fmt.Sprintf("Insufficient stock for %s", insufficient.ProductCode)},
			}, nil
		}
		return nil, err
	}
	return result, nil
}

// commit ejecuta la transacción de confirmación: bill finalizado + items +
// reducciones de stock, todo o nada.
func (uc *CheckoutUseCase) commit(
	ctx context.Context,
	req dto.CheckoutRequest,
	storeType entity.StoreType,
	txType entity.TransactionType,
	channel entity.Channel,
	products map[string]*entity.Product,
	subtotal, tax, total decimal.Decimal,
) (*dto.CheckoutResult, error) {
	serial, err := uc.serialRepo.Next(storeType)
	if err != nil {
		return nil, fmt.Errorf("generar número de serie: %w", err)
	}

	tendered := req.CashTendered
	change := decimal.Zero
	if txType == entity.TransactionCash {
		change = tendered.Sub(total)
	} else {
		tendered = total
	}

	now := time.Now()
	bill := &entity.Bill{
		ID:              uuid.New().String(),
		SerialNumber:    fmt.Sprintf("%s-%05d", storeType.SerialPrefix(), serial),
		StoreType:       storeType,
		TransactionType: txType,
		CustomerID:      req.CustomerID,
		CashierID:       req.CashierID,
		Subtotal:        subtotal,
		DiscountAmount:  req.Discount,
		TaxAmount:       tax,
		TotalAmount:     total,
		TenderedAmount:  tendered,
		ChangeAmount:    change,
		PaymentRecorded: true,
		BillDate:        now,
		Status:          entity.BillFinalized,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var items []dto.CheckoutItemResult
	err = uc.txRunner.RunBilling(ctx, func(
		batchRepo repository.BatchRepository,
		stockRepo repository.ChannelStockRepository,
		billRepo repository.BillRepository,
	) error {
		if err := billRepo.Create(bill); err != nil {
			return err
		}
		for _, line := range req.Lines {
			product := products[line.ProductCode]
			plan, err := inventory.PlanAllocation(stockRepo, channel, line.ProductCode, line.Quantity)
			if err != nil {
				return err
			}
			if err := inventory.CommitAllocation(stockRepo, batchRepo, channel, plan); err != nil {
				return err
			}
			for _, alloc := range plan {
				item := &entity.BillItem{
					ID:          uuid.New().String(),
					BillID:      bill.ID,
					ProductCode: product.Code,
					ProductName: product.Name,
					BatchID:     alloc.BatchID,
					Quantity:    alloc.Quantity,
					UnitPrice:   product.Price,
					TaxRate:     product.TaxRate,
					LineTotal:   domainbilling.LineTotal(product.Price, alloc.Quantity),
				}
				if err := billRepo.CreateItem(item); err != nil {
					return err
				}
				items = append(items, dto.CheckoutItemResult{
					ProductCode: item.ProductCode,
					ProductName: item.ProductName,
					BatchID:     item.BatchID,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
					LineTotal:   item.LineTotal,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutResult{
		Success:      true,
		BillID:       bill.ID,
		SerialNumber: bill.SerialNumber,
		Subtotal:     subtotal,
		Discount:     req.Discount,
		Tax:          tax,
		Total:        total,
		Tendered:     tendered,
		Change:       change,
		Items:        items,
	}, nil
}

// structuralFailures valida la forma de la petición. Un defecto estructural
// corta en seco: sin estructura válida, las demás etapas no tienen sentido.
func structuralFailures(req dto.CheckoutRequest, storeType entity.StoreType, txType entity.TransactionType) []string {
	var failures []string
	if !storeType.Valid() {
		failures = append(failures, "Store type is required")
	}
	if !txType.Valid() {
		failures = append(failures, "Transaction type is required")
	}
	if storeType == entity.StoreOnline && req.CustomerID == "" {
		failures = append(failures, "Customer ID is required for online orders")
	}
	if storeType.Valid() && txType == entity.TransactionCash && storeType != entity.StorePhysical {
		failures = append(failures, "Cash payment is only available for physical stores")
	}
	if len(req.Lines) == 0 {
		failures = append(failures, "Checkout requires at least one line")
	}
	return failures
}
