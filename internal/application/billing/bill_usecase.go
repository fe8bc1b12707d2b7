package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	domainbilling "github.com/jhoicas/retail-pos-api/internal/domain/billing"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// BillUseCase maneja el ciclo de vida del bill: creado en memoria ("en
// progreso"), mutado por llamadas independientes y terminado por finalize
// (persistido, fuera del registro) o cancel (borrado, nunca válido una vez
// finalizado). El registro inyectado serializa los callers por bill.
type BillUseCase struct {
	registry    *InProgressRegistry
	allocator   Allocator
	productRepo repository.ProductRepository
	billRepo    repository.BillRepository
	serialRepo  repository.SerialRepository
	receiptGen  ReceiptGenerator
}

// NewBillUseCase construye el caso de uso.
func NewBillUseCase(
	registry *InProgressRegistry,
	allocator Allocator,
	productRepo repository.ProductRepository,
	billRepo repository.BillRepository,
	serialRepo repository.SerialRepository,
	receiptGen ReceiptGenerator,
) *BillUseCase {
	return &BillUseCase{
		registry:    registry,
		allocator:   allocator,
		productRepo: productRepo,
		billRepo:    billRepo,
		serialRepo:  serialRepo,
		receiptGen:  receiptGen,
	}
}

// CreateBill valida los campos, genera el número de serie (<PH|ON>-NNNNN,
// monotónico por tipo de tienda), persiste la fila esqueleto y lo inscribe en
// el registro de bills en progreso.
func (uc *BillUseCase) CreateBill(ctx context.Context, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	storeType := entity.StoreType(in.StoreType)
	txType := entity.TransactionType(in.TransactionType)

	var reasons []string
	if !storeType.Valid() {
		reasons = append(reasons, "Store type is required")
	}
	if !txType.Valid() {
		reasons = append(reasons, "Transaction type is required")
	}
	if storeType == entity.StoreOnline && in.CustomerID == "" {
		reasons = append(reasons, "Customer ID is required for online orders")
	}
	if storeType == entity.StorePhysical && txType == entity.TransactionCash && in.CashierID == "" {
		reasons = append(reasons, "Cashier ID is required for physical cash sales")
	}
	if len(reasons) > 0 {
		return nil, &domain.ValidationError{Reasons: reasons}
	}

	serial, err := uc.serialRepo.Next(storeType)
	if err != nil {
		return nil, fmt.Errorf("generar número de serie: %w", err)
	}

	now := time.Now()
	bill := &entity.Bill{
		ID:              uuid.New().String(),
		SerialNumber:    fmt.Sprintf("%s-%05d", storeType.SerialPrefix(), serial),
		StoreType:       storeType,
		TransactionType: txType,
		CustomerID:      in.CustomerID,
		CashierID:       in.CashierID,
		Subtotal:        decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TaxAmount:       decimal.Zero,
		TotalAmount:     decimal.Zero,
		BillDate:        now,
		Status:          entity.BillInProgress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.billRepo.Create(bill); err != nil {
		return nil, err
	}
	uc.registry.Put(bill)
	return toBillResponse(bill), nil
}

// AddItem asigna stock del canal del bill y crea un BillItem por cada entrada
// del plan (una venta de 25 unidades puede volverse dos items si cruza lotes).
// Recalcula subtotal/total al terminar.
func (uc *BillUseCase) AddItem(ctx context.Context, billID string, in dto.AddItemRequest) (*dto.BillResponse, error) {
	return uc.mutate(billID, func(b *entity.Bill) error {
		if in.Quantity <= 0 {
			return domain.NewValidationError("Quantity must be greater than zero")
		}
		product, err := uc.productRepo.GetByCode(in.ProductCode)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if !product.Active {
			return domain.NewValidationError("Product is inactive: " + in.ProductCode)
		}

		channel := b.StoreType.Channel()
		available, err := uc.allocator.AvailableQuantity(ctx, channel, in.ProductCode)
		if err != nil {
			return err
		}
		if available < in.Quantity {
			return &domain.InsufficientStockError{
				ProductCode: in.ProductCode,
				Channel:     string(channel),
				Requested:   in.Quantity,
				Available:   available,
			}
		}

		allocations, err := uc.allocator.Allocate(ctx, channel, in.ProductCode, in.Quantity)
		if err != nil {
			return err
		}
		for _, alloc := range allocations {
			item := &entity.BillItem{
				ID:          uuid.New().String(),
				BillID:      b.ID,
				ProductCode: product.Code,
				ProductName: product.Name,
				BatchID:     alloc.BatchID,
				Quantity:    alloc.Quantity,
				UnitPrice:   product.Price,
				TaxRate:     product.TaxRate,
				LineTotal:   domainbilling.LineTotal(product.Price, alloc.Quantity),
			}
			if err := uc.billRepo.CreateItem(item); err != nil {
				return err
			}
			b.Items = append(b.Items, item)
		}
		return uc.recalculateAndSave(b)
	})
}

// RemoveItem elimina un item del bill y recalcula totales.
func (uc *BillUseCase) RemoveItem(ctx context.Context, billID, itemID string) (*dto.BillResponse, error) {
	return uc.mutate(billID, func(b *entity.Bill) error {
		idx := b.FindItem(itemID)
		if idx < 0 {
			return domain.NewValidationError("Bill item not found")
		}
		if err := uc.billRepo.DeleteItem(itemID); err != nil {
			return err
		}
		b.Items = append(b.Items[:idx], b.Items[idx+1:]...)
		return uc.recalculateAndSave(b)
	})
}

// UpdateItemQuantity recalcula LineTotal = UnitPrice * qty del item. No
// reasigna lotes: el item conserva su origen de lote original.
func (uc *BillUseCase) UpdateItemQuantity(ctx context.Context, billID, itemID string, quantity int) (*dto.BillResponse, error) {
	return uc.mutate(billID, func(b *entity.Bill) error {
		if quantity <= 0 {
			return domain.NewValidationError("Quantity must be greater than zero")
		}
		idx := b.FindItem(itemID)
		if idx < 0 {
			return domain.NewValidationError("Bill item not found")
		}
		item := b.Items[idx]
		item.Quantity = quantity
		item.LineTotal = domainbilling.LineTotal(item.UnitPrice, quantity)
		if err := uc.billRepo.UpdateItem(item); err != nil {
			return err
		}
		return uc.recalculateAndSave(b)
	})
}

// ClearItems elimina todos los items del bill y recalcula totales.
func (uc *BillUseCase) ClearItems(ctx context.Context, billID string) (*dto.BillResponse, error) {
	return uc.mutate(billID, func(b *entity.Bill) error {
		if err := uc.billRepo.DeleteItemsByBill(b.ID); err != nil {
			return err
		}
		b.Items = nil
		return uc.recalculateAndSave(b)
	})
}

// ApplyDiscount fija el descuento del bill: 0 <= amount <= subtotal.
func (uc *BillUseCase) ApplyDiscount(ctx context.Context, billID string, amount decimal.Decimal) (*dto.BillResponse, error) {
	return uc.mutate(billID, func(b *entity.Bill) error {
		if amount.IsNegative() {
			return domain.NewValidationError("Discount cannot be negative")
		}
		if !domainbilling.ValidDiscount(amount, b.Subtotal) {
			return domain.NewValidationError("Discount cannot exceed subtotal")
		}
		b.DiscountAmount = amount
		return uc.recalculateAndSave(b)
	})
}

// ProcessCashPayment registra un pago en efectivo: solo tiendas físicas y
// tendered >= total. Fija TenderedAmount y ChangeAmount = tendered - total.
func (uc *BillUseCase) ProcessCashPayment(ctx context.Context, billID string, tendered decimal.Decimal) (*dto.BillResponse, error) {
	return uc.mutate(billID, func(b *entity.Bill) error {
		if b.StoreType != entity.StorePhysical {
			return fmt.Errorf("%w: el pago en efectivo solo aplica a tiendas físicas", domain.ErrInvalidPayment)
		}
		if tendered.LessThan(b.TotalAmount) {
			return fmt.Errorf("%w: el monto entregado %s es menor al total %s",
				domain.ErrInvalidPayment, tendered.StringFixed(2), b.TotalAmount.StringFixed(2))
		}
		b.TenderedAmount = tendered
		b.ChangeAmount = tendered.Sub(b.TotalAmount)
		b.PaymentRecorded = true
		return uc.saveBill(b)
	})
}

// ProcessOnlinePayment registra un pago online: solo tiendas online.
// TenderedAmount = total, ChangeAmount = 0.
func (uc *BillUseCase) ProcessOnlinePayment(ctx context.Context, billID string) (*dto.BillResponse, error) {
	return uc.mutate(billID, func(b *entity.Bill) error {
		if b.StoreType != entity.StoreOnline {
			return fmt.Errorf("%w: el pago online solo aplica a tiendas online", domain.ErrInvalidPayment)
		}
		b.TenderedAmount = b.TotalAmount
		b.ChangeAmount = decimal.Zero
		b.PaymentRecorded = true
		return uc.saveBill(b)
	})
}

// ValidateForFinalization agrega todas las violaciones que impiden finalizar
// el bill, en lugar de detenerse en la primera.
func (uc *BillUseCase) ValidateForFinalization(ctx context.Context, billID string) (*dto.BillValidationResult, error) {
	var result *dto.BillValidationResult
	err := uc.registry.With(billID, func(b *entity.Bill) error {
		violations := finalizationViolations(b)
		result = &dto.BillValidationResult{Valid: len(violations) == 0, Violations: violations}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FinalizeBill revalida, persiste el bill como finalizado y lo saca del
// registro. Terminal: ninguna mutación posterior es válida.
func (uc *BillUseCase) FinalizeBill(ctx context.Context, billID string) (*dto.BillResponse, error) {
	var resp *dto.BillResponse
	err := uc.registry.Finish(billID, func(b *entity.Bill) error {
		if violations := finalizationViolations(b); len(violations) > 0 {
			return &domain.ValidationError{Reasons: violations}
		}
		b.Status = entity.BillFinalized
		if err := uc.saveBill(b); err != nil {
			return err
		}
		resp = toBillResponse(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CancelBill cancela un bill en progreso: borra sus items, borra la fila del
// bill y lo saca del registro. Falla con BillNotFound si el id es desconocido
// y con Validation si el bill ya fue finalizado (sin tocar lo persistido).
func (uc *BillUseCase) CancelBill(ctx context.Context, billID string) error {
	err := uc.registry.Finish(billID, func(b *entity.Bill) error {
		if err := uc.billRepo.DeleteItemsByBill(b.ID); err != nil {
			return err
		}
		return uc.billRepo.Delete(b.ID)
	})
	if err == domain.ErrBillNotFound {
		// Fuera del registro: o nunca existió, o ya está finalizado.
		persisted, repoErr := uc.billRepo.GetByID(billID)
		if repoErr != nil {
			return repoErr
		}
		if persisted == nil {
			return domain.ErrBillNotFound
		}
		if persisted.Status == entity.BillFinalized {
			return domain.NewValidationError("Bill is already finalized and cannot be cancelled")
		}
		return domain.ErrBillNotFound
	}
	return err
}

// GetBill devuelve el bill: del registro si está en progreso, de la
// persistencia si ya fue finalizado.
func (uc *BillUseCase) GetBill(ctx context.Context, billID string) (*dto.BillResponse, error) {
	var resp *dto.BillResponse
	err := uc.registry.With(billID, func(b *entity.Bill) error {
		resp = toBillResponse(b)
		return nil
	})
	if err == nil {
		return resp, nil
	}
	if err != domain.ErrBillNotFound {
		return nil, err
	}
	bill, err := uc.billRepo.GetByID(billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrBillNotFound
	}
	items, err := uc.billRepo.GetItemsByBill(billID)
	if err != nil {
		return nil, err
	}
	bill.Items = items
	return toBillResponse(bill), nil
}

// Receipt genera el PDF del recibo de un bill finalizado.
func (uc *BillUseCase) Receipt(ctx context.Context, billID string) ([]byte, error) {
	if uc.receiptGen == nil {
		return nil, fmt.Errorf("generador de recibos no configurado")
	}
	bill, err := uc.billRepo.GetByID(billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrBillNotFound
	}
	if bill.Status != entity.BillFinalized {
		return nil, domain.NewValidationError("Receipt is only available for finalized bills")
	}
	items, err := uc.billRepo.GetItemsByBill(billID)
	if err != nil {
		return nil, err
	}
	bill.Items = items
	return uc.receiptGen.GenerateReceipt(ctx, bill)
}

// mutate envuelve la mutación bajo el lock del registro y devuelve el estado
// resultante del bill.
func (uc *BillUseCase) mutate(billID string, fn func(b *entity.Bill) error) (*dto.BillResponse, error) {
	var resp *dto.BillResponse
	err := uc.registry.With(billID, func(b *entity.Bill) error {
		if err := fn(b); err != nil {
			return err
		}
		resp = toBillResponse(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (uc *BillUseCase) recalculateAndSave(b *entity.Bill) error {
	domainbilling.Recalculate(b)
	return uc.saveBill(b)
}

func (uc *BillUseCase) saveBill(b *entity.Bill) error {
	b.UpdatedAt = time.Now()
	return uc.billRepo.Update(b)
}

// finalizationViolations acumula todas las razones que impiden finalizar.
func finalizationViolations(b *entity.Bill) []string {
	var violations []string
	if len(b.Items) == 0 {
		violations = append(violations, "Bill must have at least one item")
	}
	if b.TransactionType == entity.TransactionCash && !b.PaymentRecorded {
		violations = append(violations, "Cash payment has not been recorded")
	}
	if !domainbilling.ValidDiscount(b.DiscountAmount, b.Subtotal) {
		violations = append(violations, "Discount cannot exceed subtotal")
	}
	return violations
}

func toBillResponse(b *entity.Bill) *dto.BillResponse {
	resp := &dto.BillResponse{
		ID:              b.ID,
		SerialNumber:    b.SerialNumber,
		StoreType:       string(b.StoreType),
		TransactionType: string(b.TransactionType),
		CustomerID:      b.CustomerID,
		CashierID:       b.CashierID,
		Status:          string(b.Status),
		Subtotal:        b.Subtotal,
		DiscountAmount:  b.DiscountAmount,
		TaxAmount:       b.TaxAmount,
		TotalAmount:     b.TotalAmount,
		BillDate:        b.BillDate.Format("2006-01-02"),
		Items:           make([]dto.BillItemResponse, 0, len(b.Items)),
	}
	if b.PaymentRecorded {
		tendered := b.TenderedAmount
		change := b.ChangeAmount
		resp.TenderedAmount = &tendered
		resp.ChangeAmount = &change
	}
	for _, it := range b.Items {
		resp.Items = append(resp.Items, dto.BillItemResponse{
			ID:          it.ID,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			BatchID:     it.BatchID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return resp
}
