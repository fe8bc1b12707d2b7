package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-pos-api/internal/application/billing"
	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/application/inventory"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: registro + motor real de asignación sobre fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type billFixture struct {
	uc         *billing.BillUseCase
	registry   *billing.InProgressRegistry
	stock      *fakeStockRepo
	batches    *fakeBatchRepo
	billRepo   *fakeBillRepo
	receiptGen *fakeReceiptGen
}

func newBillFixture(t *testing.T) *billFixture {
	t.Helper()
	stock := newFakeStockRepo()
	batches := &fakeBatchRepo{}
	products := newFakeProductRepo(
		&entity.Product{Code: "TEST-001", Name: "Widget", Price: decimal.NewFromInt(100), Active: true},
		&entity.Product{Code: "TAXED-01", Name: "Gadget", Price: decimal.NewFromInt(50), TaxRate: decimal.NewFromFloat(0.10), Active: true},
		&entity.Product{Code: "INACTIVE", Name: "Retirado", Price: decimal.NewFromInt(10), Active: false},
	)
	billRepo := newFakeBillRepo()
	registry := billing.NewInProgressRegistry()
	engine := inventory.NewAllocationEngine(stock, batches)
	receiptGen := &fakeReceiptGen{}
	uc := billing.NewBillUseCase(registry, engine, products, billRepo, newFakeSerialRepo(), receiptGen)
	return &billFixture{
		uc: uc, registry: registry, stock: stock, batches: batches,
		billRepo: billRepo, receiptGen: receiptGen,
	}
}

func (f *billFixture) seedBatch(t *testing.T, batchID, productCode string, physical, online int) {
	t.Helper()
	require.NoError(t, f.batches.Create(&entity.Batch{
		ID: batchID, ProductCode: productCode,
		QuantityReceived: physical + online, RemainingQuantity: physical + online,
	}))
	if physical > 0 {
		f.stock.add(entity.ChannelPhysical, productCode, batchID, physical)
	}
	if online > 0 {
		f.stock.add(entity.ChannelOnline, productCode, batchID, online)
	}
}

func (f *billFixture) newPhysicalCashBill(t *testing.T) *dto.BillResponse {
	t.Helper()
	bill, err := f.uc.CreateBill(context.Background(), dto.CreateBillRequest{
		StoreType:       string(entity.StorePhysical),
		TransactionType: string(entity.TransactionCash),
		CashierID:       "caja-1",
	})
	require.NoError(t, err)
	return bill
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBill
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBill_SerialesMonotonicasPorTienda(t *testing.T) {
	f := newBillFixture(t)
	ctx := context.Background()

	first := f.newPhysicalCashBill(t)
	second := f.newPhysicalCashBill(t)
	online, err := f.uc.CreateBill(ctx, dto.CreateBillRequest{
		StoreType:       string(entity.StoreOnline),
		TransactionType: string(entity.TransactionOnline),
		CustomerID:      "cust-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "PH-00001", first.SerialNumber)
	assert.Equal(t, "PH-00002", second.SerialNumber)
	assert.Equal(t, "ON-00001", online.SerialNumber, "cada tienda lleva su propio consecutivo")
	assert.Equal(t, string(entity.BillInProgress), first.Status)
	assert.True(t, f.registry.Contains(first.ID), "el bill nace en el registro de en-progreso")
}

func TestCreateBill_OnlineExigeCliente(t *testing.T) {
	f := newBillFixture(t)

	_, err := f.uc.CreateBill(context.Background(), dto.CreateBillRequest{
		StoreType:       string(entity.StoreOnline),
		TransactionType: string(entity.TransactionOnline),
	})

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reasons, "Customer ID is required for online orders")
}

func TestCreateBill_TipoDesconocido(t *testing.T) {
	f := newBillFixture(t)

	_, err := f.uc.CreateBill(context.Background(), dto.CreateBillRequest{
		StoreType:       "MARTE",
		TransactionType: "TRUEQUE",
	})

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Len(t, validation.Reasons, 2, "las violaciones estructurales llegan juntas")
}

// ──────────────────────────────────────────────────────────────────────────────
// AddItem
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_CruceDeLotesGeneraDosItems(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-viejo", "TEST-001", 15, 0)
	f.seedBatch(t, "lote-nuevo", "TEST-001", 10, 0)
	bill := f.newPhysicalCashBill(t)

	updated, err := f.uc.AddItem(context.Background(), bill.ID, dto.AddItemRequest{
		ProductCode: "TEST-001", Quantity: 25,
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 2, "25 unidades sobre lotes de 15 y 10 son dos líneas")
	assert.Equal(t, "lote-viejo", updated.Items[0].BatchID)
	assert.Equal(t, 15, updated.Items[0].Quantity)
	assert.Equal(t, "lote-nuevo", updated.Items[1].BatchID)
	assert.Equal(t, 10, updated.Items[1].Quantity)
	assert.True(t, decimal.NewFromInt(2500).Equal(updated.Subtotal), "subtotal = 25 * 100")

	// El stock físico quedó agotado y el ledger bajó con él.
	assert.Equal(t, 0, f.stock.find(entity.ChannelPhysical, "TEST-001", "lote-viejo").QuantityOnHand)
	assert.Equal(t, 0, f.stock.find(entity.ChannelPhysical, "TEST-001", "lote-nuevo").QuantityOnHand)
}

func TestAddItem_InsuficienciaNoMutaElBill(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 5, 0)
	bill := f.newPhysicalCashBill(t)

	_, err := f.uc.AddItem(context.Background(), bill.ID, dto.AddItemRequest{
		ProductCode: "TEST-001", Quantity: 10,
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 5, insufficient.Available)

	current, err := f.uc.GetBill(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Empty(t, current.Items, "el bill no debe quedar con líneas a medias")
	assert.Equal(t, 5, f.stock.find(entity.ChannelPhysical, "TEST-001", "lote-a").QuantityOnHand,
		"el stock tampoco debe moverse")
}

func TestAddItem_ProductoInexistenteOInactivo(t *testing.T) {
	f := newBillFixture(t)
	bill := f.newPhysicalCashBill(t)
	ctx := context.Background()

	_, err := f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "NO-EXISTE", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "INACTIVE", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation, "producto inactivo no se vende")
}

func TestAddItem_CanalSegunTienda(t *testing.T) {
	f := newBillFixture(t)
	// Solo hay stock online; la tienda física no debe poder venderlo.
	f.seedBatch(t, "lote-a", "TEST-001", 0, 10)
	bill := f.newPhysicalCashBill(t)

	_, err := f.uc.AddItem(context.Background(), bill.ID, dto.AddItemRequest{
		ProductCode: "TEST-001", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"el bill físico asigna solo del canal físico")
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones: cantidad, remoción, descuento
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateItemQuantity_RecalculaLinea(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	bill := f.newPhysicalCashBill(t)
	withItem, err := f.uc.AddItem(context.Background(), bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 5})
	require.NoError(t, err)
	itemID := withItem.Items[0].ID

	updated, err := f.uc.UpdateItemQuantity(context.Background(), bill.ID, itemID, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(300).Equal(updated.Items[0].LineTotal))
	assert.True(t, decimal.NewFromInt(300).Equal(updated.Subtotal))

	_, err = f.uc.UpdateItemQuantity(context.Background(), bill.ID, itemID, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRemoveItemYClearItems(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	f.seedBatch(t, "lote-b", "TAXED-01", 20, 0)
	bill := f.newPhysicalCashBill(t)
	ctx := context.Background()

	withA, err := f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 2})
	require.NoError(t, err)
	_, err = f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TAXED-01", Quantity: 1})
	require.NoError(t, err)

	afterRemove, err := f.uc.RemoveItem(ctx, bill.ID, withA.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, afterRemove.Items, 1)
	assert.True(t, decimal.NewFromInt(50).Equal(afterRemove.Subtotal))

	cleared, err := f.uc.ClearItems(ctx, bill.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
	assert.True(t, cleared.Subtotal.IsZero())
	assert.True(t, cleared.TotalAmount.IsZero())
}

func TestApplyDiscount_Limites(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	bill := f.newPhysicalCashBill(t)
	ctx := context.Background()
	_, err := f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 1})
	require.NoError(t, err)

	discounted, err := f.uc.ApplyDiscount(ctx, bill.ID, decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(discounted.TotalAmount), "total = 100 - 40")

	_, err = f.uc.ApplyDiscount(ctx, bill.ID, decimal.NewFromInt(101))
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reasons, "Discount cannot exceed subtotal")

	_, err = f.uc.ApplyDiscount(ctx, bill.ID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApplyDiscount_SeAcotaCuandoElSubtotalBaja(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	bill := f.newPhysicalCashBill(t)
	ctx := context.Background()

	// Descuento válido contra el subtotal de 1000...
	withItem, err := f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 10})
	require.NoError(t, err)
	_, err = f.uc.ApplyDiscount(ctx, bill.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)

	// ...que quedaría por encima del subtotal al bajar la cantidad a 1.
	updated, err := f.uc.UpdateItemQuantity(ctx, bill.ID, withItem.Items[0].ID, 1)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(100).Equal(updated.DiscountAmount),
		"el descuento se acota al nuevo subtotal")
	assert.True(t, updated.TotalAmount.IsZero(), "el total nunca queda negativo")

	// Pagar y finalizar sigue siendo coherente: total 0, cambio 0.
	paid, err := f.uc.ProcessCashPayment(ctx, bill.ID, decimal.Zero)
	require.NoError(t, err)
	require.NotNil(t, paid.ChangeAmount)
	assert.True(t, paid.ChangeAmount.IsZero())

	finalized, err := f.uc.FinalizeBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.False(t, finalized.TotalAmount.IsNegative())
}

func TestClearItems_ReiniciaElDescuento(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	bill := f.newPhysicalCashBill(t)
	ctx := context.Background()

	_, err := f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 2})
	require.NoError(t, err)
	_, err = f.uc.ApplyDiscount(ctx, bill.ID, decimal.NewFromInt(150))
	require.NoError(t, err)

	cleared, err := f.uc.ClearItems(ctx, bill.ID)
	require.NoError(t, err)

	assert.True(t, cleared.DiscountAmount.IsZero(), "sin items no hay subtotal que descontar")
	assert.True(t, cleared.TotalAmount.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessCashPayment_CalculaCambio(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	bill := f.newPhysicalCashBill(t)
	ctx := context.Background()
	_, err := f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 3})
	require.NoError(t, err)

	paid, err := f.uc.ProcessCashPayment(ctx, bill.ID, decimal.NewFromInt(350))
	require.NoError(t, err)

	require.NotNil(t, paid.TenderedAmount)
	require.NotNil(t, paid.ChangeAmount)
	assert.True(t, decimal.NewFromInt(350).Equal(*paid.TenderedAmount))
	assert.True(t, decimal.NewFromInt(50).Equal(*paid.ChangeAmount), "cambio = 350 - 300")
}

func TestProcessCashPayment_EfectivoInsuficiente(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	bill := f.newPhysicalCashBill(t)
	ctx := context.Background()
	_, err := f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 3})
	require.NoError(t, err)

	_, err = f.uc.ProcessCashPayment(ctx, bill.ID, decimal.NewFromInt(299))
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)

	current, _ := f.uc.GetBill(ctx, bill.ID)
	assert.Nil(t, current.TenderedAmount, "el pago fallido no deja rastro")
}

func TestProcessOnlinePayment_SoloTiendaOnline(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 0, 20)
	ctx := context.Background()
	online, err := f.uc.CreateBill(ctx, dto.CreateBillRequest{
		StoreType:       string(entity.StoreOnline),
		TransactionType: string(entity.TransactionOnline),
		CustomerID:      "cust-1",
	})
	require.NoError(t, err)
	_, err = f.uc.AddItem(ctx, online.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 2})
	require.NoError(t, err)

	paid, err := f.uc.ProcessOnlinePayment(ctx, online.ID)
	require.NoError(t, err)
	assert.True(t, paid.TenderedAmount.Equal(paid.TotalAmount), "online: entregado = total")
	assert.True(t, paid.ChangeAmount.IsZero())

	// Un bill físico rechaza el pago online.
	physical := f.newPhysicalCashBill(t)
	_, err = f.uc.ProcessOnlinePayment(ctx, physical.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación, finalización y cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateForFinalization_AgregaViolaciones(t *testing.T) {
	f := newBillFixture(t)
	bill := f.newPhysicalCashBill(t)

	result, err := f.uc.ValidateForFinalization(context.Background(), bill.ID)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Len(t, result.Violations, 2,
		"sin items y sin pago en efectivo: ambas violaciones juntas")
}

func TestFinalizeBill_CaminoCompleto(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	bill := f.newPhysicalCashBill(t)
	ctx := context.Background()
	_, err := f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 2})
	require.NoError(t, err)
	_, err = f.uc.ProcessCashPayment(ctx, bill.ID, decimal.NewFromInt(200))
	require.NoError(t, err)

	finalized, err := f.uc.FinalizeBill(ctx, bill.ID)
	require.NoError(t, err)

	assert.Equal(t, string(entity.BillFinalized), finalized.Status)
	assert.False(t, f.registry.Contains(bill.ID), "el bill finalizado sale del registro")

	// GetBill ahora lee de la persistencia, con sus items.
	persisted, err := f.uc.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BillFinalized), persisted.Status)
	assert.Len(t, persisted.Items, 1)

	// Terminal: ninguna mutación posterior es válida.
	_, err = f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrBillNotFound)
}

func TestFinalizeBill_RechazaSinPago(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	bill := f.newPhysicalCashBill(t)
	ctx := context.Background()
	_, err := f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 1})
	require.NoError(t, err)

	_, err = f.uc.FinalizeBill(ctx, bill.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, f.registry.Contains(bill.ID), "el finalize fallido deja el bill en progreso")
}

func TestCancelBill(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	ctx := context.Background()

	// En progreso: cancelar borra bill e items.
	bill := f.newPhysicalCashBill(t)
	_, err := f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, f.uc.CancelBill(ctx, bill.ID))
	assert.False(t, f.registry.Contains(bill.ID))
	_, err = f.uc.GetBill(ctx, bill.ID)
	assert.ErrorIs(t, err, domain.ErrBillNotFound)
	items, _ := f.billRepo.GetItemsByBill(bill.ID)
	assert.Empty(t, items, "los items del bill cancelado se borran")

	// Desconocido.
	assert.ErrorIs(t, f.uc.CancelBill(ctx, "nope"), domain.ErrBillNotFound)

	// Finalizado: no se puede cancelar.
	done := f.newPhysicalCashBill(t)
	_, err = f.uc.AddItem(ctx, done.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 1})
	require.NoError(t, err)
	_, err = f.uc.ProcessCashPayment(ctx, done.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = f.uc.FinalizeBill(ctx, done.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.uc.CancelBill(ctx, done.ID), domain.ErrValidation)
	persisted, err := f.uc.GetBill(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BillFinalized), persisted.Status, "lo persistido queda intacto")
}

func TestReceipt_SoloBillsFinalizados(t *testing.T) {
	f := newBillFixture(t)
	f.seedBatch(t, "lote-a", "TEST-001", 20, 0)
	bill := f.newPhysicalCashBill(t)
	ctx := context.Background()

	_, err := f.uc.Receipt(ctx, bill.ID)
	assert.ErrorIs(t, err, domain.ErrValidation, "un bill en progreso no tiene recibo")

	_, err = f.uc.AddItem(ctx, bill.ID, dto.AddItemRequest{ProductCode: "TEST-001", Quantity: 1})
	require.NoError(t, err)
	_, err = f.uc.ProcessCashPayment(ctx, bill.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = f.uc.FinalizeBill(ctx, bill.ID)
	require.NoError(t, err)

	pdfBytes, err := f.uc.Receipt(ctx, bill.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
	require.NotNil(t, f.receiptGen.last)
	assert.Len(t, f.receiptGen.last.Items, 1, "el generador recibe el bill con sus items")
}
