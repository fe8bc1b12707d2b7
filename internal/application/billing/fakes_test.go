package billing_test

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/application/billing"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos (persistencia y transacciones)
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	rows       []*entity.ChannelStockRow
	failReduce map[string]bool
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{failReduce: make(map[string]bool)}
}

func (f *fakeStockRepo) add(channel entity.Channel, productCode, batchID string, qty int) {
	f.rows = append(f.rows, &entity.ChannelStockRow{
		Channel: channel, ProductCode: productCode, BatchID: batchID, QuantityOnHand: qty,
	})
}

func (f *fakeStockRepo) find(channel entity.Channel, productCode, batchID string) *entity.ChannelStockRow {
	for _, row := range f.rows {
		if row.Channel == channel && row.ProductCode == productCode && row.BatchID == batchID {
			return row
		}
	}
	return nil
}

func (f *fakeStockRepo) FindAvailableByProduct(channel entity.Channel, productCode string) ([]*entity.ChannelStockRow, error) {
	var out []*entity.ChannelStockRow
	for _, row := range f.rows {
		if row.Channel == channel && row.ProductCode == productCode && row.QuantityOnHand > 0 {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeStockRepo) TotalAvailable(channel entity.Channel, productCode string) (int, error) {
	total := 0
	for _, row := range f.rows {
		if row.Channel == channel && row.ProductCode == productCode {
			total += row.QuantityOnHand
		}
	}
	return total, nil
}

func (f *fakeStockRepo) Reduce(channel entity.Channel, productCode, batchID string, qty int) (bool, error) {
	if f.failReduce[batchID] {
		return false, nil
	}
	row := f.find(channel, productCode, batchID)
	if row == nil || row.QuantityOnHand < qty {
		return false, nil
	}
	row.QuantityOnHand -= qty
	return true, nil
}

func (f *fakeStockRepo) Upsert(row *entity.ChannelStockRow) error {
	if existing := f.find(row.Channel, row.ProductCode, row.BatchID); existing != nil {
		existing.QuantityOnHand += row.QuantityOnHand
		return nil
	}
	clone := *row
	f.rows = append(f.rows, &clone)
	return nil
}

var _ repository.ChannelStockRepository = (*fakeStockRepo)(nil)

type fakeBatchRepo struct {
	batches []*entity.Batch
}

func (f *fakeBatchRepo) Create(batch *entity.Batch) error {
	clone := *batch
	f.batches = append(f.batches, &clone)
	return nil
}

func (f *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	for _, b := range f.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBatchRepo) FindAvailableByProduct(productCode string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range f.batches {
		if b.ProductCode == productCode && b.RemainingQuantity > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBatchRepo) DecrementRemaining(batchID string, qty int) (bool, error) {
	for _, b := range f.batches {
		if b.ID == batchID {
			if b.RemainingQuantity < qty {
				return false, nil
			}
			b.RemainingQuantity -= qty
			return true, nil
		}
	}
	return false, nil
}

var _ repository.BatchRepository = (*fakeBatchRepo)(nil)

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		f.products[p.Code] = p
	}
	return f
}

func (f *fakeProductRepo) Create(product *entity.Product) error {
	f.products[product.Code] = product
	return nil
}

func (f *fakeProductRepo) GetByCode(code string) (*entity.Product, error) {
	return f.products[code], nil
}

func (f *fakeProductRepo) Update(product *entity.Product) error {
	f.products[product.Code] = product
	return nil
}

func (f *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

type fakeBillRepo struct {
	bills map[string]*entity.Bill
	items map[string]*entity.BillItem
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{
		bills: make(map[string]*entity.Bill),
		items: make(map[string]*entity.BillItem),
	}
}

func (f *fakeBillRepo) Create(bill *entity.Bill) error {
	clone := *bill
	clone.Items = nil
	f.bills[bill.ID] = &clone
	return nil
}

func (f *fakeBillRepo) Update(bill *entity.Bill) error {
	clone := *bill
	clone.Items = nil
	f.bills[bill.ID] = &clone
	return nil
}

func (f *fakeBillRepo) GetByID(id string) (*entity.Bill, error) {
	b, ok := f.bills[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBillRepo) Delete(id string) error {
	delete(f.bills, id)
	return nil
}

func (f *fakeBillRepo) CreateItem(item *entity.BillItem) error {
	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *fakeBillRepo) UpdateItem(item *entity.BillItem) error {
	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *fakeBillRepo) DeleteItem(itemID string) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeBillRepo) DeleteItemsByBill(billID string) error {
	for id, it := range f.items {
		if it.BillID == billID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeBillRepo) GetItemsByBill(billID string) ([]*entity.BillItem, error) {
	var out []*entity.BillItem
	for _, it := range f.items {
		if it.BillID == billID {
			clone := *it
			out = append(out, &clone)
		}
	}
	return out, nil
}

var _ repository.BillRepository = (*fakeBillRepo)(nil)

type fakeSerialRepo struct {
	counters map[entity.StoreType]int64
}

func newFakeSerialRepo() *fakeSerialRepo {
	return &fakeSerialRepo{counters: make(map[entity.StoreType]int64)}
}

func (f *fakeSerialRepo) Next(storeType entity.StoreType) (int64, error) {
	f.counters[storeType]++
	return f.counters[storeType], nil
}

var _ repository.SerialRepository = (*fakeSerialRepo)(nil)

// fakeBillingTxRunner ejecuta el callback sobre los fakes y simula el rollback
// restaurando un snapshot cuando fn devuelve error.
type fakeBillingTxRunner struct {
	batchRepo *fakeBatchRepo
	stockRepo *fakeStockRepo
	billRepo  *fakeBillRepo
}

func (f *fakeBillingTxRunner) RunBilling(_ context.Context, fn func(
	batchRepo repository.BatchRepository,
	stockRepo repository.ChannelStockRepository,
	billRepo repository.BillRepository,
) error) error {
	batchesSnap := snapshotBatches(f.batchRepo)
	stockSnap := snapshotStock(f.stockRepo)
	billsSnap, itemsSnap := snapshotBills(f.billRepo)

	if err := fn(f.batchRepo, f.stockRepo, f.billRepo); err != nil {
		f.batchRepo.batches = batchesSnap
		f.stockRepo.rows = stockSnap
		f.billRepo.bills = billsSnap
		f.billRepo.items = itemsSnap
		return err
	}
	return nil
}

var _ billing.BillingTxRunner = (*fakeBillingTxRunner)(nil)

func snapshotBatches(r *fakeBatchRepo) []*entity.Batch {
	out := make([]*entity.Batch, 0, len(r.batches))
	for _, b := range r.batches {
		clone := *b
		out = append(out, &clone)
	}
	return out
}

func snapshotStock(r *fakeStockRepo) []*entity.ChannelStockRow {
	out := make([]*entity.ChannelStockRow, 0, len(r.rows))
	for _, row := range r.rows {
		clone := *row
		out = append(out, &clone)
	}
	return out
}

func snapshotBills(r *fakeBillRepo) (map[string]*entity.Bill, map[string]*entity.BillItem) {
	bills := make(map[string]*entity.Bill, len(r.bills))
	for id, b := range r.bills {
		clone := *b
		bills[id] = &clone
	}
	items := make(map[string]*entity.BillItem, len(r.items))
	for id, it := range r.items {
		clone := *it
		items[id] = &clone
	}
	return bills, items
}

// fakeReceiptGen registra el bill recibido y devuelve bytes fijos.
type fakeReceiptGen struct {
	last *entity.Bill
}

func (f *fakeReceiptGen) GenerateReceipt(_ context.Context, bill *entity.Bill) ([]byte, error) {
	f.last = bill
	return []byte("%PDF-fake"), nil
}

var _ billing.ReceiptGenerator = (*fakeReceiptGen)(nil)
