package inventory_test

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia
// ──────────────────────────────────────────────────────────────────────────────

// fakeStockRepo mantiene las filas de canal en el orden FIFO en que se insertan.
type fakeStockRepo struct {
	rows []*entity.ChannelStockRow
	// failReduce fuerza el fallo del Reduce de un lote (simula carrera perdida).
	failReduce map[string]bool
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{failReduce: make(map[string]bool)}
}

func (f *fakeStockRepo) add(channel entity.Channel, productCode, batchID string, qty int) {
	f.rows = append(f.rows, &entity.ChannelStockRow{
		Channel:        channel,
		ProductCode:    productCode,
		BatchID:        batchID,
		QuantityOnHand: qty,
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

// fakeBatchRepo guarda los lotes en orden de inserción (FIFO por construcción).
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

// fakeProductRepo catálogo en memoria.
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

// fakeTxRunner ejecuta el callback directamente sobre los fakes (sin tx real).
type fakeTxRunner struct {
	batchRepo *fakeBatchRepo
	stockRepo *fakeStockRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	batchRepo repository.BatchRepository,
	stockRepo repository.ChannelStockRepository,
) error) error {
	return fn(f.batchRepo, f.stockRepo)
}
