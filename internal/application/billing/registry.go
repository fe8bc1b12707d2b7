package billing

import (
	"sync"

	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// InProgressRegistry mantiene los bills en construcción: un bill se muta a lo
// largo de varias llamadas independientes (agregar item, descuento, pago) antes
// de persistirse como finalizado, y los callers deben poder recuperarlo,
// cancelarlo o finalizarlo por id sin releer una fila a medio escribir.
//
// Disciplina de concurrencia: los callers sobre el mismo bill se serializan
// (el segundo observa el estado completamente actualizado o es rechazado si el
// bill ya salió del registro); callers sobre bills distintos no se bloquean
// entre sí. Es un colaborador inyectable, no un singleton oculto: cada test
// puede construir su propia instancia aislada.
type InProgressRegistry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	mu      sync.Mutex
	bill    *entity.Bill
	removed bool
}

// NewInProgressRegistry construye un registro vacío.
func NewInProgressRegistry() *InProgressRegistry {
	return &InProgressRegistry{entries: make(map[string]*registryEntry)}
}

// Put inscribe un bill recién creado.
func (r *InProgressRegistry) Put(bill *entity.Bill) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[bill.ID] = &registryEntry{bill: bill}
}

// Contains indica si el bill sigue en progreso.
func (r *InProgressRegistry) Contains(billID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[billID]
	return ok
}

// lookup obtiene la entrada sin retener el lock global.
func (r *InProgressRegistry) lookup(billID string) (*registryEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[billID]
	return e, ok
}

// With ejecuta fn con el bill bajo el lock de su entrada. Devuelve
// ErrBillNotFound si el bill no está en progreso (o salió del registro
// mientras el caller esperaba el lock).
func (r *InProgressRegistry) With(billID string, fn func(b *entity.Bill) error) error {
	e, ok := r.lookup(billID)
	if !ok {
		return domain.ErrBillNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return domain.ErrBillNotFound
	}
	return fn(e.bill)
}

// Finish ejecuta fn como With y, si fn termina sin error, saca el bill del
// registro en la misma sección crítica (finalize y cancel usan este camino).
func (r *InProgressRegistry) Finish(billID string, fn func(b *entity.Bill) error) error {
	e, ok := r.lookup(billID)
	if !ok {
		return domain.ErrBillNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return domain.ErrBillNotFound
	}
	if err := fn(e.bill); err != nil {
		return err
	}
	e.removed = true
	r.mu.Lock()
	delete(r.entries, billID)
	r.mu.Unlock()
	return nil
}
