package repository

import "github.com/jhoicas/retail-pos-api/internal/domain/entity"

// SerialRepository entrega consecutivos monotónicos por tipo de tienda para los
// números de serie de bills. La atomicidad del incremento es responsabilidad de
// la capa de almacenamiento.
type SerialRepository interface {
	Next(storeType entity.StoreType) (int64, error)
}
