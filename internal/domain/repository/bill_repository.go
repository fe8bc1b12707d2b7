package repository

import "github.com/jhoicas/retail-pos-api/internal/domain/entity"

// BillRepository define el puerto de persistencia para Bill y sus items.
// El bill es dueño exclusivo de sus items (borrado en cascada vía DeleteItemsByBill).
type BillRepository interface {
	Create(bill *entity.Bill) error
	Update(bill *entity.Bill) error
	GetByID(id string) (*entity.Bill, error)
	Delete(id string) error

	CreateItem(item *entity.BillItem) error
	UpdateItem(item *entity.BillItem) error
	DeleteItem(itemID string) error
	DeleteItemsByBill(billID string) error
	GetItemsByBill(billID string) ([]*entity.BillItem, error)
}
