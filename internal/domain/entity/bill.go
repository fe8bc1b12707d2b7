package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de tienda (canal de la venta).
type StoreType string

const (
	StorePhysical StoreType = "PHYSICAL"
	StoreOnline   StoreType = "ONLINE"
)

// Valid indica si el tipo de tienda es conocido.
func (s StoreType) Valid() bool {
	return s == StorePhysical || s == StoreOnline
}

// Channel devuelve el canal de stock del que se descuenta una venta de esta tienda.
func (s StoreType) Channel() Channel {
	if s == StoreOnline {
		return ChannelOnline
	}
	return ChannelPhysical
}

// SerialPrefix devuelve el prefijo del número de serie (PH-NNNNN / ON-NNNNN).
func (s StoreType) SerialPrefix() string {
	if s == StoreOnline {
		return "ON"
	}
	return "PH"
}

// Tipos de transacción (forma de pago del bill).
type TransactionType string

const (
	TransactionCash   TransactionType = "CASH"
	TransactionOnline TransactionType = "ONLINE"
	TransactionCard   TransactionType = "CARD"
)

// Valid indica si el tipo de transacción es conocido.
func (t TransactionType) Valid() bool {
	return t == TransactionCash || t == TransactionOnline || t == TransactionCard
}

// Estados del ciclo de vida del bill.
type BillStatus string

const (
	BillInProgress BillStatus = "IN_PROGRESS" // en construcción, vive en el registro
	BillFinalized  BillStatus = "FINALIZED"   // terminal: sin más mutaciones
)

// Bill representa una venta en construcción o finalizada. Es dueño exclusivo de
// sus BillItems (borrado en cascada). Invariantes tras cada mutación:
// TotalAmount = Subtotal - DiscountAmount + TaxAmount, y 0 <= Discount <= Subtotal.
type Bill struct {
	ID              string
	SerialNumber    string // formato <PH|ON>-NNNNN, monotónico por tipo de tienda
	StoreType       StoreType
	TransactionType TransactionType
	CustomerID      string // obligatorio si StoreType = ONLINE
	CashierID       string // obligatorio si StoreType = PHYSICAL y pago CASH
	Items           []*BillItem
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	TenderedAmount  decimal.Decimal
	ChangeAmount    decimal.Decimal
	PaymentRecorded bool // false mientras Tendered/Change no han sido fijados
	BillDate        time.Time
	Status          BillStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FindItem devuelve el índice del item con ese ID, o -1.
func (b *Bill) FindItem(itemID string) int {
	for i, it := range b.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}
