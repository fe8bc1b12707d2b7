package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo implementación de BillRepository sobre PostgreSQL (usable con pool o tx).
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador de bills. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

// Create persiste la cabecera del bill.
func (r *BillRepo) Create(bill *entity.Bill) error {
	query := `
		INSERT INTO bills (id, serial_number, store_type, transaction_type, customer_id, cashier_id,
			subtotal, discount_amount, tax_amount, total_amount, tendered_amount, change_amount,
			payment_recorded, bill_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		bill.ID, bill.SerialNumber, string(bill.StoreType), string(bill.TransactionType),
		bill.CustomerID, bill.CashierID,
		bill.Subtotal, bill.DiscountAmount, bill.TaxAmount, bill.TotalAmount,
		bill.TenderedAmount, bill.ChangeAmount,
		bill.PaymentRecorded, bill.BillDate, string(bill.Status), bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

// Update actualiza la cabecera del bill.
func (r *BillRepo) Update(bill *entity.Bill) error {
	query := `
		UPDATE bills SET customer_id = $2, cashier_id = $3, subtotal = $4, discount_amount = $5,
			tax_amount = $6, total_amount = $7, tendered_amount = $8, change_amount = $9,
			payment_recorded = $10, status = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		bill.ID, bill.CustomerID, bill.CashierID,
		bill.Subtotal, bill.DiscountAmount, bill.TaxAmount, bill.TotalAmount,
		bill.TenderedAmount, bill.ChangeAmount,
		bill.PaymentRecorded, string(bill.Status), bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera del bill (sin items).
func (r *BillRepo) GetByID(id string) (*entity.Bill, error) {
	query := `
		SELECT id, serial_number, store_type, transaction_type, customer_id, cashier_id,
			subtotal, discount_amount, tax_amount, total_amount, tendered_amount, change_amount,
			payment_recorded, bill_date, status, created_at, updated_at
		FROM bills WHERE id = $1`
	var b entity.Bill
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.SerialNumber, &b.StoreType, &b.TransactionType, &b.CustomerID, &b.CashierID,
		&b.Subtotal, &b.DiscountAmount, &b.TaxAmount, &b.TotalAmount, &b.TenderedAmount, &b.ChangeAmount,
		&b.PaymentRecorded, &b.BillDate, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return &b, nil
}

// Delete borra la cabecera del bill (los items se borran con DeleteItemsByBill).
func (r *BillRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

// CreateItem persiste una línea del bill.
func (r *BillRepo) CreateItem(item *entity.BillItem) error {
	query := `
		INSERT INTO bill_items (id, bill_id, product_code, product_name, batch_id, quantity, unit_price, tax_rate, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.BillID, item.ProductCode, item.ProductName, item.BatchID,
		item.Quantity, item.UnitPrice, item.TaxRate, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert bill item: %w", err)
	}
	return nil
}

// UpdateItem actualiza cantidad y total de una línea.
func (r *BillRepo) UpdateItem(item *entity.BillItem) error {
	query := `UPDATE bill_items SET quantity = $2, line_total = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, item.ID, item.Quantity, item.LineTotal)
	if err != nil {
		return fmt.Errorf("update bill item: %w", err)
	}
	return nil
}

// DeleteItem borra una línea por id.
func (r *BillRepo) DeleteItem(itemID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM bill_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete bill item: %w", err)
	}
	return nil
}

// DeleteItemsByBill borra todas las líneas del bill (cancelación).
func (r *BillRepo) DeleteItemsByBill(billID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM bill_items WHERE bill_id = $1`, billID)
	if err != nil {
		return fmt.Errorf("delete bill items: %w", err)
	}
	return nil
}

// GetItemsByBill devuelve las líneas del bill en orden de inserción.
func (r *BillRepo) GetItemsByBill(billID string) ([]*entity.BillItem, error) {
	query := `
		SELECT id, bill_id, product_code, product_name, batch_id, quantity, unit_price, tax_rate, line_total
		FROM bill_items WHERE bill_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, billID)
	if err != nil {
		return nil, fmt.Errorf("list bill items: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillItem
	for rows.Next() {
		var it entity.BillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.ProductCode, &it.ProductName, &it.BatchID,
			&it.Quantity, &it.UnitPrice, &it.TaxRate, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan bill item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
