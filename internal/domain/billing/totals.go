package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// LineTotal implementa la regla de línea (servicio de dominio):
// LineTotal = UnitPrice * Quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// LineTax calcula el impuesto de una línea sobre su total, con la tasa como
// fracción (0.19) o porcentaje (19): valores > 1 se interpretan como porcentaje.
func LineTax(lineTotal, taxRate decimal.Decimal) decimal.Decimal {
	rate := taxRate
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		rate = rate.Div(decimal.NewFromInt(100))
	}
	return lineTotal.Mul(rate)
}

// Recalculate recomputa Subtotal, TaxAmount y TotalAmount del bill a partir de
// sus items y el descuento vigente. Mantiene los invariantes
// Total = Subtotal - Discount + Tax y 0 <= Discount <= Subtotal tras cada
// mutación: si el subtotal bajó por debajo de un descuento ya aplicado
// (quitar items, reducir cantidades), el descuento se acota al nuevo subtotal
// para que el total nunca sea negativo.
func Recalculate(b *entity.Bill) {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, it := range b.Items {
		subtotal = subtotal.Add(it.LineTotal)
		tax = tax.Add(LineTax(it.LineTotal, it.TaxRate))
	}
	b.Subtotal = subtotal
	b.TaxAmount = tax
	if b.DiscountAmount.GreaterThan(subtotal) {
		b.DiscountAmount = subtotal
	}
	b.TotalAmount = subtotal.Sub(b.DiscountAmount).Add(tax)
}

// ValidDiscount verifica 0 <= amount <= subtotal.
func ValidDiscount(amount, subtotal decimal.Decimal) bool {
	return !amount.IsNegative() && amount.LessThanOrEqual(subtotal)
}
