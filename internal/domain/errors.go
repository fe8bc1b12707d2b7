package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas). Todos son condiciones de
// negocio recuperables; nunca deben escalar como fallo del proceso.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrBillNotFound       = errors.New("bill no encontrado")
	ErrValidation         = errors.New("entrada inválida")
	ErrInvalidPayment     = errors.New("pago inválido")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrStockConflict      = errors.New("conflicto de stock concurrente")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
)

// InsufficientStockError lleva la cantidad realmente disponible para que el
// caller pueda ofrecer una cantidad reducida. errors.Is(err, ErrInsufficientStock)
// es verdadero para este tipo.
type InsufficientStockError struct {
	ProductCode string
	Channel     string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s en canal %s: solicitado %d, disponible %d",
		e.ProductCode, e.Channel, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StockConflictError señala que una reducción condicional de fila falló porque
// el stock cambió entre la planeación y el commit (carrera detectada en la capa
// de almacenamiento). No es un rechazo de negocio: el caller debe replanear o
// abortar. errors.Is(err, ErrStockConflict) es verdadero para este tipo.
type StockConflictError struct {
	ProductCode string
	BatchID     string
	Quantity    int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("conflicto de stock para %s (lote %s): no fue posible reducir %d unidades",
		e.ProductCode, e.BatchID, e.Quantity)
}

func (e *StockConflictError) Is(target error) bool {
	return target == ErrStockConflict
}

// ValidationError agrega una o más violaciones de validación en un solo error.
// errors.Is(err, ErrValidation) es verdadero para este tipo.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	if len(e.Reasons) == 0 {
		return ErrValidation.Error()
	}
	return "validación: " + strings.Join(e.Reasons, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError construye un ValidationError con una sola razón.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reasons: []string{reason}}
}
