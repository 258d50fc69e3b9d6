package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrLocationRequired = errors.New("el repuesto maneja stock por ubicación: location_id es requerido")
)

// InsufficientStockError indica que la cantidad solicitada supera la disponible.
// Incluye la cantidad disponible para que el usuario pueda ajustar la operación.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d", e.Available)
}

// NegativeStockError indica que una mutación dejaría la cantidad por debajo de cero.
// Es una falla defensiva: con el bloqueo de fila correcto nunca debería ocurrir.
// Si ocurre, la transacción se aborta y se trata como falla del sistema.
type NegativeStockError struct {
	PartID     string
	LocationID string
	Resulting  int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("stock negativo: repuesto %s en ubicación %s quedaría en %d", e.PartID, e.LocationID, e.Resulting)
}
