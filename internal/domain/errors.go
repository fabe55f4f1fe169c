package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrAuthFailed          = errors.New("login o contraseña inválidos")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrReferentialConflict = errors.New("el registro tiene dependencias y no puede eliminarse")
)

// Invalid envuelve ErrInvalidInput con un mensaje legible para el usuario.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// InsufficientStockError rechazo de una salida mayor que el stock disponible.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q. Disponible: %d, solicitado: %d", e.ProductName, e.Available, e.Requested)
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
