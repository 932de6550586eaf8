package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrItemNotFound           = errors.New("artículo no encontrado")
	ErrVoucherNotFound        = errors.New("vale no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrPermissionDenied       = errors.New("el rol no tiene permiso para esta operación")
	ErrInvalidTransition      = errors.New("transición de estado inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrItemNotAvailable       = errors.New("artículo no disponible para reserva")
	ErrReservationState       = errors.New("la reserva no está en un estado válido para la operación")
	ErrDuplicateRequestNumber = errors.New("número de vale duplicado")
	ErrGenerationFailure      = errors.New("no se pudo generar un número de vale único")
)

// InsufficientStockError detalla el faltante de un artículo para que la capa de
// presentación pueda sugerir ajustar la cantidad. Envuelve ErrInsufficientStock,
// por lo que errors.Is(err, ErrInsufficientStock) sigue funcionando.
type InsufficientStockError struct {
	ItemID    string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el artículo %s: solicitado %d, disponible %d",
		e.ItemID, e.Requested, e.Available)
}

// Unwrap permite errors.Is contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall devuelve cuántas unidades faltan para cubrir lo solicitado.
func (e *InsufficientStockError) Shortfall() int { return e.Requested - e.Available }
