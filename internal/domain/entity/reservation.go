package entity

import "time"

// Estados de una reserva de stock.
const (
	ReservationStatusActive    = "active"    // cantidad retenida, aún no retirada
	ReservationStatusCommitted = "committed" // convertida en retiro real de stock
	ReservationStatusReleased  = "released"  // liberada sin consumir stock
)

// Reservation es el token que retiene cantidad de un artículo entre la
// aprobación y la emisión de un vale, evitando sobre-asignación.
// Una reserva active incrementa QuantityReserved del artículo sin tocar
// QuantityOnHand; committed descuenta ambas; released devuelve la retención.
type Reservation struct {
	ID        string
	ItemID    string
	VoucherID string
	Quantity  int
	Status    string // ver constantes ReservationStatus*
	CreatedAt time.Time
	UpdatedAt time.Time
}
