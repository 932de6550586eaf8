package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un artículo de inventario.
const (
	ItemStatusAvailable   = "available"
	ItemStatusAssigned    = "assigned"
	ItemStatusMaintenance = "maintenance"
	ItemStatusRetired     = "retired"
)

// Item representa un artículo físico del inventario (sensores, instrumentación).
// Invariante: 0 <= QuantityReserved <= QuantityOnHand en todo momento.
// Las cantidades solo mutan a través del ledger (Reserve/Release/CommitWithdrawal/CommitReturn).
type Item struct {
	ID               string
	Name             string
	Category         string
	SerialNumber     string // único
	Status           string // ver constantes ItemStatus*
	QuantityOnHand   int
	QuantityReserved int
	Location         string
	Manufacturer     string
	Description      string
	Price            decimal.Decimal
	AssignedTo       string     // equipo/proyecto asignado; vacío si ninguno
	LastCalibration  *time.Time // nil si nunca calibrado
	NextCalibration  *time.Time
	PurchaseDate     time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// QuantityAvailable devuelve las unidades libres (no reservadas).
func (i *Item) QuantityAvailable() int {
	return i.QuantityOnHand - i.QuantityReserved
}

// Reservable indica si el estado del artículo admite reservas.
// maintenance y retired bloquean cualquier reserva nueva.
func (i *Item) Reservable() bool {
	return i.Status == ItemStatusAvailable || i.Status == ItemStatusAssigned
}

// RecomputeStatus recalcula el estado a partir de la regla de cantidades:
// available si quedan unidades libres, assigned si todo está reservado o asignado.
// maintenance y retired son estados administrativos y no se sobreescriben aquí.
func (i *Item) RecomputeStatus() {
	if i.Status == ItemStatusMaintenance || i.Status == ItemStatusRetired {
		return
	}
	if i.QuantityAvailable() > 0 {
		i.Status = ItemStatusAvailable
	} else {
		i.Status = ItemStatusAssigned
	}
}
