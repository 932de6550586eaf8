package entity

import "time"

// Tipos de mantenimiento de un artículo.
const (
	MaintenanceTypeCalibration = "calibration"
	MaintenanceTypeRepair      = "repair"
	MaintenanceTypeInspection  = "inspection"
)

// Estados de un evento de mantenimiento.
const (
	MaintenanceStatusScheduled  = "scheduled"
	MaintenanceStatusInProgress = "in-progress"
	MaintenanceStatusCompleted  = "completed"
)

// MaintenanceEvent representa una intervención programada sobre un artículo
// (calibración, reparación o inspección) para el calendario de mantenimiento.
type MaintenanceEvent struct {
	ID         string
	ItemID     string
	Type       string // ver constantes MaintenanceType*
	Status     string // ver constantes MaintenanceStatus*
	StartDate  time.Time
	EndDate    time.Time
	Technician string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
