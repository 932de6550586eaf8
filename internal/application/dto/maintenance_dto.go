package dto

import "time"

// CreateMaintenanceRequest body para POST /api/maintenance.
type CreateMaintenanceRequest struct {
	ItemID     string    `json:"item_id"`
	Type       string    `json:"type"` // calibration | repair | inspection
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Technician string    `json:"technician,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// UpdateMaintenanceRequest body para PUT /api/maintenance/:id.
type UpdateMaintenanceRequest struct {
	Status     *string    `json:"status,omitempty"` // scheduled | in-progress | completed
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Technician *string    `json:"technician,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// MaintenanceResponse evento de mantenimiento para el calendario.
type MaintenanceResponse struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Technician string    `json:"technician,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}
