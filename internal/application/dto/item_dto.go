package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	SerialNumber    string          `json:"serial_number"`
	QuantityOnHand  int             `json:"quantity_on_hand"`
	Location        string          `json:"location,omitempty"`
	Manufacturer    string          `json:"manufacturer,omitempty"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	PurchaseDate    *time.Time      `json:"purchase_date,omitempty"`
	NextCalibration *time.Time      `json:"next_calibration,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id. Campos nil no se tocan.
// Las cantidades NO se editan por aquí: solo mutan a través del ledger.
type UpdateItemRequest struct {
	Name            *string          `json:"name,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Status          *string          `json:"status,omitempty"` // solo available/maintenance/retired
	Location        *string          `json:"location,omitempty"`
	Manufacturer    *string          `json:"manufacturer,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	AssignedTo      *string          `json:"assigned_to,omitempty"`
	LastCalibration *time.Time       `json:"last_calibration,omitempty"`
	NextCalibration *time.Time       `json:"next_calibration,omitempty"`
}

// ItemResponse representación pública de un artículo.
type ItemResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	SerialNumber      string          `json:"serial_number"`
	Status            string          `json:"status"`
	QuantityOnHand    int             `json:"quantity_on_hand"`
	QuantityReserved  int             `json:"quantity_reserved"`
	QuantityAvailable int             `json:"quantity_available"`
	Location          string          `json:"location,omitempty"`
	Manufacturer      string          `json:"manufacturer,omitempty"`
	Description       string          `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price"`
	AssignedTo        string          `json:"assigned_to,omitempty"`
	LastCalibration   *time.Time      `json:"last_calibration,omitempty"`
	NextCalibration   *time.Time      `json:"next_calibration,omitempty"`
	PurchaseDate      time.Time       `json:"purchase_date"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
