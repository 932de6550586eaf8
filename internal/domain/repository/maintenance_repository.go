package repository

import (
	"time"

	"github.com/aerostock/aerostock-api/internal/domain/entity"
)

// MaintenanceRepository define el puerto de persistencia para eventos de mantenimiento.
type MaintenanceRepository interface {
	Create(event *entity.MaintenanceEvent) error
	GetByID(id string) (*entity.MaintenanceEvent, error)
	Update(event *entity.MaintenanceEvent) error
	ListByRange(from, to time.Time) ([]*entity.MaintenanceEvent, error)
	ListByItem(itemID string) ([]*entity.MaintenanceEvent, error)
	Delete(id string) error
}
