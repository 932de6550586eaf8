package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aerostock/aerostock-api/internal/application/dto"
	"github.com/aerostock/aerostock-api/internal/domain"
	"github.com/aerostock/aerostock-api/internal/domain/authz"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// MaintenanceUseCase calendario de mantenimiento: calibraciones, reparaciones
// e inspecciones programadas sobre artículos del inventario.
//
// Programar un evento pone el artículo en maintenance (bloquea reservas nuevas,
// no toca las existentes); completar el último evento abierto lo devuelve a la
// regla de cantidades vía RecomputeStatus.
type MaintenanceUseCase struct {
	maintRepo repository.MaintenanceRepository
	itemRepo  repository.ItemRepository
}

// NewMaintenanceUseCase construye el caso de uso.
func NewMaintenanceUseCase(maintRepo repository.MaintenanceRepository, itemRepo repository.ItemRepository) *MaintenanceUseCase {
	return &MaintenanceUseCase{maintRepo: maintRepo, itemRepo: itemRepo}
}

var validMaintTypes = map[string]bool{
	entity.MaintenanceTypeCalibration: true,
	entity.MaintenanceTypeRepair:      true,
	entity.MaintenanceTypeInspection:  true,
}

// Schedule programa un evento de mantenimiento sobre un artículo.
func (uc *MaintenanceUseCase) Schedule(actor entity.Actor, in dto.CreateMaintenanceRequest) (*dto.MaintenanceResponse, error) {
	if !authz.Allowed(actor.Role, authz.CapManageMaintenance) {
		return nil, domain.ErrPermissionDenied
	}
	if !validMaintTypes[in.Type] {
		return nil, fmt.Errorf("tipo de mantenimiento %q desconocido: %w", in.Type, domain.ErrInvalidInput)
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("end_date anterior a start_date: %w", domain.ErrInvalidInput)
	}
	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if item.Status == entity.ItemStatusRetired {
		return nil, fmt.Errorf("artículo retirado: %w", domain.ErrItemNotAvailable)
	}
	now := time.Now()
	event := &entity.MaintenanceEvent{
		ID:         uuid.New().String(),
		ItemID:     in.ItemID,
		Type:       in.Type,
		Status:     entity.MaintenanceStatusScheduled,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Technician: in.Technician,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.maintRepo.Create(event); err != nil {
		return nil, err
	}
	if item.Status != entity.ItemStatusMaintenance {
		item.Status = entity.ItemStatusMaintenance
		item.UpdatedAt = now
		if err := uc.itemRepo.Update(item); err != nil {
			return nil, err
		}
	}
	return toMaintenanceResponse(event), nil
}

// Update modifica un evento. Completarlo libera el artículo si no le quedan
// otros eventos abiertos; una calibración completada actualiza LastCalibration.
func (uc *MaintenanceUseCase) Update(actor entity.Actor, id string, in dto.UpdateMaintenanceRequest) (*dto.MaintenanceResponse, error) {
	if !authz.Allowed(actor.Role, authz.CapManageMaintenance) {
		return nil, domain.ErrPermissionDenied
	}
	event, err := uc.maintRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}
	completing := false
	if in.Status != nil {
		switch *in.Status {
		case entity.MaintenanceStatusScheduled, entity.MaintenanceStatusInProgress, entity.MaintenanceStatusCompleted:
		default:
			return nil, fmt.Errorf("estado %q desconocido: %w", *in.Status, domain.ErrInvalidInput)
		}
		completing = *in.Status == entity.MaintenanceStatusCompleted && event.Status != entity.MaintenanceStatusCompleted
		event.Status = *in.Status
	}
	if in.StartDate != nil {
		event.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		event.EndDate = *in.EndDate
	}
	if event.EndDate.Before(event.StartDate) {
		return nil, fmt.Errorf("end_date anterior a start_date: %w", domain.ErrInvalidInput)
	}
	if in.Technician != nil {
		event.Technician = *in.Technician
	}
	if in.Notes != nil {
		event.Notes = *in.Notes
	}
	event.UpdatedAt = time.Now()
	if err := uc.maintRepo.Update(event); err != nil {
		return nil, err
	}
	if completing {
		if err := uc.releaseItemIfIdle(event); err != nil {
			return nil, err
		}
	}
	return toMaintenanceResponse(event), nil
}

// Delete elimina un evento programado (los completados se conservan como historial).
func (uc *MaintenanceUseCase) Delete(actor entity.Actor, id string) error {
	if !authz.Allowed(actor.Role, authz.CapManageMaintenance) {
		return domain.ErrPermissionDenied
	}
	event, err := uc.maintRepo.GetByID(id)
	if err != nil {
		return err
	}
	if event == nil {
		return domain.ErrNotFound
	}
	if event.Status == entity.MaintenanceStatusCompleted {
		return fmt.Errorf("un evento completado es historial y no se elimina: %w", domain.ErrInvalidInput)
	}
	if err := uc.maintRepo.Delete(id); err != nil {
		return err
	}
	return uc.releaseItemIfIdle(event)
}

// ListByRange lista eventos cuyo rango se solapa con [from, to] (vista calendario).
func (uc *MaintenanceUseCase) ListByRange(from, to time.Time) ([]dto.MaintenanceResponse, error) {
	events, err := uc.maintRepo.ListByRange(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaintenanceResponse, 0, len(events))
	for _, e := range events {
		out = append(out, *toMaintenanceResponse(e))
	}
	return out, nil
}

// ListByItem lista el historial de mantenimiento de un artículo.
func (uc *MaintenanceUseCase) ListByItem(itemID string) ([]dto.MaintenanceResponse, error) {
	events, err := uc.maintRepo.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaintenanceResponse, 0, len(events))
	for _, e := range events {
		out = append(out, *toMaintenanceResponse(e))
	}
	return out, nil
}

// releaseItemIfIdle saca al artículo de maintenance cuando no le quedan eventos
// abiertos. Una calibración completada además registra LastCalibration.
func (uc *MaintenanceUseCase) releaseItemIfIdle(event *entity.MaintenanceEvent) error {
	item, err := uc.itemRepo.GetByID(event.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return nil // artículo eliminado mientras tanto, nada que liberar
	}
	others, err := uc.maintRepo.ListByItem(event.ItemID)
	if err != nil {
		return err
	}
	for _, e := range others {
		if e.ID != event.ID && e.Status != entity.MaintenanceStatusCompleted {
			return nil
		}
	}
	now := time.Now()
	if event.Status == entity.MaintenanceStatusCompleted && event.Type == entity.MaintenanceTypeCalibration {
		item.LastCalibration = &now
	}
	if item.Status == entity.ItemStatusMaintenance {
		item.Status = entity.ItemStatusAvailable
		item.RecomputeStatus()
	}
	item.UpdatedAt = now
	return uc.itemRepo.Update(item)
}

func toMaintenanceResponse(e *entity.MaintenanceEvent) *dto.MaintenanceResponse {
	if e == nil {
		return nil
	}
	return &dto.MaintenanceResponse{
		ID:         e.ID,
		ItemID:     e.ItemID,
		Type:       e.Type,
		Status:     e.Status,
		StartDate:  e.StartDate,
		EndDate:    e.EndDate,
		Technician: e.Technician,
		Notes:      e.Notes,
	}
}
