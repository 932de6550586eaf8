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

// ItemUseCase casos de uso CRUD para artículos del inventario.
// Las cantidades (on hand / reservado) NO se editan por aquí: solo mutan a
// través del ledger, de modo que el invariante 0 <= reservado <= existencias
// tiene un único punto de entrada.
type ItemUseCase struct {
	itemRepo    repository.ItemRepository
	voucherRepo repository.VoucherRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(itemRepo repository.ItemRepository, voucherRepo repository.VoucherRepository) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, voucherRepo: voucherRepo}
}

// Create registra un artículo nuevo con todo su stock libre.
func (uc *ItemUseCase) Create(actor entity.Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if !authz.Allowed(actor.Role, authz.CapEditItem) {
		return nil, domain.ErrPermissionDenied
	}
	if in.Name == "" || in.SerialNumber == "" {
		return nil, fmt.Errorf("name y serial_number son obligatorios: %w", domain.ErrInvalidInput)
	}
	if in.QuantityOnHand < 0 {
		return nil, fmt.Errorf("quantity_on_hand no puede ser negativa: %w", domain.ErrInvalidInput)
	}
	existing, _ := uc.itemRepo.GetBySerialNumber(in.SerialNumber)
	if existing != nil {
		return nil, fmt.Errorf("serial %s ya registrado: %w", in.SerialNumber, domain.ErrInvalidInput)
	}
	now := time.Now()
	purchase := now
	if in.PurchaseDate != nil {
		purchase = *in.PurchaseDate
	}
	item := &entity.Item{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Category:        in.Category,
		SerialNumber:    in.SerialNumber,
		Status:          entity.ItemStatusAvailable,
		QuantityOnHand:  in.QuantityOnHand,
		Location:        in.Location,
		Manufacturer:    in.Manufacturer,
		Description:     in.Description,
		Price:           in.Price,
		NextCalibration: in.NextCalibration,
		PurchaseDate:    purchase,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	item.RecomputeStatus()
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return toItemResponse(item), nil
}

// List lista artículos con paginación, opcionalmente filtrados por estado.
func (uc *ItemUseCase) List(status string, limit, offset int) ([]dto.ItemResponse, error) {
	var (
		items []*entity.Item
		err   error
	)
	if status != "" {
		items, err = uc.itemRepo.ListByStatus(status, limit, offset)
	} else {
		items, err = uc.itemRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toItemResponse(it))
	}
	return out, nil
}

// Update modifica los campos administrativos de un artículo. El estado solo
// acepta available/maintenance/retired (assigned lo deriva el ledger), y
// retirar un artículo con unidades reservadas se rechaza.
func (uc *ItemUseCase) Update(actor entity.Actor, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if !authz.Allowed(actor.Role, authz.CapEditItem) {
		return nil, domain.ErrPermissionDenied
	}
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.ItemStatusAvailable, entity.ItemStatusMaintenance, entity.ItemStatusRetired:
		default:
			return nil, fmt.Errorf("estado %q no asignable manualmente: %w", *in.Status, domain.ErrInvalidInput)
		}
		if *in.Status != item.Status && *in.Status != entity.ItemStatusAvailable && item.QuantityReserved > 0 {
			return nil, fmt.Errorf("el artículo tiene %d unidades reservadas: %w", item.QuantityReserved, domain.ErrReservationState)
		}
		item.Status = *in.Status
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	if in.Manufacturer != nil {
		item.Manufacturer = *in.Manufacturer
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.AssignedTo != nil {
		item.AssignedTo = *in.AssignedTo
	}
	if in.LastCalibration != nil {
		item.LastCalibration = in.LastCalibration
	}
	if in.NextCalibration != nil {
		item.NextCalibration = in.NextCalibration
	}
	item.RecomputeStatus()
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina un artículo. Se rechaza si algún vale no terminal lo referencia
// o si todavía tiene unidades reservadas.
func (uc *ItemUseCase) Delete(actor entity.Actor, id string) error {
	if !authz.Allowed(actor.Role, authz.CapDeleteItem) {
		return domain.ErrPermissionDenied
	}
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrItemNotFound
	}
	if item.QuantityReserved > 0 {
		return fmt.Errorf("el artículo tiene %d unidades reservadas: %w", item.QuantityReserved, domain.ErrReservationState)
	}
	referenced, err := uc.voucherRepo.ExistsActiveByItem(id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("el artículo está referenciado por un vale activo: %w", domain.ErrReservationState)
	}
	return uc.itemRepo.Delete(id)
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:                i.ID,
		Name:              i.Name,
		Category:          i.Category,
		SerialNumber:      i.SerialNumber,
		Status:            i.Status,
		QuantityOnHand:    i.QuantityOnHand,
		QuantityReserved:  i.QuantityReserved,
		QuantityAvailable: i.QuantityAvailable(),
		Location:          i.Location,
		Manufacturer:      i.Manufacturer,
		Description:       i.Description,
		Price:             i.Price,
		AssignedTo:        i.AssignedTo,
		LastCalibration:   i.LastCalibration,
		NextCalibration:   i.NextCalibration,
		PurchaseDate:      i.PurchaseDate,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}
