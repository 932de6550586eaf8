package repository

import "github.com/aerostock/aerostock-api/internal/domain/entity"

// VoucherRepository define el puerto de persistencia para Voucher (DIP).
// GetForUpdate bloquea la fila del vale: cada Voucher es una unidad de
// exclusión mutua, dos transiciones concurrentes sobre el mismo vale se
// serializan en la base de datos.
type VoucherRepository interface {
	Create(voucher *entity.Voucher) error
	GetByID(id string) (*entity.Voucher, error)
	GetForUpdate(id string) (*entity.Voucher, error)
	GetByRequestNumber(requestNumber string) (*entity.Voucher, error)
	Update(voucher *entity.Voucher) error
	List(limit, offset int) ([]*entity.Voucher, error)
	ListByStatuses(statuses []string, limit, offset int) ([]*entity.Voucher, error)
	ListByRequester(actorID string, limit, offset int) ([]*entity.Voucher, error)
	// ExistsActiveByItem indica si algún vale no terminal referencia al artículo
	// (un artículo así referenciado no puede eliminarse).
	ExistsActiveByItem(itemID string) (bool, error)
}
