package repository

import "github.com/aerostock/aerostock-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetForUpdate bloquea la fila del artículo mientras dure la transacción:
// cada Item es una unidad de exclusión mutua para las mutaciones del ledger.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetForUpdate(id string) (*entity.Item, error)
	GetBySerialNumber(serial string) (*entity.Item, error)
	Update(item *entity.Item) error
	List(limit, offset int) ([]*entity.Item, error)
	ListByStatus(status string, limit, offset int) ([]*entity.Item, error)
	Delete(id string) error
}
