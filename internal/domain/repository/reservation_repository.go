package repository

import "github.com/aerostock/aerostock-api/internal/domain/entity"

// ReservationRepository define el puerto de persistencia para Reservation.
type ReservationRepository interface {
	Create(reservation *entity.Reservation) error
	GetByID(id string) (*entity.Reservation, error)
	GetForUpdate(id string) (*entity.Reservation, error)
	Update(reservation *entity.Reservation) error
	ListByVoucher(voucherID string) ([]*entity.Reservation, error)
}
