// Package ledger implementa el libro de inventario: reservas, liberaciones y
// confirmaciones de retiro/devolución sobre los artículos.
//
// El ledger es el único dueño de QuantityOnHand y QuantityReserved; el motor
// de vales nunca muta esos campos directamente, siempre llama aquí. Toda
// mutación respeta el invariante 0 <= QuantityReserved <= QuantityOnHand y
// recalcula el estado del artículo antes de persistir.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aerostock/aerostock-api/internal/domain"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// LedgerUseCase expone las operaciones del libro de inventario.
// Las variantes *InTx reciben repos atados a la transacción del caller
// (el motor de vales las invoca dentro de su propia tx); las públicas
// abren su propia transacción vía TxRunner.
type LedgerUseCase struct {
	txRunner TxRunner
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner}
}

// Reserve retiene cantidad de un artículo y devuelve el token de reserva.
// Falla con ErrItemNotFound, ErrItemNotAvailable o InsufficientStockError
// sin dejar efecto alguno.
func (uc *LedgerUseCase) Reserve(ctx context.Context, itemID, voucherID string, quantity int) (*entity.Reservation, error) {
	var res *entity.Reservation
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, reservationRepo repository.ReservationRepository) error {
		r, err := uc.ReserveInTx(itemRepo, reservationRepo, itemID, voucherID, quantity)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReserveInTx retiene cantidad dentro de la transacción del caller.
// Bloquea la fila del artículo (GetForUpdate): dos reservas concurrentes sobre
// el mismo artículo se serializan y no pueden sobre-reservar stock.
func (uc *LedgerUseCase) ReserveInTx(
	itemRepo repository.ItemRepository,
	reservationRepo repository.ReservationRepository,
	itemID, voucherID string,
	quantity int,
) (*entity.Reservation, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := itemRepo.GetForUpdate(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if !item.Reservable() {
		return nil, domain.ErrItemNotAvailable
	}
	if item.QuantityAvailable() < quantity {
		return nil, &domain.InsufficientStockError{
			ItemID:    itemID,
			Requested: quantity,
			Available: item.QuantityAvailable(),
		}
	}

	now := time.Now()
	item.QuantityReserved += quantity
	item.RecomputeStatus()
	item.UpdatedAt = now
	if err := itemRepo.Update(item); err != nil {
		return nil, err
	}

	res := &entity.Reservation{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		VoucherID: voucherID,
		Quantity:  quantity,
		Status:    entity.ReservationStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := reservationRepo.Create(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Release libera una reserva activa. Idempotente: liberar una reserva ya
// liberada es un no-op. Liberar una reserva ya confirmada es ErrReservationState
// (el stock ya se descontó, no hay retención que devolver).
func (uc *LedgerUseCase) Release(ctx context.Context, reservationID string) error {
	return uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, reservationRepo repository.ReservationRepository) error {
		return uc.ReleaseInTx(itemRepo, reservationRepo, reservationID)
	})
}

// ReleaseInTx libera la reserva dentro de la transacción del caller.
func (uc *LedgerUseCase) ReleaseInTx(
	itemRepo repository.ItemRepository,
	reservationRepo repository.ReservationRepository,
	reservationID string,
) error {
	res, err := reservationRepo.GetForUpdate(reservationID)
	if err != nil {
		return err
	}
	if res == nil {
		return domain.ErrNotFound
	}
	switch res.Status {
	case entity.ReservationStatusReleased:
		return nil // no-op idempotente
	case entity.ReservationStatusCommitted:
		return domain.ErrReservationState
	}

	item, err := itemRepo.GetForUpdate(res.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrItemNotFound
	}

	now := time.Now()
	item.QuantityReserved -= res.Quantity
	item.RecomputeStatus()
	item.UpdatedAt = now
	if err := itemRepo.Update(item); err != nil {
		return err
	}

	res.Status = entity.ReservationStatusReleased
	res.UpdatedAt = now
	return reservationRepo.Update(res)
}

// CommitWithdrawal convierte una reserva activa en retiro real de stock:
// descuenta QuantityOnHand y QuantityReserved. Falla con ErrReservationState
// si el token ya fue confirmado o liberado.
func (uc *LedgerUseCase) CommitWithdrawal(ctx context.Context, reservationID string) error {
	return uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, reservationRepo repository.ReservationRepository) error {
		return uc.CommitWithdrawalInTx(itemRepo, reservationRepo, reservationID)
	})
}

// CommitWithdrawalInTx confirma el retiro dentro de la transacción del caller.
func (uc *LedgerUseCase) CommitWithdrawalInTx(
	itemRepo repository.ItemRepository,
	reservationRepo repository.ReservationRepository,
	reservationID string,
) error {
	res, err := reservationRepo.GetForUpdate(reservationID)
	if err != nil {
		return err
	}
	if res == nil {
		return domain.ErrNotFound
	}
	if res.Status != entity.ReservationStatusActive {
		return domain.ErrReservationState
	}

	item, err := itemRepo.GetForUpdate(res.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrItemNotFound
	}

	now := time.Now()
	item.QuantityOnHand -= res.Quantity
	item.QuantityReserved -= res.Quantity
	item.RecomputeStatus()
	item.UpdatedAt = now
	if err := itemRepo.Update(item); err != nil {
		return err
	}

	res.Status = entity.ReservationStatusCommitted
	res.UpdatedAt = now
	return reservationRepo.Update(res)
}

// CommitReturn registra la entrada de unidades devueltas: incrementa
// QuantityOnHand. Las devoluciones agregan stock, no lo consumen, así que no
// pasan por reserva.
func (uc *LedgerUseCase) CommitReturn(ctx context.Context, itemID string, quantity int) error {
	return uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, _ repository.ReservationRepository) error {
		return uc.CommitReturnInTx(itemRepo, itemID, quantity)
	})
}

// CommitReturnInTx registra la devolución dentro de la transacción del caller.
func (uc *LedgerUseCase) CommitReturnInTx(
	itemRepo repository.ItemRepository,
	itemID string,
	quantity int,
) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	item, err := itemRepo.GetForUpdate(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrItemNotFound
	}

	item.QuantityOnHand += quantity
	item.RecomputeStatus()
	item.UpdatedAt = time.Now()
	return itemRepo.Update(item)
}

// ValidateReservationInTx verifica que una reserva siga siendo emitible:
// debe estar active y su artículo no puede haber sido retirado entre la
// aprobación y la emisión. Devuelve ErrReservationState si no lo es.
func (uc *LedgerUseCase) ValidateReservationInTx(
	itemRepo repository.ItemRepository,
	reservationRepo repository.ReservationRepository,
	reservationID string,
) error {
	res, err := reservationRepo.GetByID(reservationID)
	if err != nil {
		return err
	}
	if res == nil || res.Status != entity.ReservationStatusActive {
		return domain.ErrReservationState
	}
	item, err := itemRepo.GetByID(res.ItemID)
	if err != nil {
		return err
	}
	if item == nil || item.Status == entity.ItemStatusRetired {
		return domain.ErrReservationState
	}
	return nil
}
