// Package voucher implementa el motor de flujo de trabajo de los vales de
// material: la máquina de estados pending -> {approved, rejected},
// approved -> issued, issued -> completed, con autorización por rol en cada
// transición y coordinación con el ledger de inventario.
//
// Disciplina de cada operación mutadora, en orden estricto:
//  1. Chequeo de capacidad (authz) — antes de cualquier validación de estado.
//  2. Carga del vale con bloqueo de fila (GetForUpdate): el vale es la unidad
//     de exclusión mutua, dos transiciones concurrentes se serializan.
//  3. Detección de replay: el mismo actor reaplicando la transición que ya
//     quedó registrada a su nombre recibe el vale sin cambios, sin re-ejecutar
//     efectos. Cualquier otro caso fuera de estado es ErrInvalidTransition.
//  4. Efectos de inventario vía ledger, todo-o-nada.
//  5. Persistencia del nuevo estado y retorno.
package voucher

import (
	"context"
	"time"

	"github.com/aerostock/aerostock-api/internal/application/ledger"
	"github.com/aerostock/aerostock-api/internal/domain"
	"github.com/aerostock/aerostock-api/internal/domain/authz"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// WorkflowUseCase es el motor de vales. Posee los registros de vales; el
// inventario lo posee el ledger y el motor solo lo toca a través de él.
type WorkflowUseCase struct {
	txRunner TxRunner
	ledger   *ledger.LedgerUseCase
}

// NewWorkflowUseCase construye el motor.
func NewWorkflowUseCase(txRunner TxRunner, ledgerUC *ledger.LedgerUseCase) *WorkflowUseCase {
	return &WorkflowUseCase{txRunner: txRunner, ledger: ledgerUC}
}

// Approve aprueba un vale pending. Para retiros reserva cada línea en el
// ledger; si cualquier reserva falla, las ya tomadas en esta llamada se
// liberan y la aprobación entera falla sin efecto (todo-o-nada).
func (uc *WorkflowUseCase) Approve(ctx context.Context, actor entity.Actor, voucherID string) (*entity.Voucher, error) {
	if !authz.Allowed(actor.Role, authz.CapApproveVoucher) {
		return nil, domain.ErrPermissionDenied
	}

	var out *entity.Voucher
	err := uc.txRunner.Run(ctx, func(
		voucherRepo repository.VoucherRepository,
		itemRepo repository.ItemRepository,
		reservationRepo repository.ReservationRepository,
		_ repository.SequenceRepository,
	) error {
		v, err := voucherRepo.GetForUpdate(voucherID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrVoucherNotFound
		}
		// Replay del mismo actor sobre una aprobación ya registrada: no-op.
		if v.Status == entity.VoucherStatusApproved && v.ApprovedBy != nil && v.ApprovedBy.ID == actor.ID {
			out = v
			return nil
		}
		if v.Status != entity.VoucherStatusPending {
			return domain.ErrInvalidTransition
		}

		if v.Type == entity.VoucherTypeWithdrawal {
			reserved := make([]string, 0, len(v.Lines))
			for i := range v.Lines {
				res, err := uc.ledger.ReserveInTx(itemRepo, reservationRepo, v.Lines[i].ItemID, v.ID, v.Lines[i].Quantity)
				if err != nil {
					// Compensación explícita: liberar lo ya reservado en esta
					// llamada antes de devolver el error. El rollback de la tx
					// también lo desharía, pero el contrato todo-o-nada no
					// depende de la tecnología de persistencia.
					for _, id := range reserved {
						_ = uc.ledger.ReleaseInTx(itemRepo, reservationRepo, id)
					}
					return err
				}
				v.Lines[i].ReservationID = res.ID
				reserved = append(reserved, res.ID)
			}
		}

		now := time.Now()
		v.Status = entity.VoucherStatusApproved
		v.ApprovedBy = &entity.ActorRef{ID: actor.ID, Name: actor.Name, Role: actor.Role}
		v.ApprovalDate = &now
		v.UpdatedAt = now
		if err := voucherRepo.Update(v); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reject rechaza un vale pending. No toca inventario: nada se había reservado.
// El actor que rechaza queda registrado en ApprovedBy para auditoría.
func (uc *WorkflowUseCase) Reject(ctx context.Context, actor entity.Actor, voucherID string) (*entity.Voucher, error) {
	if !authz.Allowed(actor.Role, authz.CapApproveVoucher) {
		return nil, domain.ErrPermissionDenied
	}

	var out *entity.Voucher
	err := uc.txRunner.Run(ctx, func(
		voucherRepo repository.VoucherRepository,
		_ repository.ItemRepository,
		_ repository.ReservationRepository,
		_ repository.SequenceRepository,
	) error {
		v, err := voucherRepo.GetForUpdate(voucherID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrVoucherNotFound
		}
		if v.Status == entity.VoucherStatusRejected && v.ApprovedBy != nil && v.ApprovedBy.ID == actor.ID {
			out = v
			return nil
		}
		if v.Status != entity.VoucherStatusPending {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		v.Status = entity.VoucherStatusRejected
		v.ApprovedBy = &entity.ActorRef{ID: actor.ID, Name: actor.Name, Role: actor.Role}
		v.ApprovalDate = &now
		v.UpdatedAt = now
		if err := voucherRepo.Update(v); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Issue emite los materiales de un vale approved. Para retiros revalida cada
// reserva (sigue active y el artículo no fue retirado) y luego confirma el
// descuento de stock; si alguna reserva quedó inválida, falla con
// ErrReservationState y el vale permanece approved. Las devoluciones no
// confirman nada en este paso.
func (uc *WorkflowUseCase) Issue(ctx context.Context, actor entity.Actor, voucherID string) (*entity.Voucher, error) {
	if !authz.Allowed(actor.Role, authz.CapIssueVoucher) {
		return nil, domain.ErrPermissionDenied
	}

	var out *entity.Voucher
	err := uc.txRunner.Run(ctx, func(
		voucherRepo repository.VoucherRepository,
		itemRepo repository.ItemRepository,
		reservationRepo repository.ReservationRepository,
		_ repository.SequenceRepository,
	) error {
		v, err := voucherRepo.GetForUpdate(voucherID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrVoucherNotFound
		}
		if v.Status == entity.VoucherStatusIssued && v.IssuedBy != nil && v.IssuedBy.ID == actor.ID {
			out = v
			return nil
		}
		if v.Status != entity.VoucherStatusApproved {
			return domain.ErrInvalidTransition
		}

		if v.Type == entity.VoucherTypeWithdrawal {
			// Fase 1: revalidar todas las reservas antes de confirmar ninguna.
			for i := range v.Lines {
				if err := uc.ledger.ValidateReservationInTx(itemRepo, reservationRepo, v.Lines[i].ReservationID); err != nil {
					return err
				}
			}
			// Fase 2: confirmar los retiros.
			for i := range v.Lines {
				if err := uc.ledger.CommitWithdrawalInTx(itemRepo, reservationRepo, v.Lines[i].ReservationID); err != nil {
					return err
				}
			}
		}

		now := time.Now()
		v.Status = entity.VoucherStatusIssued
		v.IssuedBy = &entity.ActorRef{ID: actor.ID, Name: actor.Name, Role: actor.Role}
		v.IssueDate = &now
		v.UpdatedAt = now
		if err := voucherRepo.Update(v); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Complete cierra un vale issued. Para retiros representa el material volviendo
// al almacén; para devoluciones, el almacén aceptando lo devuelto. En ambos
// casos registra la entrada de cada línea en el ledger (CommitReturn).
// actualReturnDate es opcional; nil usa la hora actual.
func (uc *WorkflowUseCase) Complete(ctx context.Context, actor entity.Actor, voucherID string, actualReturnDate *time.Time) (*entity.Voucher, error) {
	if !authz.Allowed(actor.Role, authz.CapCompleteVoucher) {
		return nil, domain.ErrPermissionDenied
	}

	var out *entity.Voucher
	err := uc.txRunner.Run(ctx, func(
		voucherRepo repository.VoucherRepository,
		itemRepo repository.ItemRepository,
		_ repository.ReservationRepository,
		_ repository.SequenceRepository,
	) error {
		v, err := voucherRepo.GetForUpdate(voucherID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrVoucherNotFound
		}
		if v.Status == entity.VoucherStatusCompleted && v.CompletedBy != nil && v.CompletedBy.ID == actor.ID {
			out = v
			return nil
		}
		if v.Status != entity.VoucherStatusIssued {
			return domain.ErrInvalidTransition
		}

		for i := range v.Lines {
			if err := uc.ledger.CommitReturnInTx(itemRepo, v.Lines[i].ItemID, v.Lines[i].Quantity); err != nil {
				return err
			}
		}

		now := time.Now()
		returned := actualReturnDate
		if returned == nil {
			returned = &now
		}
		v.Status = entity.VoucherStatusCompleted
		v.CompletedBy = &entity.ActorRef{ID: actor.ID, Name: actor.Name, Role: actor.Role}
		v.ActualReturnDate = returned
		v.UpdatedAt = now
		if err := voucherRepo.Update(v); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
