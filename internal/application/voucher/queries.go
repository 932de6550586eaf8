package voucher

import (
	"github.com/aerostock/aerostock-api/internal/domain"
	"github.com/aerostock/aerostock-api/internal/domain/authz"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// storeVisibleStatuses son los estados que ve el almacén: vales que ya pasaron
// aprobación y le conciernen para emisión y recepción.
var storeVisibleStatuses = []string{
	entity.VoucherStatusApproved,
	entity.VoucherStatusIssued,
	entity.VoucherStatusCompleted,
}

// QueryUseCase resuelve las consultas de vales filtradas por rol. Son lecturas
// sobre snapshot, sin bloqueo: solo las transiciones requieren serialización.
type QueryUseCase struct {
	voucherRepo repository.VoucherRepository
}

// NewQueryUseCase construye las consultas con el puerto de persistencia.
func NewQueryUseCase(voucherRepo repository.VoucherRepository) *QueryUseCase {
	return &QueryUseCase{voucherRepo: voucherRepo}
}

// ListForActor devuelve los vales visibles para el actor según su rol:
//   - admin y approveAuthority ven todo,
//   - storeUser ve approved/issued/completed,
//   - projectUser ve solo los propios.
func (uc *QueryUseCase) ListForActor(actor entity.Actor, limit, offset int) ([]*entity.Voucher, error) {
	switch {
	case authz.Allowed(actor.Role, authz.CapViewAllVouchers):
		return uc.voucherRepo.List(limit, offset)
	case authz.Allowed(actor.Role, authz.CapViewStoreVouchers):
		return uc.voucherRepo.ListByStatuses(storeVisibleStatuses, limit, offset)
	case authz.Allowed(actor.Role, authz.CapViewOwnVouchers):
		return uc.voucherRepo.ListByRequester(actor.ID, limit, offset)
	}
	return nil, domain.ErrPermissionDenied
}

// GetForActor devuelve un vale si el rol del actor le da visibilidad sobre él;
// ErrPermissionDenied en caso contrario, ErrVoucherNotFound si no existe.
func (uc *QueryUseCase) GetForActor(actor entity.Actor, voucherID string) (*entity.Voucher, error) {
	v, err := uc.voucherRepo.GetByID(voucherID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrVoucherNotFound
	}
	if !uc.visibleTo(actor, v) {
		return nil, domain.ErrPermissionDenied
	}
	return v, nil
}

func (uc *QueryUseCase) visibleTo(actor entity.Actor, v *entity.Voucher) bool {
	if authz.Allowed(actor.Role, authz.CapViewAllVouchers) {
		return true
	}
	if authz.Allowed(actor.Role, authz.CapViewStoreVouchers) {
		for _, s := range storeVisibleStatuses {
			if v.Status == s {
				return true
			}
		}
		return false
	}
	if authz.Allowed(actor.Role, authz.CapViewOwnVouchers) {
		return v.RequestedBy.ID == actor.ID
	}
	return false
}
