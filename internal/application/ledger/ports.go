package ledger

import (
	"context"

	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger: o todas
// las mutaciones de la llamada se aplican, o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		reservationRepo repository.ReservationRepository,
	) error) error
}
