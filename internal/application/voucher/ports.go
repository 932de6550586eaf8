package voucher

import (
	"context"

	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los
// repositorios que necesita el motor de vales atados a esa tx. Cada transición
// (create/approve/reject/issue/complete) corre completa dentro de una sola
// transacción: o se aplica entera o no deja efecto.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		voucherRepo repository.VoucherRepository,
		itemRepo repository.ItemRepository,
		reservationRepo repository.ReservationRepository,
		sequenceRepo repository.SequenceRepository,
	) error) error
}

// PDFGenerator genera la representación imprimible de un vale. Consume una
// foto de solo lectura del vale y sus artículos; nunca muta estado.
type PDFGenerator interface {
	GenerateVoucherPDF(ctx context.Context, voucher *entity.Voucher, items map[string]*entity.Item) ([]byte, error)
}
