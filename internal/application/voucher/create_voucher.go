package voucher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aerostock/aerostock-api/internal/domain"
	"github.com/aerostock/aerostock-api/internal/domain/authz"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// maxNumberAttempts acota los reintentos ante colisión de número de vale.
// Agotados los intentos se devuelve ErrGenerationFailure, nunca un duplicado silencioso.
const maxNumberAttempts = 3

// LineInput es una línea solicitada: artículo y cantidad (> 0).
type LineInput struct {
	ItemID   string
	Quantity int
}

// CreateInput entrada para crear un vale.
type CreateInput struct {
	Type               string // withdrawal | return
	Lines              []LineInput
	ProjectName        string
	ExpectedReturnDate *time.Time // solo withdrawal
	Notes              string
}

// Create crea un vale en estado pending a nombre del actor.
//
// Requiere la capacidad voucher:create (projectUser, admin) — el chequeo de rol
// va ANTES de cualquier validación de datos o estado. Para retiros valida que
// cada cantidad no exceda el disponible (no reservado) del artículo; las
// devoluciones no consultan stock porque son material que regresa.
// El número MV-<año>-<NNNN> sale de la secuencia anual con detección de
// colisión y reintento acotado.
func (uc *WorkflowUseCase) Create(ctx context.Context, actor entity.Actor, input CreateInput) (*entity.Voucher, error) {
	if !authz.Allowed(actor.Role, authz.CapCreateVoucher) {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	v := &entity.Voucher{
		ID:                 uuid.New().String(),
		Type:               input.Type,
		Status:             entity.VoucherStatusPending,
		RequestedBy:        entity.ActorRef{ID: actor.ID, Name: actor.Name, Role: actor.Role},
		ProjectName:        input.ProjectName,
		RequestDate:        now,
		ExpectedReturnDate: input.ExpectedReturnDate,
		Notes:              input.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, line := range input.Lines {
		v.Lines = append(v.Lines, entity.VoucherLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	err := uc.txRunner.Run(ctx, func(
		voucherRepo repository.VoucherRepository,
		itemRepo repository.ItemRepository,
		_ repository.ReservationRepository,
		sequenceRepo repository.SequenceRepository,
	) error {
		// Para retiros: cada cantidad debe caber en el disponible actual.
		// Es un chequeo de cortesía al crear; la retención real ocurre al aprobar.
		if v.Type == entity.VoucherTypeWithdrawal {
			for _, line := range v.Lines {
				item, err := itemRepo.GetByID(line.ItemID)
				if err != nil {
					return err
				}
				if item == nil {
					return domain.ErrItemNotFound
				}
				if item.QuantityAvailable() < line.Quantity {
					return &domain.InsufficientStockError{
						ItemID:    line.ItemID,
						Requested: line.Quantity,
						Available: item.QuantityAvailable(),
					}
				}
			}
		} else {
			for _, line := range v.Lines {
				item, err := itemRepo.GetByID(line.ItemID)
				if err != nil {
					return err
				}
				if item == nil {
					return domain.ErrItemNotFound
				}
			}
		}

		number, err := uc.nextRequestNumber(voucherRepo, sequenceRepo, now.Year())
		if err != nil {
			return err
		}
		v.RequestNumber = number
		return voucherRepo.Create(v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// nextRequestNumber obtiene el siguiente número de la secuencia anual y
// verifica unicidad contra el registro de vales. La secuencia persistente ya
// debería garantizarla; si aun así hay colisión (p. ej. datos migrados),
// se reintenta con el siguiente candidato hasta maxNumberAttempts.
func (uc *WorkflowUseCase) nextRequestNumber(
	voucherRepo repository.VoucherRepository,
	sequenceRepo repository.SequenceRepository,
	year int,
) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		seq, err := sequenceRepo.Next(year)
		if err != nil {
			return "", err
		}
		candidate := formatRequestNumber(year, seq)
		existing, err := voucherRepo.GetByRequestNumber(candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%d intentos agotados: %w", maxNumberAttempts, domain.ErrGenerationFailure)
}

// formatRequestNumber arma MV-<año>-<secuencia de 4 dígitos>.
func formatRequestNumber(year, seq int) string {
	return fmt.Sprintf("MV-%d-%04d", year, seq)
}

func validateCreateInput(input CreateInput) error {
	if input.Type != entity.VoucherTypeWithdrawal && input.Type != entity.VoucherTypeReturn {
		return domain.ErrInvalidInput
	}
	if len(input.Lines) == 0 {
		return fmt.Errorf("el vale debe tener al menos una línea: %w", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(input.Lines))
	for _, line := range input.Lines {
		if line.ItemID == "" || line.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		if seen[line.ItemID] {
			return domain.ErrInvalidInput // itemId repetido en el mismo vale
		}
		seen[line.ItemID] = true
	}
	if input.Type == entity.VoucherTypeReturn && input.ExpectedReturnDate != nil {
		return domain.ErrInvalidInput // expectedReturnDate es solo para retiros
	}
	return nil
}
