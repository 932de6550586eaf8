package voucher_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerostock/aerostock-api/internal/application/voucher"
	"github.com/aerostock/aerostock-api/internal/domain"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Create — permisos y validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ValePendingConSnapshotDelSolicitante(t *testing.T) {
	uc, runner := newEngine()
	seedItem(t, runner, "it-1", 5)

	v, err := uc.Create(context.Background(), actorProject, withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: 2}))
	require.NoError(t, err)

	assert.Equal(t, entity.VoucherStatusPending, v.Status)
	assert.Equal(t, actorProject.ID, v.RequestedBy.ID)
	assert.Equal(t, entity.RoleProjectUser, v.RequestedBy.Role,
		"el rol queda congelado en el vale aunque el usuario cambie después")
	assert.Nil(t, v.ApprovedBy)
	assert.Nil(t, v.ApprovalDate)
	assert.NotEmpty(t, v.RequestNumber)
	assert.Equal(t, 0, itemState(t, runner, "it-1").QuantityReserved,
		"crear no reserva: la retención ocurre al aprobar")
}

func TestCreate_RolesSinPermiso(t *testing.T) {
	uc, runner := newEngine()
	seedItem(t, runner, "it-1", 5)
	in := withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: 1})

	for _, actor := range []entity.Actor{actorApprove, actorStore} {
		_, err := uc.Create(context.Background(), actor, in)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied, "rol %s no crea vales", actor.Role)
	}

	// admin tiene membresía explícita en create.
	_, err := uc.Create(context.Background(), actorAdmin, in)
	assert.NoError(t, err)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, runner := newEngine()
	seedItem(t, runner, "it-1", 5)
	ctx := context.Background()
	expected := time.Now().AddDate(0, 1, 0)

	cases := []struct {
		name  string
		input voucher.CreateInput
	}{
		{"tipo desconocido", voucher.CreateInput{Type: "loan", Lines: []voucher.LineInput{{ItemID: "it-1", Quantity: 1}}}},
		{"sin líneas", voucher.CreateInput{Type: entity.VoucherTypeWithdrawal}},
		{"cantidad cero", withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: 0})},
		{"cantidad negativa", withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: -2})},
		{"artículo repetido", withdrawalInput(
			voucher.LineInput{ItemID: "it-1", Quantity: 1},
			voucher.LineInput{ItemID: "it-1", Quantity: 2},
		)},
		{"devolución con fecha esperada de retorno", voucher.CreateInput{
			Type:               entity.VoucherTypeReturn,
			Lines:              []voucher.LineInput{{ItemID: "it-1", Quantity: 1}},
			ExpectedReturnDate: &expected,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, actorProject, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_RetiroExcedeDisponible(t *testing.T) {
	uc, runner := newEngine()
	seedItem(t, runner, "it-1", 5)
	ctx := context.Background()

	// Otro vale ya tiene 4 reservadas: disponible = 1.
	other, err := uc.Create(ctx, actorProject, withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: 4}))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, actorApprove, other.ID)
	require.NoError(t, err)

	_, err = uc.Create(ctx, actorProject, withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: 2}))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"la cantidad se valida contra el disponible no reservado")
}

func TestCreate_ArticuloInexistente(t *testing.T) {
	uc, _ := newEngine()
	_, err := uc.Create(context.Background(), actorProject, withdrawalInput(voucher.LineInput{ItemID: "nope", Quantity: 1}))
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Número de vale — secuencia anual con detección de colisión
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NumerosSecuencialesPorAnio(t *testing.T) {
	uc, runner := newEngine()
	seedItem(t, runner, "it-1", 50)
	ctx := context.Background()
	year := time.Now().Year()

	first, err := uc.Create(ctx, actorProject, withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: 1}))
	require.NoError(t, err)
	second, err := uc.Create(ctx, actorProject, withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: 1}))
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("MV-%d-0001", year), first.RequestNumber)
	assert.Equal(t, fmt.Sprintf("MV-%d-0002", year), second.RequestNumber)
}

func TestCreate_ColisionDeNumero_ReintentaConElSiguiente(t *testing.T) {
	uc, runner := newEngine()
	seedItem(t, runner, "it-1", 50)
	year := time.Now().Year()

	// Un vale migrado ya ocupa el primer número de la secuencia.
	require.NoError(t, runner.vouchers.Create(&entity.Voucher{
		ID:            "legacy",
		RequestNumber: fmt.Sprintf("MV-%d-0001", year),
		Type:          entity.VoucherTypeWithdrawal,
		Status:        entity.VoucherStatusCompleted,
	}))

	v, err := uc.Create(context.Background(), actorProject, withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("MV-%d-0002", year), v.RequestNumber,
		"la colisión se detecta y se reintenta, jamás se emite un duplicado")
}

func TestCreate_ColisionesAgotadas_GenerationFailure(t *testing.T) {
	uc, runner := newEngine()
	seedItem(t, runner, "it-1", 50)
	year := time.Now().Year()

	// Los tres primeros candidatos están ocupados: se agotan los reintentos.
	for seq := 1; seq <= 3; seq++ {
		require.NoError(t, runner.vouchers.Create(&entity.Voucher{
			ID:            fmt.Sprintf("legacy-%d", seq),
			RequestNumber: fmt.Sprintf("MV-%d-%04d", year, seq),
			Type:          entity.VoucherTypeWithdrawal,
			Status:        entity.VoucherStatusCompleted,
		}))
	}

	_, err := uc.Create(context.Background(), actorProject, withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: 1}))
	assert.ErrorIs(t, err, domain.ErrGenerationFailure)
}
