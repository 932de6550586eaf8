package voucher_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerostock/aerostock-api/internal/application/voucher"
	"github.com/aerostock/aerostock-api/internal/domain"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
)

// Actores de prueba, uno por rol.
var (
	actorProject = entity.Actor{ID: "u-project", Name: "Project Engineer", Role: entity.RoleProjectUser}
	actorApprove = entity.Actor{ID: "u-approve", Name: "Approve Authority", Role: entity.RoleApproveAuthority}
	actorStore   = entity.Actor{ID: "u-store", Name: "Store Manager", Role: entity.RoleStoreUser}
	actorAdmin   = entity.Actor{ID: "u-admin", Name: "Admin User", Role: entity.RoleAdmin}
)

func seedItem(t *testing.T, runner *memTxRunner, id string, onHand int) {
	t.Helper()
	require.NoError(t, runner.items.Create(&entity.Item{
		ID:             id,
		Name:           "Accelerometer - High G",
		SerialNumber:   "ACC-" + id,
		Status:         entity.ItemStatusAvailable,
		QuantityOnHand: onHand,
	}))
}

func itemState(t *testing.T, runner *memTxRunner, id string) *entity.Item {
	t.Helper()
	it, err := runner.items.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it
}

func withdrawalInput(lines ...voucher.LineInput) voucher.CreateInput {
	return voucher.CreateInput{
		Type:        entity.VoucherTypeWithdrawal,
		Lines:       lines,
		ProjectName: "Propulsion Team Alpha",
	}
}

func createPending(t *testing.T, uc *voucher.WorkflowUseCase, runner *memTxRunner, qty int) *entity.Voucher {
	t.Helper()
	seedItem(t, runner, "it-1", 5)
	v, err := uc.Create(context.Background(), actorProject, withdrawalInput(voucher.LineInput{ItemID: "it-1", Quantity: qty}))
	require.NoError(t, err)
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_ReservaLineasYRegistraAprobador(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)

	approved, err := uc.Approve(context.Background(), actorApprove, v.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.VoucherStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, actorApprove.ID, approved.ApprovedBy.ID)
	assert.NotNil(t, approved.ApprovalDate, "ApprovedBy y ApprovalDate se fijan juntos")
	assert.NotEmpty(t, approved.Lines[0].ReservationID)

	it := itemState(t, runner, "it-1")
	assert.Equal(t, 5, it.QuantityOnHand, "aprobar reserva, no descuenta")
	assert.Equal(t, 2, it.QuantityReserved)
}

func TestApprove_ProjectUser_PermisoDenegadoYEstadoIntacto(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)

	_, err := uc.Approve(context.Background(), actorProject, v.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	stored, err := runner.vouchers.GetByID(v.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VoucherStatusPending, stored.Status,
		"el chequeo de permiso va antes que todo: el vale queda pending")
	assert.Equal(t, 0, itemState(t, runner, "it-1").QuantityReserved)
}

func TestApprove_FallaUnaLinea_RollbackTotal(t *testing.T) {
	uc, runner := newEngine()
	seedItem(t, runner, "it-1", 10)
	seedItem(t, runner, "it-2", 1)

	v, err := uc.Create(context.Background(), actorProject, withdrawalInput(
		voucher.LineInput{ItemID: "it-1", Quantity: 4},
		voucher.LineInput{ItemID: "it-2", Quantity: 1},
	))
	require.NoError(t, err)

	// Otro vale consume el único disponible de it-2 entre create y approve.
	other, err := uc.Create(context.Background(), actorProject, withdrawalInput(voucher.LineInput{ItemID: "it-2", Quantity: 1}))
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), actorApprove, other.ID)
	require.NoError(t, err)

	_, err = uc.Approve(context.Background(), actorApprove, v.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Todo-o-nada: la reserva de it-1 tomada en esta llamada se liberó.
	assert.Equal(t, 0, itemState(t, runner, "it-1").QuantityReserved,
		"sin reservas parciales pendientes tras una aprobación fallida")
	assert.Equal(t, 1, itemState(t, runner, "it-2").QuantityReserved,
		"la reserva del otro vale no se toca")

	stored, _ := runner.vouchers.GetByID(v.ID)
	assert.Equal(t, entity.VoucherStatusPending, stored.Status)
}

func TestApprove_Replay_MismoActor_NoReservaDosVeces(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)
	ctx := context.Background()

	first, err := uc.Approve(ctx, actorApprove, v.ID)
	require.NoError(t, err)

	replay, err := uc.Approve(ctx, actorApprove, v.ID)
	require.NoError(t, err, "el replay exacto de una transición ya aplicada se tolera")
	assert.Equal(t, first.Status, replay.Status)
	assert.Equal(t, first.ApprovalDate.Unix(), replay.ApprovalDate.Unix())

	assert.Equal(t, 2, itemState(t, runner, "it-1").QuantityReserved,
		"el replay no debe re-reservar")
}

func TestApprove_OtroActorSobreValeAprobado_TransicionInvalida(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)
	ctx := context.Background()

	_, err := uc.Approve(ctx, actorApprove, v.ID)
	require.NoError(t, err)

	_, err = uc.Approve(ctx, actorAdmin, v.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApprove_ValeInexistente(t *testing.T) {
	uc, _ := newEngine()
	_, err := uc.Approve(context.Background(), actorApprove, "nope")
	assert.ErrorIs(t, err, domain.ErrVoucherNotFound)
}

func TestApprove_Concurrente_ExactamenteUnGanador(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)
	ctx := context.Background()

	// Dos approveAuthority distintos compiten por el mismo vale pending.
	second := entity.Actor{ID: "u-approve-2", Name: "Second Authority", Role: entity.RoleApproveAuthority}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, actor := range []entity.Actor{actorApprove, second} {
		wg.Add(1)
		go func(i int, a entity.Actor) {
			defer wg.Done()
			_, errs[i] = uc.Approve(ctx, a, v.ID)
		}(i, actor)
	}
	wg.Wait()

	var ok, invalid int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInvalidTransition):
			invalid++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactamente una aprobación gana")
	assert.Equal(t, 1, invalid, "la otra observa transición inválida")

	assert.Equal(t, 2, itemState(t, runner, "it-1").QuantityReserved,
		"las reservas se aplican exactamente una vez")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestReject_SinEfectoDeInventario(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)

	rejected, err := uc.Reject(context.Background(), actorApprove, v.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.VoucherStatusRejected, rejected.Status)
	require.NotNil(t, rejected.ApprovedBy, "quien rechaza queda registrado para auditoría")
	assert.Equal(t, actorApprove.ID, rejected.ApprovedBy.ID)
	assert.NotNil(t, rejected.ApprovalDate)

	it := itemState(t, runner, "it-1")
	assert.Equal(t, 5, it.QuantityOnHand)
	assert.Equal(t, 0, it.QuantityReserved, "nada se había reservado, nada cambia")
}

func TestReject_EsTerminal(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)
	ctx := context.Background()

	_, err := uc.Reject(ctx, actorApprove, v.ID)
	require.NoError(t, err)

	_, err = uc.Approve(ctx, actorApprove, v.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"rejected es terminal: no se puede aprobar después")
}

// ──────────────────────────────────────────────────────────────────────────────
// Issue / Complete — máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestIssue_RequiereEstadoApproved(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)

	_, err := uc.Issue(context.Background(), actorStore, v.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"no se salta pending -> issued")
}

func TestIssue_RolSinPermiso(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)
	ctx := context.Background()

	_, err := uc.Approve(ctx, actorApprove, v.ID)
	require.NoError(t, err)

	_, err = uc.Issue(ctx, actorApprove, v.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied,
		"approveAuthority no emite materiales")
}

func TestIssue_ReservaInvalidada_StateErrorYValeSigueApproved(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)
	ctx := context.Background()

	_, err := uc.Approve(ctx, actorApprove, v.ID)
	require.NoError(t, err)

	// El artículo se retira entre la aprobación y la emisión.
	it := itemState(t, runner, "it-1")
	it.Status = entity.ItemStatusRetired
	require.NoError(t, runner.items.Update(it))

	_, err = uc.Issue(ctx, actorStore, v.ID)
	assert.ErrorIs(t, err, domain.ErrReservationState)

	stored, _ := runner.vouchers.GetByID(v.ID)
	assert.Equal(t, entity.VoucherStatusApproved, stored.Status,
		"el vale permanece approved; la recuperación la decide el caller")
}

func TestComplete_RequiereEstadoIssued(t *testing.T) {
	uc, runner := newEngine()
	v := createPending(t, uc, runner, 2)
	ctx := context.Background()

	_, err := uc.Approve(ctx, actorApprove, v.ID)
	require.NoError(t, err)

	_, err = uc.Complete(ctx, actorStore, v.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"no se salta approved -> completed")
}

// Round trip completo del espécimen de retiro: crear -> aprobar -> emitir ->
// completar con 1 línea de cantidad 2 sobre un artículo con 5 en mano.
func TestRoundTrip_Retiro(t *testing.T) {
	uc, runner := newEngine()
	ctx := context.Background()
	v := createPending(t, uc, runner, 2)

	_, err := uc.Approve(ctx, actorApprove, v.ID)
	require.NoError(t, err)
	it := itemState(t, runner, "it-1")
	assert.Equal(t, 5, it.QuantityOnHand)
	assert.Equal(t, 2, it.QuantityReserved)

	issued, err := uc.Issue(ctx, actorStore, v.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VoucherStatusIssued, issued.Status)
	require.NotNil(t, issued.IssueDate)
	it = itemState(t, runner, "it-1")
	assert.Equal(t, 3, it.QuantityOnHand)
	assert.Equal(t, 0, it.QuantityReserved)

	returnedAt := time.Now()
	completed, err := uc.Complete(ctx, actorStore, v.ID, &returnedAt)
	require.NoError(t, err)
	assert.Equal(t, entity.VoucherStatusCompleted, completed.Status)
	require.NotNil(t, completed.ActualReturnDate)
	it = itemState(t, runner, "it-1")
	assert.Equal(t, 5, it.QuantityOnHand, "el material volvió: stock restaurado")
	assert.Equal(t, 0, it.QuantityReserved)

	// completed es terminal.
	_, err = uc.Issue(ctx, actorStore, v.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Flujo de un vale de devolución: sin reserva al aprobar, sin commit al emitir,
// entrada de stock al completar.
func TestRoundTrip_Devolucion(t *testing.T) {
	uc, runner := newEngine()
	ctx := context.Background()
	seedItem(t, runner, "it-9", 3)

	v, err := uc.Create(ctx, actorProject, voucher.CreateInput{
		Type:        entity.VoucherTypeReturn,
		Lines:       []voucher.LineInput{{ItemID: "it-9", Quantity: 4}},
		ProjectName: "Engine Test Team",
	})
	require.NoError(t, err, "las devoluciones no validan stock: es material que regresa")

	_, err = uc.Approve(ctx, actorApprove, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, itemState(t, runner, "it-9").QuantityReserved,
		"aprobar una devolución no reserva nada")

	_, err = uc.Issue(ctx, actorStore, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, itemState(t, runner, "it-9").QuantityOnHand,
		"emitir una devolución no mueve stock")

	completed, err := uc.Complete(ctx, actorStore, v.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.VoucherStatusCompleted, completed.Status)
	assert.Equal(t, 7, itemState(t, runner, "it-9").QuantityOnHand,
		"el almacén aceptó la devolución: stock incrementado")
}
