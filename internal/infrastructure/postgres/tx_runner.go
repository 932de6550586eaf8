package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerostock/aerostock-api/internal/application/ledger"
	"github.com/aerostock/aerostock-api/internal/application/voucher"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

var (
	_ ledger.TxRunner  = (*LedgerTxRunner)(nil)
	_ voucher.TxRunner = (*VoucherTxRunner)(nil)
)

// LedgerTxRunner ejecuta operaciones del ledger dentro de una transacción
// PostgreSQL, con repos atados a la tx.
type LedgerTxRunner struct {
	pool *pgxpool.Pool
}

// NewLedgerTxRunner construye el runner con el pool.
func NewLedgerTxRunner(pool *pgxpool.Pool) *LedgerTxRunner {
	return &LedgerTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *LedgerTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	reservationRepo repository.ReservationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewItemRepository(tx), NewReservationRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// VoucherTxRunner ejecuta transiciones del motor de vales dentro de una
// transacción PostgreSQL. Cada transición corre completa en una sola tx:
// el SELECT FOR UPDATE del vale serializa transiciones concurrentes y el
// rollback descarta cualquier efecto parcial.
type VoucherTxRunner struct {
	pool *pgxpool.Pool
}

// NewVoucherTxRunner construye el runner con el pool.
func NewVoucherTxRunner(pool *pgxpool.Pool) *VoucherTxRunner {
	return &VoucherTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *VoucherTxRunner) Run(ctx context.Context, fn func(
	voucherRepo repository.VoucherRepository,
	itemRepo repository.ItemRepository,
	reservationRepo repository.ReservationRepository,
	sequenceRepo repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewVoucherRepository(tx),
		NewItemRepository(tx),
		NewReservationRepository(tx),
		NewSequenceRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
