package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

const reservationColumns = `id, item_id, voucher_id, quantity, status, created_at, updated_at`

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL
// (usable con pool o tx).
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador de reservas. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// Create persiste una reserva nueva.
func (r *ReservationRepo) Create(res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.ItemID, res.VoucherID, res.Quantity, res.Status, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por ID (nil si no existe).
func (r *ReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	return r.get(`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
}

// GetForUpdate obtiene la reserva bloqueando la fila (SELECT FOR UPDATE).
func (r *ReservationRepo) GetForUpdate(id string) (*entity.Reservation, error) {
	return r.get(`SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReservationRepo) get(query string, arg any) (*entity.Reservation, error) {
	var res entity.Reservation
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&res.ID, &res.ItemID, &res.VoucherID, &res.Quantity, &res.Status,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &res, nil
}

// Update actualiza el estado de una reserva.
func (r *ReservationRepo) Update(res *entity.Reservation) error {
	query := `
		UPDATE reservations SET quantity = $2, status = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, res.ID, res.Quantity, res.Status, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

// ListByVoucher lista las reservas asociadas a un vale.
func (r *ReservationRepo) ListByVoucher(voucherID string) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE voucher_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		if err := rows.Scan(
			&res.ID, &res.ItemID, &res.VoucherID, &res.Quantity, &res.Status,
			&res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}
