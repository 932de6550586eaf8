package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

var _ repository.MaintenanceRepository = (*MaintenanceRepo)(nil)

const maintenanceColumns = `id, item_id, type, status, start_date, end_date, technician, notes, created_at, updated_at`

// MaintenanceRepo implementación de MaintenanceRepository sobre PostgreSQL.
type MaintenanceRepo struct {
	pool *pgxpool.Pool
}

// NewMaintenanceRepository construye el adaptador de eventos de mantenimiento.
func NewMaintenanceRepository(pool *pgxpool.Pool) *MaintenanceRepo {
	return &MaintenanceRepo{pool: pool}
}

// Create persiste un evento nuevo.
func (r *MaintenanceRepo) Create(event *entity.MaintenanceEvent) error {
	query := `
		INSERT INTO maintenance_events (` + maintenanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(context.Background(), query,
		event.ID, event.ItemID, event.Type, event.Status, event.StartDate, event.EndDate,
		event.Technician, event.Notes, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert maintenance event: %w", err)
	}
	return nil
}

// GetByID obtiene un evento por ID (nil si no existe).
func (r *MaintenanceRepo) GetByID(id string) (*entity.MaintenanceEvent, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_events WHERE id = $1`
	var e entity.MaintenanceEvent
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.ItemID, &e.Type, &e.Status, &e.StartDate, &e.EndDate,
		&e.Technician, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get maintenance event: %w", err)
	}
	return &e, nil
}

// Update actualiza un evento.
func (r *MaintenanceRepo) Update(event *entity.MaintenanceEvent) error {
	query := `
		UPDATE maintenance_events SET type = $2, status = $3, start_date = $4, end_date = $5,
			technician = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		event.ID, event.Type, event.Status, event.StartDate, event.EndDate,
		event.Technician, event.Notes, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update maintenance event: %w", err)
	}
	return nil
}

// ListByRange lista eventos cuyo rango se solapa con [from, to] (vista calendario).
func (r *MaintenanceRepo) ListByRange(from, to time.Time) ([]*entity.MaintenanceEvent, error) {
	query := `
		SELECT ` + maintenanceColumns + ` FROM maintenance_events
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY start_date`
	return r.list(query, from, to)
}

// ListByItem lista el historial de mantenimiento de un artículo.
func (r *MaintenanceRepo) ListByItem(itemID string) ([]*entity.MaintenanceEvent, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_events WHERE item_id = $1 ORDER BY start_date DESC`
	return r.list(query, itemID)
}

func (r *MaintenanceRepo) list(query string, args ...any) ([]*entity.MaintenanceEvent, error) {
	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list maintenance events: %w", err)
	}
	defer rows.Close()
	var list []*entity.MaintenanceEvent
	for rows.Next() {
		var e entity.MaintenanceEvent
		if err := rows.Scan(
			&e.ID, &e.ItemID, &e.Type, &e.Status, &e.StartDate, &e.EndDate,
			&e.Technician, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan maintenance event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// Delete elimina un evento por ID.
func (r *MaintenanceRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM maintenance_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete maintenance event: %w", err)
	}
	return nil
}
