package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aerostock/aerostock-api/internal/domain"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, category, serial_number, status, quantity_on_hand, quantity_reserved,
		location, manufacturer, description, price, assigned_to, last_calibration, next_calibration,
		purchase_date, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un artículo nuevo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Category, item.SerialNumber, item.Status,
		item.QuantityOnHand, item.QuantityReserved, item.Location, item.Manufacturer,
		item.Description, item.Price, item.AssignedTo, item.LastCalibration, item.NextCalibration,
		item.PurchaseDate, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("serial duplicado: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID (nil si no existe).
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.get(`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el artículo bloqueando la fila (SELECT FOR UPDATE).
// Dentro de una tx, serializa todas las mutaciones de cantidades de ese artículo.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.get(`SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// GetBySerialNumber obtiene un artículo por número de serie.
func (r *ItemRepo) GetBySerialNumber(serial string) (*entity.Item, error) {
	return r.get(`SELECT `+itemColumns+` FROM items WHERE serial_number = $1`, serial)
}

func (r *ItemRepo) get(query string, arg any) (*entity.Item, error) {
	var i entity.Item
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&i.ID, &i.Name, &i.Category, &i.SerialNumber, &i.Status,
		&i.QuantityOnHand, &i.QuantityReserved, &i.Location, &i.Manufacturer,
		&i.Description, &i.Price, &i.AssignedTo, &i.LastCalibration, &i.NextCalibration,
		&i.PurchaseDate, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &i, nil
}

// Update actualiza un artículo (cantidades incluidas: el ledger escribe por aquí).
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, category = $3, serial_number = $4, status = $5,
			quantity_on_hand = $6, quantity_reserved = $7, location = $8, manufacturer = $9,
			description = $10, price = $11, assigned_to = $12, last_calibration = $13,
			next_calibration = $14, purchase_date = $15, updated_at = $16
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Category, item.SerialNumber, item.Status,
		item.QuantityOnHand, item.QuantityReserved, item.Location, item.Manufacturer,
		item.Description, item.Price, item.AssignedTo, item.LastCalibration, item.NextCalibration,
		item.PurchaseDate, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List lista artículos con paginación.
func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListByStatus lista artículos filtrados por estado.
func (r *ItemRepo) ListByStatus(status string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE status = $1 ORDER BY name LIMIT $2 OFFSET $3`
	return r.list(query, status, limit, offset)
}

func (r *ItemRepo) list(query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var i entity.Item
		if err := rows.Scan(
			&i.ID, &i.Name, &i.Category, &i.SerialNumber, &i.Status,
			&i.QuantityOnHand, &i.QuantityReserved, &i.Location, &i.Manufacturer,
			&i.Description, &i.Price, &i.AssignedTo, &i.LastCalibration, &i.NextCalibration,
			&i.PurchaseDate, &i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// Delete elimina un artículo por ID.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
