package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para las métricas del tablero.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador del tablero.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// CountItemsByStatus cuenta artículos agrupados por estado.
func (r *DashboardRepo) CountItemsByStatus(ctx context.Context) (map[string]int, error) {
	return r.countByStatus(ctx, `SELECT status, COUNT(*) FROM items GROUP BY status`)
}

// CountVouchersByStatus cuenta vales agrupados por estado.
func (r *DashboardRepo) CountVouchersByStatus(ctx context.Context) (map[string]int, error) {
	return r.countByStatus(ctx, `SELECT status, COUNT(*) FROM vouchers GROUP BY status`)
}

func (r *DashboardRepo) countByStatus(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ListLowStock lista artículos no retirados con disponible bajo el umbral.
func (r *DashboardRepo) ListLowStock(ctx context.Context, threshold, limit int) ([]repository.LowStockRow, error) {
	query := `
		SELECT id, name, serial_number, quantity_on_hand - quantity_reserved AS available
		FROM items
		WHERE status <> 'retired' AND quantity_on_hand - quantity_reserved < $1
		ORDER BY available, name
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ItemID, &row.Name, &row.SerialNumber, &row.QuantityAvailable); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
