package repository

import "context"

// LowStockRow artículo con disponible bajo el umbral (resultado de agregado).
type LowStockRow struct {
	ItemID            string
	Name              string
	SerialNumber      string
	QuantityAvailable int
}

// DashboardRepository consultas de solo lectura para las métricas del tablero.
// Son agregados SQL, no entidades, por eso vive aparte de los repos CRUD.
type DashboardRepository interface {
	CountItemsByStatus(ctx context.Context) (map[string]int, error)
	CountVouchersByStatus(ctx context.Context) (map[string]int, error)
	ListLowStock(ctx context.Context, threshold, limit int) ([]LowStockRow, error)
}
