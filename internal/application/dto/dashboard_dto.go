package dto

// DashboardResponse métricas agregadas para la pantalla principal.
type DashboardResponse struct {
	ItemsByStatus    map[string]int     `json:"items_by_status"`
	VouchersByStatus map[string]int     `json:"vouchers_by_status"`
	PendingApprovals int                `json:"pending_approvals"`
	LowStockItems    []LowStockItemDTO  `json:"low_stock_items"`
}

// LowStockItemDTO artículo con disponible (no reservado) bajo el umbral.
type LowStockItemDTO struct {
	ItemID            string `json:"item_id"`
	Name              string `json:"name"`
	SerialNumber      string `json:"serial_number"`
	QuantityAvailable int    `json:"quantity_available"`
}
