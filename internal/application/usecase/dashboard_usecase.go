package usecase

import (
	"context"

	"github.com/aerostock/aerostock-api/internal/application/dto"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// lowStockThreshold unidades disponibles por debajo de las cuales un artículo
// aparece en la alerta de stock bajo del tablero.
const lowStockThreshold = 3

// DashboardUseCase métricas agregadas para la pantalla principal.
// Disponible para cualquier usuario autenticado: son conteos, no datos de vales.
type DashboardUseCase struct {
	dashRepo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(dashRepo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{dashRepo: dashRepo}
}

// Summary arma el resumen del tablero.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	itemCounts, err := uc.dashRepo.CountItemsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	voucherCounts, err := uc.dashRepo.CountVouchersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.dashRepo.ListLowStock(ctx, lowStockThreshold, 10)
	if err != nil {
		return nil, err
	}
	low := make([]dto.LowStockItemDTO, 0, len(lowStock))
	for _, r := range lowStock {
		low = append(low, dto.LowStockItemDTO{
			ItemID:            r.ItemID,
			Name:              r.Name,
			SerialNumber:      r.SerialNumber,
			QuantityAvailable: r.QuantityAvailable,
		})
	}
	return &dto.DashboardResponse{
		ItemsByStatus:    itemCounts,
		VouchersByStatus: voucherCounts,
		PendingApprovals: voucherCounts[entity.VoucherStatusPending],
		LowStockItems:    low,
	}, nil
}
