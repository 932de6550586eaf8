package voucher

import (
	"context"

	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// PDFUseCase arma la foto de solo lectura de un vale (vale + artículos) y
// delega el render al generador. La visibilidad del vale se resuelve con las
// mismas reglas de QueryUseCase: el export no abre una puerta lateral.
type PDFUseCase struct {
	queries  *QueryUseCase
	itemRepo repository.ItemRepository
	pdfGen   PDFGenerator
}

// NewPDFUseCase construye el caso de uso de export.
func NewPDFUseCase(queries *QueryUseCase, itemRepo repository.ItemRepository, pdfGen PDFGenerator) *PDFUseCase {
	return &PDFUseCase{queries: queries, itemRepo: itemRepo, pdfGen: pdfGen}
}

// GeneratePDF genera el vale imprimible para el actor indicado.
func (uc *PDFUseCase) GeneratePDF(ctx context.Context, actor entity.Actor, voucherID string) ([]byte, error) {
	v, err := uc.queries.GetForActor(actor, voucherID)
	if err != nil {
		return nil, err
	}

	items := make(map[string]*entity.Item, len(v.Lines))
	for _, line := range v.Lines {
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		// Un artículo eliminado después de cerrar el vale no bloquea el export:
		// el generador imprime la línea solo con el ID.
		if item != nil {
			items[line.ItemID] = item
		}
	}
	return uc.pdfGen.GenerateVoucherPDF(ctx, v, items)
}
