// Package pdf implementa la representación imprimible de un vale de material.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: AeroStock MV  │  N° Vale + Tipo + Estado           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SOLICITUD: Proyecto / Fecha / Devolución esperada          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Artículo | Serie | Categoría                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NOTAS                                                      │
//	│  FIRMAS: Solicitado / Aprobado / Entregado                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appvoucher "github.com/aerostock/aerostock-api/internal/application/voucher"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appvoucher.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa voucher.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateVoucherPDF genera el PDF del vale y devuelve sus bytes.
// items mapea ItemID -> Item para resolver nombre, serie y categoría por línea.
func (g *MarotoPDFGenerator) GenerateVoucherPDF(
	_ context.Context,
	voucher *entity.Voucher,
	items map[string]*entity.Item,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Vale de Material "+voucher.RequestNumber, true).
		WithAuthor("AeroStock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(voucher))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(requestInfoRow(voucher))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(voucher, items) {
		m.AddRows(r)
	}

	if voucher.Notes != "" {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(notesRow(voucher.Notes))
	}

	m.AddRows(line.NewRow(6))
	m.AddRows(signaturesRow(voucher))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la app (izq) y N° de vale + tipo + estado (der).
func headerRow(v *entity.Voucher) core.Row {
	tipo := "VALE DE RETIRO DE MATERIAL"
	if v.Type == entity.VoucherTypeReturn {
		tipo = "VALE DE DEVOLUCIÓN DE MATERIAL"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("AeroStock", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Almacén de instrumentación aeroespacial", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(tipo, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(v.RequestNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Estado: "+v.Status, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// requestInfoRow: proyecto, fecha de solicitud y fechas de devolución.
func requestInfoRow(v *entity.Voucher) core.Row {
	devolucion := "—"
	if v.ExpectedReturnDate != nil {
		devolucion = v.ExpectedReturnDate.Format("02/01/2006")
	}
	if v.ActualReturnDate != nil {
		devolucion += "  (real: " + v.ActualReturnDate.Format("02/01/2006") + ")"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DATOS DE LA SOLICITUD", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(v.ProjectName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Solicitado: %s   |   Devolución esperada: %s",
				v.RequestDate.Format("02/01/2006"), devolucion,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Artículo", 5, align.Left),
		h("N° Serie", 3, align.Left),
		h("Categoría", 3, align.Left),
	)
}

// tableLineRows: una fila por línea del vale. Artículos eliminados después de
// emitirse el vale se imprimen solo con su ID.
func tableLineRows(v *entity.Voucher, items map[string]*entity.Item) []core.Row {
	result := make([]core.Row, 0, len(v.Lines))
	for _, l := range v.Lines {
		name, serial, category := l.ItemID, "—", "—"
		if item := items[l.ItemID]; item != nil {
			name, serial, category = item.Name, item.SerialNumber, item.Category
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.Itoa(l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				serial,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				category,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
		))
	}
	return result
}

// notesRow: observaciones del vale.
func notesRow(notes string) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("OBSERVACIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

// signaturesRow: bloques de firma con los actores registrados en el vale.
func signaturesRow(v *entity.Voucher) core.Row {
	block := func(title string, ref *entity.ActorRef, date *time.Time) core.Col {
		name, when := "_______________________", ""
		if ref != nil {
			name = ref.Name
		}
		if date != nil {
			when = date.Format("02/01/2006")
		}
		return col.New(4).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center,
				Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{Size: 9, Align: align.Center, Top: 8}),
			text.New(when, props.Text{Size: 7, Align: align.Center, Top: 14, Color: colorGray}),
		)
	}
	return row.New(20).Add(
		block("SOLICITADO POR", &v.RequestedBy, &v.RequestDate),
		block("APROBADO POR", v.ApprovedBy, v.ApprovalDate),
		block("ENTREGADO POR", v.IssuedBy, v.IssueDate),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
