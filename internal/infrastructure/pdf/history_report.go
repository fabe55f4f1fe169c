// Package pdf genera el reporte del histórico de movimientos en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + total de movimientos │ Fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | Tipo | Cant. | Usuario           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: totales de entradas y salidas                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
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

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

var _ inventory.HistoryReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorIn      = &props.Color{Red: 25, Green: 135, Blue: 84}
	colorOut     = &props.Color{Red: 190, Green: 40, Blue: 50}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.HistoryReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	title string
	loc   *time.Location
	now   func() time.Time
}

// NewMarotoPDFGenerator construye el generador. Las fechas se muestran en loc (UTC si es nil).
func NewMarotoPDFGenerator(title string, loc *time.Location) *MarotoPDFGenerator {
	if loc == nil {
		loc = time.UTC
	}
	if title == "" {
		title = "Histórico de movimientos"
	}
	return &MarotoPDFGenerator{title: title, loc: loc, now: time.Now}
}

// GenerateHistoryReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateHistoryReport(entries []*entity.HistoryEntry) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(len(entries)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(entries) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Ningún movimiento registrado.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	m.AddRows(g.tableRows(entries)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(entries))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y cantidad (izq), fecha de emisión (der).
func (g *MarotoPDFGenerator) headerRow(total int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d movimiento(s)", total), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Emitido: "+g.now().In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo azul.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Producto", 4, align.Left),
		h("Tipo", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Usuario", 3, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por movimiento, en el orden recibido (más reciente primero).
func (g *MarotoPDFGenerator) tableRows(entries []*entity.HistoryEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		typeColor := colorIn
		if e.Type == entity.MovementTypeOut {
			typeColor = colorOut
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(
				e.Timestamp.In(g.loc).Format("02/01/2006 15:04:05"),
				props.Text{Size: 8, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				e.ProductName,
				props.Text{Size: 8, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				string(e.Type),
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: typeColor, Style: fontstyle.Bold},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", e.Quantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				e.Actor,
				props.Text{Size: 8, Top: 1, Left: 1},
			)),
		))
	}
	return result
}

// totalsRow: unidades que entraron y salieron en el período listado.
func totalsRow(entries []*entity.HistoryEntry) core.Row {
	var in, out int
	for _, e := range entries {
		if e.Type == entity.MovementTypeOut {
			out += e.Quantity
		} else {
			in += e.Quantity
		}
	}
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(n int, c *props.Color, top float64) core.Component {
		return text.New(fmt.Sprintf("%d", n), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Color: c, Top: top,
		})
	}
	return row.New(12).Add(
		col.New(6),
		col.New(4).Add(label("Total entradas:", 1), label("Total salidas:", 6)),
		col.New(2).Add(value(in, colorIn, 1), value(out, colorOut, 6)),
	)
}
