// Package pdf genera el informe de un contrato en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + periodo        │  Fecha de emisión         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTRATO: id + alquiler + fecha de liquidación              │
//	│  TABLA: Producto | Precio | Cant. | Total | Comisión | Autor │
//	│  TOTALES: Ventas / Comisión / A PAGAR AL AUTOR               │
//	└─────────────────────────────────────────────────────────────┘
//
// Un contrato por bloque; el informe de un autor tiene como mucho uno.
package pdf

import (
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/domain/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ports.PDFExporter = (*MarotoReportExporter)(nil)

// ── Exporter ──────────────────────────────────────────────────────────────────

// MarotoReportExporter implementa ports.PDFExporter usando Maroto v2.
type MarotoReportExporter struct{}

// NewMarotoReportExporter construye el exportador.
func NewMarotoReportExporter() *MarotoReportExporter { return &MarotoReportExporter{} }

// Export genera el PDF y devuelve sus bytes.
func (e *MarotoReportExporter) Export(meta ports.ReportMeta, groups []*report.GroupAggregate) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(meta.Title, true).
		WithAuthor("authors-report", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(meta))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(groups) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin ventas en el periodo.", props.Text{Size: 10, Top: 3, Color: colorGray}),
		)))
	}

	for _, g := range groups {
		m.AddRows(contractRow(g))
		m.AddRows(tableHeaderRow())
		m.AddRows(tableLineRows(g.Lines)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(totalsRow(g))
		m.AddRows(row.New(6))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(meta ports.ReportMeta) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(meta.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Periodo: "+nonEmpty(meta.Period, "todo"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Emitido: "+meta.Created, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func contractRow(g *report.GroupAggregate) core.Row {
	rent := "-"
	if g.Rent.Valid {
		rent = formatMoney(g.Rent.Decimal)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CONTRATO "+g.GroupID, props.Text{
				Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
			}),
			text.New(fmt.Sprintf("Alquiler: %s   |   Liquidación: %s",
				rent, nonEmpty(g.SettlementDate, "-"),
			), props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Precio", 2, align.Right),
		h("Cant.", 1, align.Center),
		h("Total", 2, align.Right),
		h("Comisión", 1, align.Right),
		h("Autor", 2, align.Right),
	)
}

func tableLineRows(lines []*report.LineAggregate) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			cell(l.Name, 4, align.Left),
			cell(formatMoney(l.UnitPrice), 2, align.Right),
			cell(l.Quantity.String(), 1, align.Center),
			cell(formatMoney(l.LineTotal), 2, align.Right),
			cell(formatMoney(l.Commission), 1, align.Right),
			cell(formatMoney(l.AuthorAmount), 2, align.Right),
		))
	}
	return result
}

func totalsRow(g *report.GroupAggregate) core.Row {
	label := func(s string, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		return text.New(s, p)
	}
	return row.New(18).Add(
		col.New(5),
		col.New(4).Add(
			label("Ventas:", false),
			label("Comisión:", false),
			label("A PAGAR AL AUTOR:", true),
		),
		col.New(3).Add(
			label(formatMoney(g.TotalSales), false),
			label(formatMoney(g.Commission), false),
			label(formatMoney(g.AuthorAmount), true),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney importe con 2 decimales y espacios de miles.
// Ej: 1234567.5 → "1 234 567.50", -50 → "-50.00"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "." + frac
}
