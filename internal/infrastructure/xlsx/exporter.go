// Package xlsx exporta el informe de autores a un libro Excel con excelize.
//
// Hojas:
//
//	Resumen   una fila por contrato con totales, alquiler y fecha de liquidación
//	Líneas    una fila por (contrato, producto, precio)
package xlsx

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/domain/report"
)

const (
	SummarySheet = "Resumen"
	LinesSheet   = "Líneas"
)

var (
	summaryHeaders = []string{"Contrato", "Ventas", "Comisión", "Autor", "Alquiler", "Liquidación"}
	linesHeaders   = []string{"Contrato", "Producto", "Precio", "Cantidad", "Total", "Comisión", "Autor", "Stock"}
)

var _ ports.SpreadsheetExporter = (*Exporter)(nil)

// Exporter implementa ports.SpreadsheetExporter.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export genera el libro y devuelve sus bytes.
func (e *Exporter) Export(meta ports.ReportMeta, groups []*report.GroupAggregate) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(LinesSheet); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   meta.Title,
		Created: meta.Created,
		Creator: "authors-report",
	}); err != nil {
		return nil, fmt.Errorf("xlsx: propiedades: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	w := &sheetWriter{f: f}

	// Resumen: título y periodo, fila en blanco, cabecera desde la fila 4.
	w.sheet = SummarySheet
	w.set(1, 1, meta.Title)
	w.set(1, 2, meta.Period)
	w.header(4, summaryHeaders, bold)
	for i, g := range groups {
		r := 5 + i
		w.set(1, r, g.GroupID)
		w.set(2, r, money(g.TotalSales))
		w.set(3, r, money(g.Commission))
		w.set(4, r, money(g.AuthorAmount))
		w.set(5, r, nullable(g.Rent))
		w.set(6, r, g.SettlementDate)
	}

	w.sheet = LinesSheet
	w.header(1, linesHeaders, bold)
	r := 2
	for _, g := range groups {
		for _, l := range g.Lines {
			w.set(1, r, g.GroupID)
			w.set(2, r, l.Name)
			w.set(3, r, money(l.UnitPrice))
			w.set(4, r, l.Quantity.InexactFloat64())
			w.set(5, r, money(l.LineTotal))
			w.set(6, r, money(l.Commission))
			w.set(7, r, money(l.AuthorAmount))
			w.set(8, r, nullable(l.RestStock))
			r++
		}
	}
	if w.err != nil {
		return nil, fmt.Errorf("xlsx: escribir celdas: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter guarda el primer error para no comprobar cada celda.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, v interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, v)
}

func (w *sheetWriter) header(row int, titles []string, style int) {
	for i, t := range titles {
		w.set(i+1, row, t)
	}
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(titles), row)
	w.err = w.f.SetCellStyle(w.sheet, first, last, style)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// nullable deja la celda vacía cuando el valor no se conoce.
func nullable(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return ""
	}
	return d.Decimal.InexactFloat64()
}
