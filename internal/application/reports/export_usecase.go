package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/domain/report"
)

// ExportUseCase construye el informe y lo entrega como archivo.
type ExportUseCase struct {
	reports *UseCase
	xlsx    ports.SpreadsheetExporter
	pdf     ports.PDFExporter
}

// NewExportUseCase construye el caso de uso de exportación.
func NewExportUseCase(reports *UseCase, xlsx ports.SpreadsheetExporter, pdf ports.PDFExporter) *ExportUseCase {
	return &ExportUseCase{reports: reports, xlsx: xlsx, pdf: pdf}
}

// XLSX libro con todos los contratos del periodo (o uno, si req lo indica).
func (uc *ExportUseCase) XLSX(ctx context.Context, req Request) ([]byte, error) {
	groups, err := uc.reports.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := uc.xlsx.Export(uc.meta("Informe de autores", req), groups)
	if err != nil {
		return nil, fmt.Errorf("exportar xlsx: %w", err)
	}
	return out, nil
}

// PDF documento del informe de un contrato.
func (uc *ExportUseCase) PDF(ctx context.Context, req Request) ([]byte, error) {
	groups, err := uc.reports.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	title := "Informe del autor"
	if req.ContractID != "" {
		title += " " + req.ContractID
	}
	out, err := uc.pdf.Export(uc.meta(title, req), groups)
	if err != nil {
		return nil, fmt.Errorf("exportar pdf: %w", err)
	}
	return out, nil
}

func (uc *ExportUseCase) meta(title string, req Request) ports.ReportMeta {
	return ports.ReportMeta{
		Title:   title,
		Period:  PeriodLabel(req.Period),
		Created: uc.reports.now().Format("02.01.2006 15:04"),
	}
}

// PeriodLabel texto legible del periodo, ej: "01.10.2026 - 31.10.2026".
func PeriodLabel(p report.Period) string {
	const layout = "02.01.2006"
	switch {
	case p.From != nil && p.To != nil:
		return p.From.Format(layout) + " - " + p.To.Format(layout)
	case p.From != nil:
		return "desde " + p.From.Format(layout)
	case p.To != nil:
		return "hasta " + p.To.Format(layout)
	default:
		return "todo el periodo"
	}
}

// ParsePeriod interpreta dateFrom/dateTo (YYYY-MM-DD o RFC3339). Un dateTo en formato
// fecha incluye el día completo. Vacío no acota.
func ParsePeriod(dateFrom, dateTo string) (report.Period, error) {
	var p report.Period
	if dateFrom != "" {
		from, _, err := parseBound(dateFrom)
		if err != nil {
			return p, fmt.Errorf("dateFrom: %w", err)
		}
		p.From = &from
	}
	if dateTo != "" {
		to, dateOnly, err := parseBound(dateTo)
		if err != nil {
			return p, fmt.Errorf("dateTo: %w", err)
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		p.To = &to
	}
	if p.From != nil && p.To != nil && p.From.After(*p.To) {
		return p, fmt.Errorf("dateFrom posterior a dateTo")
	}
	return p, nil
}

func parseBound(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("formato de fecha inválido %q (YYYY-MM-DD o RFC3339)", s)
}
