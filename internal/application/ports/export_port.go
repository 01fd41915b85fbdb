package ports

import "github.com/jhoicas/authors-report/internal/domain/report"

// ReportMeta datos de cabecera de un informe exportado.
type ReportMeta struct {
	Title   string
	Period  string // texto ya formateado, p. ej. "01.10.2026 - 31.10.2026"
	Created string
}

// SpreadsheetExporter genera un libro XLSX con el informe.
type SpreadsheetExporter interface {
	Export(meta ReportMeta, groups []*report.GroupAggregate) ([]byte, error)
}

// PDFExporter genera un PDF con el informe de un contrato.
type PDFExporter interface {
	Export(meta ReportMeta, groups []*report.GroupAggregate) ([]byte, error)
}
