package dto

import "github.com/shopspring/decimal"

// ReportQuery parámetros de consulta de informes. Fechas en YYYY-MM-DD o RFC3339.
type ReportQuery struct {
	DateFrom   string `query:"dateFrom"`
	DateTo     string `query:"dateTo"`
	ContractID string `query:"contract_id"`
}

// ReportLineResponse línea (producto, precio) de un contrato.
// Los importes se serializan como strings decimales.
type ReportLineResponse struct {
	Name         string              `json:"name"`
	UnitPrice    decimal.Decimal     `json:"unit_price"`
	Quantity     decimal.Decimal     `json:"quantity"`
	LineTotal    decimal.Decimal     `json:"line_total"`
	Commission   decimal.Decimal     `json:"commission"`
	AuthorAmount decimal.Decimal     `json:"author_amount"`
	RestStock    decimal.NullDecimal `json:"rest_stock"`
}

// ReportGroupResponse informe de un contrato.
type ReportGroupResponse struct {
	GroupID        string               `json:"group_id"`
	TotalSales     decimal.Decimal      `json:"total_sales"`
	Commission     decimal.Decimal      `json:"commission"`
	AuthorAmount   decimal.Decimal      `json:"author_amount"`
	Rent           decimal.NullDecimal  `json:"rent"`
	SettlementDate *string              `json:"settlement_date"`
	Lines          []ReportLineResponse `json:"lines"`
}

// SyncResponse resultado de una sincronización.
type SyncResponse struct {
	FetchedSales  int `json:"fetched_sales"`
	AcceptedSales int `json:"accepted_sales"`
	SkippedSales  int `json:"skipped_sales"`
	Records       int `json:"records"`
}
