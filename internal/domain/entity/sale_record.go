package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceLifePOS identifica los registros ingeridos desde la caja.
const SourceLifePOS = "life-pos"

// UnknownGroup agrupa las ventas sin contrato resoluble.
const UnknownGroup = "unknown"

// SaleRecord línea de venta normalizada y persistida.
// La tupla (Source, Name, GroupID, UnitPrice, SaleDate) es única.
type SaleRecord struct {
	ID           int64
	Name         string
	UnitPrice    decimal.Decimal
	Quantity     decimal.Decimal
	LineTotal    decimal.Decimal
	Commission   decimal.Decimal // provisional, recalculada en cada informe
	AuthorAmount decimal.Decimal
	RestStock    decimal.NullDecimal
	GroupID      string
	SaleDate     time.Time
	Source       string
	UpdatedAt    time.Time
}

// SaleRecordKey clave natural de un SaleRecord.
type SaleRecordKey struct {
	Source    string
	Name      string
	GroupID   string
	UnitPrice string
	SaleDate  time.Time
}

// Key devuelve la clave natural del registro.
func (r SaleRecord) Key() SaleRecordKey {
	return SaleRecordKey{
		Source:    r.Source,
		Name:      r.Name,
		GroupID:   r.GroupID,
		UnitPrice: r.UnitPrice.String(),
		SaleDate:  r.SaleDate.UTC(),
	}
}
