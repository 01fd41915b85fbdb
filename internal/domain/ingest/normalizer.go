// Package ingest convierte ventas de caja en registros de venta por contrato.
package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/authors-report/internal/domain/entity"
	"github.com/jhoicas/authors-report/internal/domain/report"
)

// Catalog datos de inventario necesarios para resolver grupo y stock de una posición.
type Catalog struct {
	Rests    []entity.ProductRest
	Groups   []entity.ProductGroup
	Products []entity.CatalogProduct
}

// Stats contadores de una normalización.
type Stats struct {
	Sales    int // ventas recibidas
	Accepted int // ventas cerradas y cobradas con fecha
	Skipped  int // ventas aceptables pero sin opened_at
	Records  int // registros tras fusionar por clave natural
}

type resolver struct {
	rests        map[string]decimal.Decimal
	groupLabels  map[string]string
	productGroup map[string]string
}

func newResolver(c Catalog) resolver {
	r := resolver{
		rests:        make(map[string]decimal.Decimal, len(c.Rests)),
		groupLabels:  make(map[string]string, len(c.Groups)),
		productGroup: make(map[string]string, len(c.Products)),
	}
	for _, rest := range c.Rests {
		r.rests[rest.Name] = rest.Rest
	}
	for _, g := range c.Groups {
		r.groupLabels[g.ID] = g.Label()
	}
	for _, p := range c.Products {
		r.productGroup[p.Name] = p.GroupID
	}
	return r
}

func (r resolver) group(name string) string {
	groupID := r.productGroup[name]
	if groupID == "" {
		return entity.UnknownGroup
	}
	if label, ok := r.groupLabels[groupID]; ok && label != "" {
		return label
	}
	return groupID
}

func (r resolver) rest(name string) decimal.NullDecimal {
	rest, ok := r.rests[name]
	if !ok {
		rest = decimal.Zero
	}
	return decimal.NullDecimal{Decimal: rest, Valid: true}
}

// Accepted indica si una venta está cerrada, cobrada, enviada y tiene posiciones.
func Accepted(s entity.PosSale) bool {
	return s.State == entity.SaleStateCompleted &&
		s.PaymentStatus == entity.PaymentStatusPaid &&
		s.ShippingStatus == entity.ShippingStatusShipped &&
		s.TotalSum.IsPositive() &&
		len(s.Positions) > 0
}

// Normalize aplana las posiciones de las ventas aceptadas en SaleRecord con comisión
// provisional. Los registros con la misma clave natural se fusionan sumando cantidad
// e importe, para que la ingesta sea idempotente.
func Normalize(sales []entity.PosSale, catalog Catalog, calc *report.Calculator, now time.Time) ([]entity.SaleRecord, Stats) {
	res := newResolver(catalog)
	stats := Stats{Sales: len(sales)}

	one := decimal.NewFromInt(1)
	index := make(map[entity.SaleRecordKey]int)
	var out []entity.SaleRecord

	for _, s := range sales {
		if !Accepted(s) {
			continue
		}
		if s.OpenedAt == nil {
			stats.Skipped++
			continue
		}
		stats.Accepted++

		for _, pos := range s.Positions {
			name := strings.TrimSpace(pos.Name)
			qty := pos.Quantity
			if qty.IsZero() {
				qty = one
			}
			rec := entity.SaleRecord{
				Name:      name,
				UnitPrice: pos.SalePrice,
				Quantity:  qty,
				LineTotal: pos.SalePrice.Mul(qty),
				RestStock: res.rest(name),
				GroupID:   res.group(name),
				SaleDate:  s.OpenedAt.UTC(),
				Source:    entity.SourceLifePOS,
				UpdatedAt: now,
			}

			key := rec.Key()
			if i, ok := index[key]; ok {
				out[i].Quantity = out[i].Quantity.Add(rec.Quantity)
				out[i].LineTotal = out[i].LineTotal.Add(rec.LineTotal)
				continue
			}
			index[key] = len(out)
			out = append(out, rec)
		}
	}

	for i := range out {
		out[i].Commission, out[i].AuthorAmount = calc.Split(out[i].LineTotal)
	}
	stats.Records = len(out)
	return out, stats
}
