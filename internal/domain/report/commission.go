package report

import "github.com/shopspring/decimal"

// DefaultCommissionRate comisión de la tienda sobre cada venta (10 %).
var DefaultCommissionRate = decimal.RequireFromString("0.10")

// Calculator calcula comisión e importe del autor.
// Redondea a 2 decimales alejándose de cero (decimal.Round).
type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator crea un calculador con la tasa indicada.
func NewCalculator(rate decimal.Decimal) *Calculator {
	return &Calculator{rate: rate}
}

// Rate tasa de comisión configurada.
func (c *Calculator) Rate() decimal.Decimal { return c.rate }

// Split divide un total de línea en comisión e importe del autor.
func (c *Calculator) Split(total decimal.Decimal) (commission, author decimal.Decimal) {
	commission = total.Mul(c.rate).Round(2)
	author = total.Sub(commission).Round(2)
	return commission, author
}

// Recalculate recalcula línea a línea y luego los totales de cada grupo.
// Los totales de comisión y autor son la suma de líneas redondeada una vez.
// Es idempotente: puede llamarse de nuevo tras añadir líneas.
func (c *Calculator) Recalculate(groups []*GroupAggregate) {
	for _, g := range groups {
		commission := decimal.Zero
		author := decimal.Zero
		for _, l := range g.Lines {
			l.Commission, l.AuthorAmount = c.Split(l.LineTotal)
			commission = commission.Add(l.Commission)
			author = author.Add(l.AuthorAmount)
		}
		g.Commission = commission.Round(2)
		g.AuthorAmount = author.Round(2)
		g.TotalSales = g.TotalSales.Round(2)
	}
}
