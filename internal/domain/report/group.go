// Package report contiene el núcleo del informe de autores: agregación de ventas por
// contrato, cálculo de comisiones, conciliación de pérdidas de caja y ensamblado final.
// Todas las estructuras son efímeras y pertenecen a una única construcción de informe.
package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/authors-report/internal/domain/entity"
)

// LineAggregate línea de un grupo. Identidad dentro del grupo: (Name, UnitPrice).
type LineAggregate struct {
	Name         string
	UnitPrice    decimal.Decimal
	Quantity     decimal.Decimal
	LineTotal    decimal.Decimal
	Commission   decimal.Decimal
	AuthorAmount decimal.Decimal
	RestStock    decimal.NullDecimal
}

// GroupAggregate acumulado de un contrato.
// TotalSales es siempre la suma de LineTotal de sus líneas.
type GroupAggregate struct {
	GroupID        string
	TotalSales     decimal.Decimal
	Commission     decimal.Decimal
	AuthorAmount   decimal.Decimal
	Lines          []*LineAggregate
	Rent           decimal.NullDecimal
	SettlementDate string // dd.mm, vacío si no se pudo extraer

	byName map[string][]*LineAggregate
}

func newGroup(id string) *GroupAggregate {
	return &GroupAggregate{
		GroupID:    id,
		TotalSales: decimal.Zero,
		byName:     make(map[string][]*LineAggregate),
	}
}

func (g *GroupAggregate) find(name string, price decimal.Decimal) *LineAggregate {
	for _, l := range g.byName[name] {
		if l.UnitPrice.Equal(price) {
			return l
		}
	}
	return nil
}

// add fusiona una línea por (name, price) y mantiene TotalSales sin redondear.
// Un rest inválido no pisa el stock ya conocido.
func (g *GroupAggregate) add(name string, price, qty, total decimal.Decimal, rest decimal.NullDecimal) {
	if l := g.find(name, price); l != nil {
		l.Quantity = l.Quantity.Add(qty)
		l.LineTotal = l.LineTotal.Add(total)
		if rest.Valid {
			l.RestStock = rest
		}
	} else {
		l = &LineAggregate{
			Name:         name,
			UnitPrice:    price,
			Quantity:     qty,
			LineTotal:    total,
			Commission:   decimal.Zero,
			AuthorAmount: decimal.Zero,
			RestStock:    rest,
		}
		g.Lines = append(g.Lines, l)
		g.byName[name] = append(g.byName[name], l)
	}
	g.TotalSales = g.TotalSales.Add(total)
}

// GroupSet conjunto de grupos que conserva el orden de inserción.
type GroupSet struct {
	order []*GroupAggregate
	byID  map[string]*GroupAggregate
}

// NewGroupSet crea un conjunto vacío.
func NewGroupSet() *GroupSet {
	return &GroupSet{byID: make(map[string]*GroupAggregate)}
}

// Get devuelve el grupo con ese id.
func (s *GroupSet) Get(id string) (*GroupAggregate, bool) {
	g, ok := s.byID[id]
	return g, ok
}

// Groups devuelve los grupos en orden de inserción.
func (s *GroupSet) Groups() []*GroupAggregate {
	out := make([]*GroupAggregate, len(s.order))
	copy(out, s.order)
	return out
}

// Len número de grupos.
func (s *GroupSet) Len() int { return len(s.order) }

func (s *GroupSet) ensure(id string) *GroupAggregate {
	if g, ok := s.byID[id]; ok {
		return g
	}
	g := newGroup(id)
	s.byID[id] = g
	s.order = append(s.order, g)
	return g
}

func groupKey(id string) string {
	if strings.TrimSpace(id) == "" {
		return entity.UnknownGroup
	}
	return id
}
