package report

import "github.com/jhoicas/authors-report/internal/domain/entity"

// Aggregate agrupa los registros por contrato en una sola pasada y fusiona las líneas
// con igual (nombre, precio). No modifica los registros de entrada.
func Aggregate(records []entity.SaleRecord) *GroupSet {
	groups := NewGroupSet()
	for _, r := range records {
		g := groups.ensure(groupKey(r.GroupID))
		g.add(r.Name, r.UnitPrice, r.Quantity, r.LineTotal, r.RestStock)
	}
	return groups
}
