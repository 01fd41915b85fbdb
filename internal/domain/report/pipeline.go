package report

import (
	"time"

	"github.com/jhoicas/authors-report/internal/domain/entity"
)

// Input datos ya obtenidos de las fuentes para construir un informe.
type Input struct {
	Records    []entity.SaleRecord
	AuthorRows []entity.AuthorRow
	LossRows   []entity.LostSaleAdjustment
	Period     Period
	ContractID string // vacío = todos los contratos
	Now        time.Time
}

// Build ejecuta agregar -> calcular -> conciliar -> calcular -> ensamblar.
func (c *Calculator) Build(in Input) []*GroupAggregate {
	groups := Aggregate(in.Records)
	c.Recalculate(groups.Groups())

	Reconcile(groups, FilterLosses(in.LossRows, in.Period, in.Now))
	c.Recalculate(groups.Groups())

	return Assemble(groups, ContractIndex(in.AuthorRows), in.ContractID)
}
