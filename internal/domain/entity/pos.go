package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta de caja que se consideran cerrada y cobrada.
const (
	SaleStateCompleted    = "Completed"
	PaymentStatusPaid     = "Paid"
	ShippingStatusShipped = "Shipped"
)

// PosSale venta tal como la expone la fuente de ventas, con importes ya en unidades mayores.
type PosSale struct {
	State          string
	PaymentStatus  string
	ShippingStatus string
	TotalSum       decimal.Decimal
	OpenedAt       *time.Time
	Positions      []PosPosition
}

// PosPosition posición de una venta.
type PosPosition struct {
	Name      string
	SalePrice decimal.Decimal
	Quantity  decimal.Decimal
}

// ProductRest stock actual de un producto.
type ProductRest struct {
	Name string
	Rest decimal.Decimal
}

// ProductGroup grupo de productos; Number es el número de contrato cuando existe.
type ProductGroup struct {
	ID     string
	Number string
	Name   string
}

// Label devuelve el identificador visible del grupo: número, nombre o id.
func (g ProductGroup) Label() string {
	switch {
	case g.Number != "":
		return g.Number
	case g.Name != "":
		return g.Name
	default:
		return g.ID
	}
}

// CatalogProduct producto del catálogo con su grupo.
type CatalogProduct struct {
	Name    string
	GroupID string
}
