package ports

import (
	"context"

	"github.com/jhoicas/authors-report/internal/domain/entity"
)

// SalesSource puerto de salida hacia la caja (ventas paginadas).
// Los importes se devuelven ya en unidades mayores (rublos).
type SalesSource interface {
	ListSales(ctx context.Context) ([]entity.PosSale, error)
}

// InventorySource puerto de salida hacia el inventario: stock, grupos y productos.
type InventorySource interface {
	ProductRests(ctx context.Context) ([]entity.ProductRest, error)
	ProductGroups(ctx context.Context) ([]entity.ProductGroup, error)
	Products(ctx context.Context) ([]entity.CatalogProduct, error)
}

// Ledger puerto de salida hacia la hoja de cálculo de contratos.
// Ambas tablas se leen completas en cada llamada; no hay caché.
type Ledger interface {
	AuthorRows(ctx context.Context) ([]entity.AuthorRow, error)
	LossRows(ctx context.Context) ([]entity.LostSaleAdjustment, error)
}
