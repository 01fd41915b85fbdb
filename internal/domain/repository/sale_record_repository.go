package repository

import (
	"context"
	"time"

	"github.com/jhoicas/authors-report/internal/domain/entity"
)

// SaleRecordFilter filtros de lectura de ventas. Campos vacíos no filtran.
type SaleRecordFilter struct {
	From    *time.Time // inclusive
	To      *time.Time // inclusive
	GroupID string
}

// SaleRecordRepository puerto de persistencia de las ventas normalizadas.
// La ingesta es el único escritor; los informes solo leen.
type SaleRecordRepository interface {
	// UpsertMany inserta o actualiza por clave natural en una sola transacción.
	UpsertMany(ctx context.Context, records []entity.SaleRecord) (int, error)
	List(ctx context.Context, filter SaleRecordFilter) ([]entity.SaleRecord, error)
}
