// Package ingestion copia periódicamente las ventas de la caja a la base de datos.
package ingestion

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/domain/entity"
	"github.com/jhoicas/authors-report/internal/domain/ingest"
	"github.com/jhoicas/authors-report/internal/domain/report"
	"github.com/jhoicas/authors-report/internal/domain/repository"
	"github.com/jhoicas/authors-report/pkg/logger"
)

// SyncUseCase una pasada de ingesta: leer caja e inventario, normalizar y guardar.
type SyncUseCase struct {
	sales     ports.SalesSource
	inventory ports.InventorySource
	records   repository.SaleRecordRepository
	calc      *report.Calculator
	log       *logger.Logger
	now       func() time.Time
}

// NewSyncUseCase construye el caso de uso.
func NewSyncUseCase(
	sales ports.SalesSource,
	inventory ports.InventorySource,
	records repository.SaleRecordRepository,
	calc *report.Calculator,
	log *logger.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		sales:     sales,
		inventory: inventory,
		records:   records,
		calc:      calc,
		log:       log,
		now:       time.Now,
	}
}

// Run ejecuta una sincronización completa. Si cualquier lectura falla no se escribe nada.
func (uc *SyncUseCase) Run(ctx context.Context) (ingest.Stats, error) {
	var (
		sales   []entity.PosSale
		catalog ingest.Catalog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = uc.sales.ListSales(gctx)
		if err != nil {
			return fmt.Errorf("ventas: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		catalog.Rests, err = uc.inventory.ProductRests(gctx)
		if err != nil {
			return fmt.Errorf("stock: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		catalog.Groups, err = uc.inventory.ProductGroups(gctx)
		if err != nil {
			return fmt.Errorf("grupos: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		catalog.Products, err = uc.inventory.Products(gctx)
		if err != nil {
			return fmt.Errorf("productos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ingest.Stats{}, fmt.Errorf("sync: %w", err)
	}

	records, stats := ingest.Normalize(sales, catalog, uc.calc, uc.now())
	if len(records) == 0 {
		return stats, nil
	}
	if _, err := uc.records.UpsertMany(ctx, records); err != nil {
		return stats, fmt.Errorf("sync: guardar: %w", err)
	}
	return stats, nil
}
