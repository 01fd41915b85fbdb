// Package reports contiene los casos de uso del informe de autores: construcción
// del informe por periodo y contrato, y su exportación a XLSX y PDF.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/authors-report/internal/application/dto"
	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/domain/entity"
	"github.com/jhoicas/authors-report/internal/domain/report"
	"github.com/jhoicas/authors-report/internal/domain/repository"
)

// Request periodo y, opcionalmente, un único contrato.
type Request struct {
	Period     report.Period
	ContractID string
}

// UseCase construye informes a partir de las ventas guardadas y la hoja de contratos.
//
// Fuentes: SaleRecordRepository (lectura) y Ledger (autores + correcciones de caja).
// Si cualquiera de las tres lecturas falla el informe no se construye.
type UseCase struct {
	records repository.SaleRecordRepository
	ledger  ports.Ledger
	calc    *report.Calculator
	timeout time.Duration
	now     func() time.Time
}

// NewUseCase construye el caso de uso. timeout <= 0 no acota la construcción.
func NewUseCase(records repository.SaleRecordRepository, ledger ports.Ledger, calc *report.Calculator, timeout time.Duration) *UseCase {
	return &UseCase{records: records, ledger: ledger, calc: calc, timeout: timeout, now: time.Now}
}

// WithClock reemplaza el reloj (fechas DD.MM sin año se resuelven con él).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Build devuelve los grupos del informe.
//
// Tres lecturas en paralelo:
//  1. List(periodo, contrato)  → ventas guardadas
//  2. AuthorRows               → alquiler y fecha de liquidación
//  3. LossRows                 → correcciones de caja
func (uc *UseCase) Build(ctx context.Context, req Request) ([]*report.GroupAggregate, error) {
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	type recordsResult struct {
		records []entity.SaleRecord
		err     error
	}
	type authorsResult struct {
		rows []entity.AuthorRow
		err  error
	}
	type lossesResult struct {
		rows []entity.LostSaleAdjustment
		err  error
	}

	recordsCh := make(chan recordsResult, 1)
	authorsCh := make(chan authorsResult, 1)
	lossesCh := make(chan lossesResult, 1)

	filter := repository.SaleRecordFilter{
		From:    req.Period.From,
		To:      req.Period.To,
		GroupID: req.ContractID,
	}

	go func() {
		records, err := uc.records.List(ctx, filter)
		recordsCh <- recordsResult{records, err}
	}()
	go func() {
		rows, err := uc.ledger.AuthorRows(ctx)
		authorsCh <- authorsResult{rows, err}
	}()
	go func() {
		rows, err := uc.ledger.LossRows(ctx)
		lossesCh <- lossesResult{rows, err}
	}()

	records := <-recordsCh
	authors := <-authorsCh
	losses := <-lossesCh

	if records.err != nil {
		return nil, fmt.Errorf("informe: ventas: %w", records.err)
	}
	if authors.err != nil {
		return nil, fmt.Errorf("informe: hoja de autores: %w", authors.err)
	}
	if losses.err != nil {
		return nil, fmt.Errorf("informe: correcciones de caja: %w", losses.err)
	}

	return uc.calc.Build(report.Input{
		Records:    records.records,
		AuthorRows: authors.rows,
		LossRows:   losses.rows,
		Period:     req.Period,
		ContractID: req.ContractID,
		Now:        uc.now(),
	}), nil
}

// ToResponse convierte los grupos al formato de la API.
func ToResponse(groups []*report.GroupAggregate) []dto.ReportGroupResponse {
	out := make([]dto.ReportGroupResponse, 0, len(groups))
	for _, g := range groups {
		r := dto.ReportGroupResponse{
			GroupID:      g.GroupID,
			TotalSales:   g.TotalSales,
			Commission:   g.Commission,
			AuthorAmount: g.AuthorAmount,
			Rent:         g.Rent,
			Lines:        make([]dto.ReportLineResponse, 0, len(g.Lines)),
		}
		if g.SettlementDate != "" {
			date := g.SettlementDate
			r.SettlementDate = &date
		}
		for _, l := range g.Lines {
			r.Lines = append(r.Lines, dto.ReportLineResponse{
				Name:         l.Name,
				UnitPrice:    l.UnitPrice,
				Quantity:     l.Quantity,
				LineTotal:    l.LineTotal,
				Commission:   l.Commission,
				AuthorAmount: l.AuthorAmount,
				RestStock:    l.RestStock,
			})
		}
		out = append(out, r)
	}
	return out
}
