package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/authors-report/internal/domain/entity"
	"github.com/jhoicas/authors-report/internal/domain/repository"
)

var _ repository.SaleRecordRepository = (*SaleRecordRepo)(nil)

// upsertBatchSize máximo de sentencias por pgx.Batch.
const upsertBatchSize = 500

const upsertSaleRecordSQL = `
	INSERT INTO sale_records (
		name, unit_price, quantity, line_total, commission, author_amount,
		rest_stock, group_id, sale_date, source, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	ON CONFLICT (source, name, group_id, unit_price, sale_date)
	DO UPDATE SET
		quantity      = EXCLUDED.quantity,
		line_total    = EXCLUDED.line_total,
		commission    = EXCLUDED.commission,
		author_amount = EXCLUDED.author_amount,
		rest_stock    = EXCLUDED.rest_stock,
		updated_at    = now()`

var saleRecordColumns = []string{
	"id", "name", "unit_price", "quantity", "line_total", "commission", "author_amount",
	"rest_stock", "group_id", "sale_date", "source", "updated_at",
}

// saleRecordRow fila tal como la devuelve la DB (pgxscan).
type saleRecordRow struct {
	ID           int64               `db:"id"`
	Name         string              `db:"name"`
	UnitPrice    decimal.Decimal     `db:"unit_price"`
	Quantity     decimal.Decimal     `db:"quantity"`
	LineTotal    decimal.Decimal     `db:"line_total"`
	Commission   decimal.Decimal     `db:"commission"`
	AuthorAmount decimal.Decimal     `db:"author_amount"`
	RestStock    decimal.NullDecimal `db:"rest_stock"`
	GroupID      string              `db:"group_id"`
	SaleDate     time.Time           `db:"sale_date"`
	Source       string              `db:"source"`
	UpdatedAt    time.Time           `db:"updated_at"`
}

func (r saleRecordRow) toEntity() entity.SaleRecord {
	return entity.SaleRecord{
		ID:           r.ID,
		Name:         r.Name,
		UnitPrice:    r.UnitPrice,
		Quantity:     r.Quantity,
		LineTotal:    r.LineTotal,
		Commission:   r.Commission,
		AuthorAmount: r.AuthorAmount,
		RestStock:    r.RestStock,
		GroupID:      r.GroupID,
		SaleDate:     r.SaleDate,
		Source:       r.Source,
		UpdatedAt:    r.UpdatedAt,
	}
}

// SaleRecordRepo implementación de SaleRecordRepository sobre PostgreSQL.
type SaleRecordRepo struct {
	q  Querier
	tx *TxRunner
}

// NewSaleRecordRepository construye el adaptador sobre el pool.
func NewSaleRecordRepository(pool *pgxpool.Pool) *SaleRecordRepo {
	return &SaleRecordRepo{q: pool, tx: NewTxRunner(pool)}
}

// UpsertMany inserta o actualiza todos los registros en una transacción.
// Si una sentencia falla no se confirma ninguna.
func (r *SaleRecordRepo) UpsertMany(ctx context.Context, records []entity.SaleRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	err := r.tx.Run(ctx, func(tx pgx.Tx) error {
		for start := 0; start < len(records); start += upsertBatchSize {
			end := min(start+upsertBatchSize, len(records))
			if err := sendUpsertBatch(ctx, tx, records[start:end]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sale_records.UpsertMany: %w", err)
	}
	return len(records), nil
}

func sendUpsertBatch(ctx context.Context, tx pgx.Tx, records []entity.SaleRecord) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		groupID := rec.GroupID
		if groupID == "" {
			groupID = entity.UnknownGroup
		}
		batch.Queue(upsertSaleRecordSQL,
			rec.Name, rec.UnitPrice, rec.Quantity, rec.LineTotal, rec.Commission, rec.AuthorAmount,
			rec.RestStock, groupID, rec.SaleDate, rec.Source,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert %q (%s): %w", records[i].Name, records[i].GroupID, err)
		}
	}
	return br.Close()
}

// List devuelve las ventas del período (extremos inclusive) y, opcionalmente, de un contrato.
func (r *SaleRecordRepo) List(ctx context.Context, filter repository.SaleRecordFilter) ([]entity.SaleRecord, error) {
	query, args, err := buildListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("sale_records.List: build query: %w", err)
	}

	var rows []saleRecordRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("sale_records.List: %w", err)
	}

	out := make([]entity.SaleRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func buildListQuery(filter repository.SaleRecordFilter) (string, []interface{}, error) {
	qb := psql.Select(saleRecordColumns...).From("sale_records")
	if filter.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"sale_date": *filter.From})
	}
	if filter.To != nil {
		qb = qb.Where(squirrel.LtOrEq{"sale_date": *filter.To})
	}
	if filter.GroupID != "" {
		qb = qb.Where(squirrel.Eq{"group_id": filter.GroupID})
	}
	return qb.OrderBy("sale_date", "id").ToSql()
}
