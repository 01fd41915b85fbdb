// Package sheets lee la hoja de cálculo de contratos con la API de Google Sheets.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/domain"
	"github.com/jhoicas/authors-report/internal/domain/entity"
	"github.com/jhoicas/authors-report/pkg/config"
)

var _ ports.Ledger = (*Ledger)(nil)

// Columnas de la hoja de autores (A..N).
const (
	colContract = iota
	colNick
	colName
	colTelegram
	colTelegramID
	colVK
	colRack
	colLevel
	colSide
	colComments
	colLastReport
	colRent
	colWithdrawn
	colTotal
	authorColumns
)

// Columnas de la hoja de correcciones (A..E).
const (
	colLossGroup = iota
	colLossName
	colLossAmount
	colLossType
	colLossDate
	lossColumns
)

// Ledger adaptador de solo lectura sobre una hoja de cálculo.
type Ledger struct {
	svc           *sheets.Service
	spreadsheetID string
	authorsRange  string
	lossesRange   string
	timeout       time.Duration
}

// NewLedger construye el cliente. Las credenciales salen de SHEETS_CREDENTIALS_JSON o
// SHEETS_CREDENTIALS_FILE; sin ninguna se usan las credenciales por defecto del entorno.
// extra permite inyectar opciones (endpoint, cliente HTTP) en tests.
func NewLedger(ctx context.Context, cfg config.SheetsConfig, extra ...option.ClientOption) (*Ledger, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: SHEETS_SPREADSHEET_ID no configurado")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, extra...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: crear servicio: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Ledger{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		authorsRange:  cfg.AuthorsRange,
		lossesRange:   cfg.LossesRange,
		timeout:       timeout,
	}, nil
}

// AuthorRows lee la hoja de autores. Las filas vacías se omiten.
func (l *Ledger) AuthorRows(ctx context.Context) ([]entity.AuthorRow, error) {
	values, err := l.values(ctx, l.authorsRange)
	if err != nil {
		return nil, err
	}
	return parseAuthorRows(values), nil
}

// LossRows lee la hoja de correcciones de caja.
func (l *Ledger) LossRows(ctx context.Context) ([]entity.LostSaleAdjustment, error) {
	values, err := l.values(ctx, l.lossesRange)
	if err != nil {
		return nil, err
	}
	return parseLossRows(values), nil
}

func (l *Ledger) values(ctx context.Context, rng string) ([][]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: %w: leer %q: %w", domain.ErrUpstream, rng, err)
	}
	return resp.Values, nil
}

func parseAuthorRows(values [][]interface{}) []entity.AuthorRow {
	out := make([]entity.AuthorRow, 0, len(values))
	for _, raw := range values {
		c := cells(raw, authorColumns)
		if isBlank(c) {
			continue
		}
		out = append(out, entity.AuthorRow{
			ContractID: c[colContract],
			Nick:       c[colNick],
			Name:       c[colName],
			Telegram:   c[colTelegram],
			TelegramID: c[colTelegramID],
			VK:         c[colVK],
			Rack:       c[colRack],
			Level:      c[colLevel],
			Side:       c[colSide],
			Comments:   c[colComments],
			LastReport: c[colLastReport],
			Rent:       c[colRent],
			Withdrawn:  c[colWithdrawn],
			Total:      c[colTotal],
		})
	}
	return out
}

func parseLossRows(values [][]interface{}) []entity.LostSaleAdjustment {
	out := make([]entity.LostSaleAdjustment, 0, len(values))
	for _, raw := range values {
		c := cells(raw, lossColumns)
		if isBlank(c) {
			continue
		}
		out = append(out, entity.LostSaleAdjustment{
			GroupID:        c[colLossGroup],
			Name:           c[colLossName],
			Amount:         c[colLossAmount],
			CorrectionType: c[colLossType],
			Date:           c[colLossDate],
		})
	}
	return out
}

// cells convierte una fila a n strings; las celdas que faltan al final quedan vacías.
func cells(raw []interface{}, n int) []string {
	out := make([]string, n)
	for i := 0; i < n && i < len(raw); i++ {
		out[i] = cellString(raw[i])
	}
	return out
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func isBlank(c []string) bool {
	for _, s := range c {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}
