package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/authors-report/internal/application/auth"
	"github.com/jhoicas/authors-report/internal/application/author"
	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/application/reports"
	"github.com/jhoicas/authors-report/internal/domain"
	"github.com/jhoicas/authors-report/internal/domain/entity"
	"github.com/jhoicas/authors-report/internal/domain/ingest"
	"github.com/jhoicas/authors-report/internal/domain/report"
	"github.com/jhoicas/authors-report/internal/domain/repository"
	apphttp "github.com/jhoicas/authors-report/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memUsers struct {
	mu    sync.Mutex
	users []*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.Username == u.Username {
			return fmt.Errorf("%w: users_username_key", domain.ErrDuplicate)
		}
		if e.Contract() != "" && e.Contract() == u.Contract() {
			return fmt.Errorf("%w: users_contract_id_key", domain.ErrDuplicate)
		}
	}
	m.users = append(m.users, u)
	return nil
}

func (m *memUsers) GetByID(context.Context, string) (*entity.User, error) { return nil, nil }

func (m *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) UpdatePassword(context.Context, string, string) error { return nil }

func (m *memUsers) ListByRole(_ context.Context, role string) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) ListContractIDs(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, u := range m.users {
		if c := u.Contract(); c != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

type memRecords struct {
	records []entity.SaleRecord
}

func (m *memRecords) UpsertMany(context.Context, []entity.SaleRecord) (int, error) { return 0, nil }

// List aplica el filtro de contrato como lo haría la consulta SQL.
func (m *memRecords) List(_ context.Context, f repository.SaleRecordFilter) ([]entity.SaleRecord, error) {
	var out []entity.SaleRecord
	for _, r := range m.records {
		if f.GroupID != "" && r.GroupID != f.GroupID {
			continue
		}
		if f.From != nil && r.SaleDate.Before(*f.From) {
			continue
		}
		if f.To != nil && r.SaleDate.After(*f.To) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeLedger struct {
	authors []entity.AuthorRow
	losses  []entity.LostSaleAdjustment
	err     error
}

func (f *fakeLedger) AuthorRows(context.Context) ([]entity.AuthorRow, error) { return f.authors, f.err }
func (f *fakeLedger) LossRows(context.Context) ([]entity.LostSaleAdjustment, error) {
	return f.losses, f.err
}

type fakeExporter struct{ payload string }

func (f fakeExporter) Export(ports.ReportMeta, []*report.GroupAggregate) ([]byte, error) {
	return []byte(f.payload), nil
}

type fakeRunner struct{ err error }

func (f fakeRunner) Run(context.Context) (ingest.Stats, error) {
	return ingest.Stats{Sales: 4, Accepted: 2, Skipped: 1, Records: 1}, f.err
}

// ──────────────────────────────────────────────────────────────────────────────
// App de test
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app    *fiber.App
	users  *memUsers
	ledger *fakeLedger
}

func sale(group, name, price, qty string, day int) entity.SaleRecord {
	p, q := decimal.RequireFromString(price), decimal.RequireFromString(qty)
	return entity.SaleRecord{
		Name: name, UnitPrice: p, Quantity: q, LineTotal: p.Mul(q),
		RestStock: decimal.NewNullDecimal(decimal.NewFromInt(3)),
		GroupID:   group,
		SaleDate:  time.Date(2026, 10, day, 12, 0, 0, 0, time.UTC),
		Source:    entity.SourceLifePOS,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto1"), bcrypt.MinCost)
	require.NoError(t, err)
	c1 := "C1"
	users := &memUsers{users: []*entity.User{
		{ID: "u-admin", Username: "admin", PasswordHash: string(hash), Role: entity.RoleAdmin},
		{ID: "u-ana", Username: "ana", PasswordHash: string(hash), Role: entity.RoleAuthor, ContractID: &c1},
	}}
	records := &memRecords{records: []entity.SaleRecord{
		sale("C1", "Widget", "100", "5", 5),
		sale("C2", "Poster", "30", "1", 6),
		sale("C1", "Widget", "100", "1", 20),
	}}
	ledger := &fakeLedger{
		authors: []entity.AuthorRow{
			{ContractID: "C1", Nick: "ana", Rent: "1500", Comments: "liquidar 15.03"},
			{ContractID: "C2", Nick: "bob"},
			{ContractID: "C3", Nick: "eva"},
			{ContractID: "C4", Nick: "-"},
		},
		losses: []entity.LostSaleAdjustment{
			{GroupID: "C1", Name: "Widget", Amount: "50,00", CorrectionType: "Потеря", Date: "10.10.2026"},
		},
	}

	calc := report.NewCalculator(report.DefaultCommissionRate)
	reportUC := reports.NewUseCase(records, ledger, calc, time.Second).
		WithClock(func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) })

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}),
		AuthorUC:  author.NewUseCase(users, ledger),
		ReportUC:  reportUC,
		ExportUC:  reports.NewExportUseCase(reportUC, fakeExporter{"XLSX"}, fakeExporter{"%PDF-fake"}),
		Sync:      fakeRunner{},
		JWTSecret: testJWTSecret,
	})
	return &testEnv{app: app, users: users, ledger: ledger}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeGroups(t *testing.T, raw []byte) []map[string]interface{} {
	t.Helper()
	var groups []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &groups), string(raw))
	return groups
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ana", "password": "secreto1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out struct {
		Token string `json:"token"`
		User  struct {
			Username   string `json:"username"`
			ContractID string `json:"contract_id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "C1", out.User.ContractID)

	// el token sirve para llamar a la API
	resp, raw = env.do(t, http.MethodGet, "/api/report/author", "Bearer "+out.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
}

func TestLogin_Errores(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ana", "password": "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_CREDENTIALS")

	resp, raw = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ana"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "VALIDATION")
}

// ──────────────────────────────────────────────────────────────────────────────
// Informes
// ──────────────────────────────────────────────────────────────────────────────

func TestReportAuthors_Admin(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/api/report/authors?dateFrom=2026-10-01&dateTo=2026-10-10", bearer(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	groups := decodeGroups(t, raw)
	require.Len(t, groups, 2)
	assert.Equal(t, "C1", groups[0]["group_id"])
	assert.Equal(t, "550", groups[0]["total_sales"], "500 de ventas más 50 de pérdida; la venta del día 20 queda fuera")
	assert.Equal(t, "55", groups[0]["commission"])
	assert.Equal(t, "495", groups[0]["author_amount"])
	assert.Equal(t, "1500", groups[0]["rent"])
	assert.Equal(t, "15.03", groups[0]["settlement_date"])
	assert.Len(t, groups[0]["lines"], 2)

	assert.Equal(t, "C2", groups[1]["group_id"])
	assert.Nil(t, groups[1]["rent"])
	assert.Nil(t, groups[1]["settlement_date"])
}

func TestReportAuthors_AutorNoPuede(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/report/authors", bearer(t, "author", "C1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestReportAuthor_AutorSoloVeSuContrato(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/api/report/author?contract_id=C2", bearer(t, "author", "C1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	groups := decodeGroups(t, raw)
	require.Len(t, groups, 1)
	assert.Equal(t, "C1", groups[0]["group_id"], "contract_id se ignora para autores")
}

func TestReportAuthor_AdminEligeContrato(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/api/report/author?contract_id=C2", bearer(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	groups := decodeGroups(t, raw)
	require.Len(t, groups, 1)
	assert.Equal(t, "C2", groups[0]["group_id"])

	resp, raw = env.do(t, http.MethodGet, "/api/report/author", bearer(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeGroups(t, raw), 2, "sin contract_id el administrador ve todo")

	resp, raw = env.do(t, http.MethodGet, "/api/report/author?contract_id=C9", bearer(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(raw))
}

func TestReportAuthor_AutorSinContrato(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, http.MethodGet, "/api/report/author", bearer(t, "author", ""), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(raw), "MISSING_CONTRACT")
}

func TestReport_FechasInvalidas(t *testing.T) {
	env := newTestEnv(t)
	admin := bearer(t, "admin", "")

	for _, q := range []string{"dateFrom=01.10.2026", "dateFrom=2026-10-10&dateTo=2026-10-01"} {
		resp, raw := env.do(t, http.MethodGet, "/api/report/authors?"+q, admin, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		assert.Contains(t, string(raw), "INVALID_INPUT", q)
	}
}

func TestReport_FuenteCaida(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.err = fmt.Errorf("sheets: %w", domain.ErrUpstream)

	resp, raw := env.do(t, http.MethodGet, "/api/report/authors", bearer(t, "admin", ""), nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, string(raw), "UPSTREAM_ERROR")
}

func TestReport_Exportaciones(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/api/report/authors/export.xlsx", bearer(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "XLSX", string(raw))
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "authors-report.xlsx")

	resp, raw = env.do(t, http.MethodGet, "/api/report/author/export.pdf", bearer(t, "author", "C1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "%PDF-fake", string(raw))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "author-report-C1.pdf")

	resp, _ = env.do(t, http.MethodGet, "/api/report/authors/export.xlsx", bearer(t, "author", "C1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autores
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthors_CrearYListar(t *testing.T) {
	env := newTestEnv(t)
	admin := bearer(t, "admin", "")

	resp, raw := env.do(t, http.MethodPost, "/api/authors", admin, map[string]string{
		"username": "eva", "password": "secreto", "contract_id": "C3",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodGet, "/api/authors", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 2)
	for _, u := range list {
		assert.NotContains(t, u, "password_hash")
	}
}

func TestAuthors_CrearErrores(t *testing.T) {
	env := newTestEnv(t)
	admin := bearer(t, "admin", "")

	resp, raw := env.do(t, http.MethodPost, "/api/authors", admin, map[string]string{
		"username": "eva", "password": "corta", "contract_id": "C3",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "Password")

	resp, raw = env.do(t, http.MethodPost, "/api/authors", admin, map[string]string{
		"username": "eva", "password": "secreto", "contract_id": "C1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "DUPLICATE")

	resp, _ = env.do(t, http.MethodPost, "/api/authors", bearer(t, "author", "C1"), map[string]string{
		"username": "eva", "password": "secreto", "contract_id": "C3",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthors_FreeContracts(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/api/authors/free-contracts", bearer(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"contracts":["C2","C3"]}`, string(raw))
}

func TestAuthors_Nick(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/api/authors/C1/nick", bearer(t, "author", "C1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"contract_id":"C1","nick":"ana"}`, string(raw))

	resp, _ = env.do(t, http.MethodGet, "/api/authors/C2/nick", bearer(t, "author", "C1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/authors/C9/nick", bearer(t, "admin", ""), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sync
// ──────────────────────────────────────────────────────────────────────────────

func TestSyncRun(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/sync/run", bearer(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"fetched_sales":4,"accepted_sales":2,"skipped_sales":1,"records":1}`, string(raw))

	resp, _ = env.do(t, http.MethodPost, "/api/sync/run", bearer(t, "author", "C1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
