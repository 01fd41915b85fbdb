// Package lifepos adaptador HTTP de la caja (ventas cerradas).
package lifepos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/domain"
	"github.com/jhoicas/authors-report/internal/domain/entity"
	"github.com/jhoicas/authors-report/pkg/config"
	"github.com/jhoicas/authors-report/pkg/logger"
)

var _ ports.SalesSource = (*Client)(nil)

// MaxPages techo de páginas por sincronización; garantiza que el recorrido termina.
const MaxPages = 50

const maxBodyBytes = 16 << 20

// Client cliente de la API de ventas.
type Client struct {
	baseURL    string
	orgID      string
	clientID   string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente. Timeout es por petición.
func NewClient(cfg config.LifePOSConfig, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		orgID:      cfg.OrgID,
		clientID:   cfg.ClientID,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// ── Estructuras del protocolo ─────────────────────────────────────────────────

type money struct {
	Value decimal.Decimal `json:"value"`
}

type position struct {
	Name      string          `json:"name"`
	SalePrice *money          `json:"sale_price"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type sale struct {
	State          string     `json:"state"`
	PaymentStatus  string     `json:"payment_status"`
	ShippingStatus string     `json:"shipping_status"`
	TotalSum       *money     `json:"total_sum"`
	OpenedAt       string     `json:"opened_at"`
	Positions      []position `json:"positions"`
}

type salesPage struct {
	Items         []sale `json:"items"`
	NextPageToken string `json:"next_page_token"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// ListSales recorre todas las páginas hasta que no hay next_page_token o hasta MaxPages.
// Cualquier error de una página aborta el recorrido completo.
func (c *Client) ListSales(ctx context.Context) ([]entity.PosSale, error) {
	var out []entity.PosSale
	token := ""
	for page := 1; ; page++ {
		p, err := c.salesPage(ctx, token)
		if err != nil {
			return nil, err
		}
		for _, s := range p.Items {
			out = append(out, s.toEntity())
		}
		token = p.NextPageToken
		if token == "" {
			break
		}
		if page >= MaxPages {
			c.log.Warn().Int("pages", page).Msg("lifepos: alcanzado el máximo de páginas, se corta la paginación")
			break
		}
	}
	return out, nil
}

func (c *Client) salesPage(ctx context.Context, token string) (*salesPage, error) {
	endpoint := fmt.Sprintf("%s/orgs/%s/deals/sales", c.baseURL, url.PathEscape(c.orgID))
	if token != "" {
		endpoint += "?" + url.Values{"page_token": {token}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("lifepos: crear request: %w", err)
	}
	req.Header.Set("X-LP-Client-Identifier", c.clientID)
	req.Header.Set("X-LP-Client-Type", "App")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "ru-RU")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("lifepos: %w: timeout o cancelación: %w", domain.ErrUpstream, ctx.Err())
		}
		return nil, fmt.Errorf("lifepos: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("lifepos: %w: leer respuesta: %w", domain.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("lifepos: %w: HTTP %d: %s", domain.ErrUpstream, resp.StatusCode, truncate(body, 200))
	}

	var page salesPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("lifepos: %w: decodificar página: %w", domain.ErrUpstream, err)
	}
	return &page, nil
}

// openedAtLayouts formatos vistos en opened_at.
var openedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (s sale) toEntity() entity.PosSale {
	out := entity.PosSale{
		State:          s.State,
		PaymentStatus:  s.PaymentStatus,
		ShippingStatus: s.ShippingStatus,
		TotalSum:       fromMinor(s.TotalSum),
		OpenedAt:       parseOpenedAt(s.OpenedAt),
		Positions:      make([]entity.PosPosition, 0, len(s.Positions)),
	}
	for _, p := range s.Positions {
		out.Positions = append(out.Positions, entity.PosPosition{
			Name:      p.Name,
			SalePrice: fromMinor(p.SalePrice),
			Quantity:  p.Quantity,
		})
	}
	return out
}

// fromMinor convierte kopeks a rublos.
func fromMinor(m *money) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	return m.Value.Shift(-2)
}

func parseOpenedAt(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range openedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
