// Package kontur adaptador HTTP del inventario: stock, grupos de productos y catálogo.
package kontur

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
)

var _ ports.InventorySource = (*Client)(nil)

const maxBodyBytes = 16 << 20

// Client cliente de la API de inventario de una tienda.
type Client struct {
	shopURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient construye el cliente para la tienda configurada.
func NewClient(cfg config.KonturConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		shopURL:    fmt.Sprintf("%s/shops/%s", strings.TrimRight(cfg.BaseURL, "/"), url.PathEscape(cfg.ShopID)),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// flexString acepta un string o un número JSON (el número de grupo llega de ambas formas).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	*f = flexString(raw)
	return nil
}

type restItem struct {
	Name string          `json:"name"`
	Rest decimal.Decimal `json:"rest"`
}

type groupItem struct {
	ID     flexString `json:"id"`
	Number flexString `json:"number"`
	Name   string     `json:"name"`
}

type productItem struct {
	Name    string     `json:"name"`
	GroupID flexString `json:"groupId"`
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

// ProductRests stock actual por nombre de producto.
func (c *Client) ProductRests(ctx context.Context) ([]entity.ProductRest, error) {
	items, err := getItems[restItem](ctx, c, "product-rests")
	if err != nil {
		return nil, err
	}
	out := make([]entity.ProductRest, 0, len(items))
	for _, it := range items {
		out = append(out, entity.ProductRest{Name: it.Name, Rest: it.Rest})
	}
	return out, nil
}

// ProductGroups grupos de productos (un grupo por contrato).
func (c *Client) ProductGroups(ctx context.Context) ([]entity.ProductGroup, error) {
	items, err := getItems[groupItem](ctx, c, "product-groups")
	if err != nil {
		return nil, err
	}
	out := make([]entity.ProductGroup, 0, len(items))
	for _, it := range items {
		out = append(out, entity.ProductGroup{ID: string(it.ID), Number: string(it.Number), Name: strings.TrimSpace(it.Name)})
	}
	return out, nil
}

// Products catálogo con el grupo de cada producto.
func (c *Client) Products(ctx context.Context) ([]entity.CatalogProduct, error) {
	items, err := getItems[productItem](ctx, c, "products")
	if err != nil {
		return nil, err
	}
	out := make([]entity.CatalogProduct, 0, len(items))
	for _, it := range items {
		out = append(out, entity.CatalogProduct{Name: it.Name, GroupID: string(it.GroupID)})
	}
	return out, nil
}

func getItems[T any](ctx context.Context, c *Client, resource string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.shopURL+"/"+resource, nil)
	if err != nil {
		return nil, fmt.Errorf("kontur %s: crear request: %w", resource, err)
	}
	req.Header.Set("x-kontur-apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("kontur %s: %w: timeout o cancelación: %w", resource, domain.ErrUpstream, ctx.Err())
		}
		return nil, fmt.Errorf("kontur %s: %w: %w", resource, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("kontur %s: %w: leer respuesta: %w", resource, domain.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("kontur %s: %w: HTTP %d", resource, domain.ErrUpstream, resp.StatusCode)
	}

	var decoded itemsResponse[T]
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("kontur %s: %w: decodificar: %w", resource, domain.ErrUpstream, err)
	}
	return decoded.Items, nil
}
