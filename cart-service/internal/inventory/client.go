// Package inventory is the HTTP client for the inventory service that
// answers stock and product attribute lookups.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/rocketshoes/cart-service/internal/domain"
	"github.com/fjod/rocketshoes/cart-service/internal/metrics"
	"github.com/fjod/rocketshoes/pkg/circuitbreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	endpointStock    = "stock"
	endpointProducts = "products"

	defaultTimeout        = 5 * time.Second
	bodyReadLimit   int64 = 1024
	maxResponseSize int64 = 1 << 20 // 1MB
)

var (
	ErrNotFound       = errors.New("product not found in inventory")
	errBaseURLMissing = errors.New("inventory base url is required")
)

type Options struct {
	BaseURL string
	Timeout time.Duration
	Breaker circuitbreaker.Settings
	Metrics *metrics.Metrics
	// Transport overrides the underlying round tripper; it is still wrapped
	// with otelhttp.
	Transport http.RoundTripper
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *circuitbreaker.Breaker
	metrics    *metrics.Metrics
	products   singleflight.Group
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, errBaseURLMissing
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid inventory base url: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	settings := opts.Breaker
	if settings.Name == "" {
		settings.Name = "inventory"
	}
	if settings.IsSuccessful == nil {
		settings.IsSuccessful = func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		baseURL: base,
		breaker: circuitbreaker.New(settings),
		metrics: opts.Metrics,
	}, nil
}

// GetStock asks how many units of the product are available. Answers are
// never shared between callers.
func (c *Client) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	var stock domain.Stock
	if err := c.get(ctx, endpointStock, productID, &stock); err != nil {
		return domain.Stock{}, err
	}
	return stock, nil
}

// GetProduct fetches the product's display attributes. Concurrent lookups of
// the same product share one request, which outlives any single caller and
// is bounded by the client timeout.
func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.products.DoChan(strconv.FormatInt(productID, 10), func() (any, error) {
		var product domain.Product
		if err := c.get(shared, endpointProducts, productID, &product); err != nil {
			return domain.Product{}, err
		}
		return product, nil
	})

	select {
	case <-ctx.Done():
		return domain.Product{}, fmt.Errorf("fetch product %d: %w", productID, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.Product{}, res.Err
		}
		product := res.Val.(domain.Product)
		product.Amount = 0
		return product, nil
	}
}

func (c *Client) get(ctx context.Context, endpoint string, productID int64, out any) error {
	start := time.Now()
	defer func() {
		c.metrics.ObserveInventoryRequest(endpoint, time.Since(start))
	}()

	_, err := circuitbreaker.Execute(c.breaker, func() (struct{}, error) {
		return struct{}{}, c.do(ctx, endpoint, productID, out)
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return fmt.Errorf("inventory %s unavailable: %w", endpoint, err)
		}
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string, productID int64, out any) error {
	target, err := url.JoinPath(c.baseURL, endpoint, strconv.FormatInt(productID, 10))
	if err != nil {
		return fmt.Errorf("build %s url: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute %s request: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %d: %w", endpoint, productID, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, bodyReadLimit))
		return fmt.Errorf("%s request failed: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
