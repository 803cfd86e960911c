package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-editor/internal/app/product/contracts"
	"github.com/light-bringer/procat-editor/internal/app/product/domain"
	"github.com/light-bringer/procat-editor/internal/observability"
)

const (
	listPath   = "/api/products"
	updatePath = "/api/products/update"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 16 << 20
)

// HTTPStore implements contracts.RecordStore against the REST product API.
type HTTPStore struct {
	baseURL   *url.URL
	client    *http.Client
	userAgent string
	logger    *zap.Logger
	metrics   *observability.Metrics
}

var _ contracts.RecordStore = (*HTTPStore)(nil)

// Option configures an HTTPStore.
type Option func(*HTTPStore)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPStore) { s.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *HTTPStore) { s.userAgent = ua }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *HTTPStore) { s.logger = l }
}

// WithMetrics records request durations and results.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *HTTPStore) { s.metrics = m }
}

// NewHTTPStore creates a store rooted at baseURL (scheme and host required).
// Requests are bounded by their context; the default client sets no timeout.
func NewHTTPStore(baseURL string, opts ...Option) (*HTTPStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse record store url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("record store url %q must be absolute", baseURL)
	}

	s := &HTTPStore{
		baseURL:   u,
		client:    &http.Client{},
		userAgent: "procat-editor",
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListProducts fetches GET /api/products.
func (s *HTTPStore) ListProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(listPath), nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.do(req)
	if err != nil {
		s.observe("list", "unavailable", start)
		return nil, fmt.Errorf("%w: list products: %w", contracts.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		s.observe("list", "rejected", start)
		drain(resp.Body)
		return nil, fmt.Errorf("%w: list products: status %d", contracts.ErrRejected, resp.StatusCode)
	}

	var products []Product
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&products); err != nil {
		s.observe("list", "malformed", start)
		return nil, fmt.Errorf("%w: decode products: %w", contracts.ErrMalformedResponse, err)
	}
	if products == nil {
		s.observe("list", "malformed", start)
		return nil, fmt.Errorf("%w: product list is null", contracts.ErrMalformedResponse)
	}

	s.observe("list", "ok", start)
	s.logger.Debug("listed products", zap.Int("records", len(products)))
	return ToDomainList(products), nil
}

// UpdateProducts sends PUT /api/products/update with the given records.
// Any 2xx is success; the response body is ignored.
func (s *HTTPStore) UpdateProducts(ctx context.Context, records []domain.ProductRecord) error {
	body, err := json.Marshal(UpdateRequest{Products: FromDomainList(records)})
	if err != nil {
		return fmt.Errorf("encode update request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint(updatePath), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.do(req)
	if err != nil {
		s.observe("update", "unavailable", start)
		return fmt.Errorf("%w: update products: %w", contracts.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if !isSuccess(resp.StatusCode) {
		s.observe("update", "rejected", start)
		return fmt.Errorf("%w: update products: status %d", contracts.ErrRejected, resp.StatusCode)
	}

	s.observe("update", "ok", start)
	s.logger.Debug("updated products", zap.Int("records", len(records)))
	return nil
}

func (s *HTTPStore) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", s.userAgent)
	return s.client.Do(req)
}

func (s *HTTPStore) endpoint(path string) string {
	return s.baseURL.JoinPath(path).String()
}

func (s *HTTPStore) observe(op, result string, start time.Time) {
	s.metrics.ObserveStoreRequest(op, result, time.Since(start))
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxResponseBytes))
}
