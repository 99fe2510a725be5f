package client

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"toy-catalog/internal/logger"
	"toy-catalog/internal/model"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var CatalogClientTracer = otel.Tracer("CatalogClient")

// StatusError is returned for non-2xx answers.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// CatalogClient calls the catalog HTTP API and propagates trace context.
type CatalogClient struct {
	http *resty.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		ctx := req.Context()
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			req.SetHeader("X-Trace-ID", sc.TraceID().String())
		}
		return nil
	})

	return &CatalogClient{http: c}
}

func (c *CatalogClient) IssueToken(ctx context.Context, identity map[string]any) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, "CatalogClient.IssueToken", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(identity).SetResult(&out).Post("/jwt")
	})
	return out.Token, err
}

func (c *CatalogClient) ListProducts(ctx context.Context, page, limit int) ([]model.Product, error) {
	var out []model.Product
	err := c.do(ctx, "CatalogClient.ListProducts", func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParams(map[string]string{
			"page":  strconv.Itoa(page),
			"limit": strconv.Itoa(limit),
		}).SetResult(&out).Get("/products")
	})
	return out, err
}

func (c *CatalogClient) Total(ctx context.Context) (int64, error) {
	var out model.CountResult
	err := c.do(ctx, "CatalogClient.Total", func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&out).Get("/totalproduct")
	})
	return out.Total, err
}

func (c *CatalogClient) MyListings(ctx context.Context, email, token string) ([]model.Product, error) {
	var out []model.Product
	err := c.do(ctx, "CatalogClient.MyListings", func(r *resty.Request) (*resty.Response, error) {
		return r.SetAuthToken(token).
			SetQueryParam("email", email).
			SetResult(&out).
			Get("/mytoys")
	})
	return out, err
}

func (c *CatalogClient) AddProduct(ctx context.Context, p model.Product) (model.InsertResult, error) {
	var out model.InsertResult
	err := c.do(ctx, "CatalogClient.AddProduct", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(p).SetResult(&out).Post("/addnewtoy")
	})
	return out, err
}

func (c *CatalogClient) DeleteProduct(ctx context.Context, id string) (model.DeleteResult, error) {
	var out model.DeleteResult
	err := c.do(ctx, "CatalogClient.DeleteProduct", func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParam("id", id).SetResult(&out).Delete("/products-delete")
	})
	return out, err
}

func (c *CatalogClient) do(ctx context.Context, op string, call func(*resty.Request) (*resty.Response, error)) error {
	ctx, span := CatalogClientTracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	resp, err := call(c.http.R().SetContext(ctx))
	if err != nil {
		logger.Err(ctx, "Catalog request failed", err, slog.String("op", op))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info(ctx, "CatalogClient response",
		slog.String("op", op),
		slog.String("http.method", resp.Request.Method),
		slog.String("http.url", resp.Request.URL),
		slog.Int("http.status", resp.StatusCode()),
		slog.Int64("duration_ms", resp.Time().Milliseconds()),
	)

	if resp.IsError() {
		return &StatusError{
			Method:     resp.Request.Method,
			Path:       resp.Request.URL,
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(resp.String()),
		}
	}
	return nil
}
