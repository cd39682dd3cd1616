// Package erp is the HTTP client for the ecount-style ERP backend.
// It implements both roles the dialogue core needs: the catalog source
// (read-only reference data) and the transaction submitter.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"erpchat/internal/core/apperror"
	"erpchat/internal/domain/catalog"
	"erpchat/internal/domain/transaction"
)

var tracer = otel.Tracer("erpchat/erp")

// DefaultTimeout bounds every ERP call. The upstream has no documented SLA,
// so a timeout is treated as a submission failure.
const DefaultTimeout = 30 * time.Second

// Config holds ERP client configuration.
type Config struct {
	// BaseURL of the ERP API, without trailing slash.
	BaseURL string

	// APIKey sent as X-API-Key on every request.
	APIKey string

	// Timeout for each call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client talks to the ERP over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates an ERP client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// --- catalog.Source ---

// FetchVendors loads the vendor catalog.
func (c *Client) FetchVendors(ctx context.Context) ([]catalog.Vendor, error) {
	var vendors []catalog.Vendor
	if err := c.getJSON(ctx, "/api/v1/vendors", &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

// FetchProducts loads the product catalog.
func (c *Client) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.getJSON(ctx, "/api/v1/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchWarehouses loads the warehouse catalog.
func (c *Client) FetchWarehouses(ctx context.Context) ([]catalog.Warehouse, error) {
	var warehouses []catalog.Warehouse
	if err := c.getJSON(ctx, "/api/v1/warehouses", &warehouses); err != nil {
		return nil, err
	}
	return warehouses, nil
}

// --- dialogue.Submitter ---

// submitPaths maps each action to its ERP endpoint.
var submitPaths = map[transaction.Action]string{
	transaction.ActionSale:              "/api/v1/transactions/sale",
	transaction.ActionPurchase:          "/api/v1/transactions/purchase",
	transaction.ActionProductionReceipt: "/api/v1/transactions/production-receipt",
}

// Submit posts a validated transaction to the ERP and returns the raw
// response payload. The payload is not interpreted beyond a success flag;
// transport and HTTP failures come back as SUBMISSION_FAILED.
func (c *Client) Submit(ctx context.Context, tx *transaction.Transaction) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "erp.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("erp.action", string(tx.Action)),
		attribute.String("erp.product_code", tx.ProductCode),
	)

	path, ok := submitPaths[tx.Action]
	if !ok {
		return nil, apperror.NewValidation("unknown action").WithDetail("action", tx.Action)
	}

	body, err := json.Marshal(tx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("marshal transaction: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build request: %w", err))
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.NewTimeout("erp submission", err)
		}
		return nil, apperror.NewSubmission(string(tx.Action), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.NewSubmission(string(tx.Action), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
		return nil, apperror.NewSubmission(string(tx.Action),
			fmt.Errorf("erp returned %s", resp.Status)).
			WithDetail("status", resp.StatusCode)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Some ERP endpoints answer with bare text on success.
		payload = map[string]any{"success": true, "raw": string(raw)}
	}
	return payload, nil
}

// --- helpers ---

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("build request: %w", err))
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperror.NewTimeout("erp catalog fetch", err)
		}
		return apperror.NewCatalogUnavailable(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperror.NewCatalogUnavailable(path, fmt.Errorf("erp returned %s", resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewCatalogUnavailable(path, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}
}
