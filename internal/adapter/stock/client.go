package stock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/domain/model"
)

// Client exposes operations against the stock service, the system of record
// for item quantities.
type Client interface {
	Check(ctx context.Context, items []model.LineItem) (*model.StockCheck, error)
	Decrease(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error)
}

// HTTPClient implements Client via the stock service HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type lineItemPayload struct {
	ID     int64 `json:"id"`
	Amount int64 `json:"amount"`
}

type itemsRequest struct {
	Items []lineItemPayload `json:"items"`
}

// checkResponse mirrors the JSON payload of POST /stock/check.
type checkResponse struct {
	Available bool `json:"available"`
	Missing   []struct {
		ID        int64 `json:"id"`
		Requested int64 `json:"requested"`
		Available int64 `json:"available"`
	} `json:"missing"`
}

// decreaseResponse mirrors the JSON payload of POST /stock/decrease.
type decreaseResponse struct {
	Success   bool    `json:"success"`
	Decreased []int64 `json:"decreased"`
	NotFound  []int64 `json:"not_found"`
}

// NewHTTPClient creates HTTP stock client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse stock service url: %w", err)
	}
	// A bare host:port parses as scheme "host" with an opaque part, so
	// IsAbs alone does not catch it.
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("stock service url must be absolute http(s): %q", baseURL)
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Check asks the stock service whether every requested line can be fulfilled.
func (c *HTTPClient) Check(ctx context.Context, items []model.LineItem) (*model.StockCheck, error) {
	var data checkResponse
	if err := c.post(ctx, "/api/v1/stock/check", items, &data); err != nil {
		return nil, err
	}

	check := &model.StockCheck{Available: data.Available, Missing: make([]model.MissingItem, 0, len(data.Missing))}
	for _, m := range data.Missing {
		check.Missing = append(check.Missing, model.MissingItem{ID: m.ID, Requested: m.Requested, Available: m.Available})
	}
	return check, nil
}

// Decrease asks the stock service to durably reduce counts for every line.
func (c *HTTPClient) Decrease(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error) {
	var data decreaseResponse
	if err := c.post(ctx, "/api/v1/stock/decrease", items, &data); err != nil {
		return nil, err
	}

	result := &model.StockDecrement{Success: data.Success, Decreased: data.Decreased, NotFound: data.NotFound}
	if result.Decreased == nil {
		result.Decreased = []int64{}
	}
	if result.NotFound == nil {
		result.NotFound = []int64{}
	}
	return result, nil
}

func (c *HTTPClient) post(ctx context.Context, endpointPath string, items []model.LineItem, out any) error {
	payload := itemsRequest{Items: make([]lineItemPayload, 0, len(items))}
	for _, item := range items {
		payload.Items = append(payload.Items, lineItemPayload{ID: item.ID, Amount: item.Amount})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", domainErrors.ErrStockUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("stock request failed",
			slog.String("path", endpointPath),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return fmt.Errorf("%w: %s", domainErrors.ErrStockUnavailable, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s", domainErrors.ErrStockUnavailable, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: malformed response body", domainErrors.ErrStockUnavailable)
	}
	return nil
}
