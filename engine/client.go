package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

var (
	ErrUnavailable       = errors.New("forecast engine unavailable")
	ErrRejected          = errors.New("forecast engine rejected the request")
	ErrMalformedResponse = errors.New("malformed forecast engine response")
)

// Metrics are the engine-reported accuracy metrics over the test
// window.
type Metrics struct {
	RMSE     float64 `json:"rmse"`
	MAE      float64 `json:"mae"`
	R2       float64 `json:"r2"`
	Accuracy float64 `json:"accuracy"`
}

// ModelInfo is optional fit diagnostics for manual models.
type ModelInfo struct {
	AIC float64 `json:"aic"`
	BIC float64 `json:"bic"`
}

// Result is the validated engine response. Forecast and Dates always
// have equal length.
type Result struct {
	Forecast  []float64  `json:"forecast"`
	Dates     []string   `json:"dates"`
	Metrics   Metrics    `json:"metrics"`
	ModelInfo *ModelInfo `json:"modelInfo,omitempty"`
}

type wireError struct {
	Error string `json:"error"`
}

// Client issues forecast requests. Implementations must be safe for a
// single in-flight call per pipeline run; retries are left to the
// caller since fitting is not idempotent-cheap.
type Client interface {
	Forecast(ctx context.Context, req *Request) (*Result, error)
}

// HTTPClient talks JSON over HTTP to the engine's /api/forecast
// endpoint.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the engine at baseURL. A zero
// timeout defaults to one minute.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Forecast posts the request and validates the response shape. Process
// or transport failures map to ErrUnavailable, engine-reported
// validation failures to ErrRejected, and shape violations to
// ErrMalformedResponse.
func (c *HTTPClient) Forecast(ctx context.Context, req *Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("unable to encode forecast request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/forecast", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to build forecast request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: engine returned status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		var we wireError
		if err := json.Unmarshal(payload, &we); err == nil && we.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, we.Error)
		}
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var res Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := res.validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Result) validate() error {
	if len(r.Forecast) != len(r.Dates) && len(r.Dates) != 0 {
		return fmt.Errorf("%w: %d forecast values but %d dates",
			ErrMalformedResponse, len(r.Forecast), len(r.Dates))
	}
	for _, v := range r.Forecast {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite forecast value", ErrMalformedResponse)
		}
	}
	for _, m := range []float64{r.Metrics.RMSE, r.Metrics.MAE, r.Metrics.R2, r.Metrics.Accuracy} {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: non-finite metric", ErrMalformedResponse)
		}
	}
	return nil
}
