package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/Retrofit/internal/scoring"
)

// DefaultTimeout bounds a single analyze call when none is configured.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = 1 << 20

// ErrTimeout is returned when the analyzer does not answer in time.
var ErrTimeout = errors.New("analyzer timed out")

// StatusError is returned for any non-2xx analyzer response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analyzer returned %d: %s", e.StatusCode, e.Body)
}

// ResultsData is the analyzer's response body.
type ResultsData struct {
	EENow              float64            `json:"ee_now"`
	Scenarios          []scoring.Scenario `json:"scenarios"`
	TopRecommendations []scoring.Scenario `json:"top_recommendations"`
}

type analyzeRequest struct {
	Features map[string]any `json:"features"`
}

type Client interface {
	Analyze(ctx context.Context, features map[string]any) (*ResultsData, error)
}

type HTTPClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client posting to endpoint, the full analyze URL.
// A non-positive timeout falls back to DefaultTimeout.
func NewHTTPClient(endpoint, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Analyze posts the feature map and decodes the scored result. It makes
// exactly one request and never retries.
func (c *HTTPClient) Analyze(ctx context.Context, features map[string]any) (*ResultsData, error) {
	payload, err := json.Marshal(analyzeRequest{Features: features})
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("analyzer request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("read analyzer response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out ResultsData
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	if out.Scenarios == nil {
		out.Scenarios = []scoring.Scenario{}
	}
	return &out, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
