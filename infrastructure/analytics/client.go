// Package analytics is the HTTP client for the process analytics API.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	domain "processflow/domain/analytics"
	pkgerrors "processflow/pkg/errors"
)

const serviceName = "analytics-api"

// API paths relative to the base URL
const (
	PathTopImpact       = "/top-impact"
	PathScenarios       = "/scenarios"
	PathTopTemperatures = "/top-scenarios-temperatures"
	PathSetpointImpacts = "/setpoint-impacts"
	PathGenerateReport  = "/api/generate-report"
	PathDownloadReport  = "/api/download-report"
)

// BreakerConfig controls when the client stops calling a failing API
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used in production
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Client calls the analytics API. It does not retry; the caller's context
// and the HTTP client timeout bound every call.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	observe FetchObserver
}

// FetchObserver receives the outcome of every API call
type FetchObserver interface {
	ObserveFetch(path string, d time.Duration, err error)
}

// NewClient creates a client for baseURL with the given request timeout
func NewClient(baseURL string, timeout time.Duration, breaker BreakerConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: breaker.MaxRequests,
		Interval:    breaker.Interval,
		Timeout:     breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breaker.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= breaker.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: cb,
		logger:  logger,
	}
}

// WithObserver reports every call to o
func (c *Client) WithObserver(o FetchObserver) *Client {
	c.observe = o
	return c
}

// Ready fails while the circuit breaker is open
func (c *Client) Ready() error {
	if c.breaker.State() == gobreaker.StateOpen {
		return pkgerrors.NewUnavailableError(serviceName)
	}
	return nil
}

// TopImpact fetches the variable impact summary
func (c *Client) TopImpact(ctx context.Context) (domain.TopImpact, error) {
	var out domain.TopImpact
	err := c.getJSON(ctx, PathTopImpact, &out)
	return out, err
}

// Scenarios fetches every simulated scenario
func (c *Client) Scenarios(ctx context.Context) (domain.Scenarios, error) {
	var out domain.Scenarios
	err := c.getJSON(ctx, PathScenarios, &out)
	return out, err
}

// TopScenariosTemperatures fetches the temperatures of the best scenarios
func (c *Client) TopScenariosTemperatures(ctx context.Context) (domain.TopScenariosTemperatures, error) {
	var out domain.TopScenariosTemperatures
	err := c.getJSON(ctx, PathTopTemperatures, &out)
	return out, err
}

// SetpointImpacts fetches the setpoint weightage table
func (c *Client) SetpointImpacts(ctx context.Context) ([]domain.SetpointImpact, error) {
	var out []domain.SetpointImpact
	err := c.getJSON(ctx, PathSetpointImpacts, &out)
	return out, err
}

// GenerateReport asks the API to render the process report
func (c *Client) GenerateReport(ctx context.Context) error {
	body, err := c.get(ctx, PathGenerateReport)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}

// DownloadReport streams the last generated report. The caller closes the body.
func (c *Client) DownloadReport(ctx context.Context) (io.ReadCloser, error) {
	return c.get(ctx, PathDownloadReport)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return pkgerrors.NewExternalError(serviceName, fmt.Errorf("decode %s: %w", path, err))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	start := time.Now()
	body, err := c.call(ctx, path)
	if c.observe != nil {
		c.observe.ObserveFetch(path, time.Since(start), err)
	}
	return body, err
}

func (c *Client) call(ctx context.Context, path string) (io.ReadCloser, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, pkgerrors.NewInternalError("failed to build analytics request").WithCause(err)
		}
		req.Header.Set("Accept", "application/json, application/pdf")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, pkgerrors.NewNetworkError(fmt.Sprintf("GET %s failed", path), err)
		}
		c.logger.Debug("Analytics API call",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)))

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, pkgerrors.NewExternalError(serviceName,
				fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))).
				WithDetails(map[string]interface{}{"status": resp.StatusCode, "path": path})
		}
		return resp.Body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, pkgerrors.NewUnavailableError(serviceName).WithCause(err)
		}
		return nil, err
	}
	return result.(io.ReadCloser), nil
}
