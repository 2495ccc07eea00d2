package acquirer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

// Client authorizes card charges with the acquiring bank.
type Client interface {
	Charge(ctx context.Context, req AuthorizationRequest) (*AuthorizationResult, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient builds a client for baseURL. A zero timeout leaves the
// transport default in place.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// Charge makes exactly one authorization attempt.
func (c *HTTPClient) Charge(ctx context.Context, req AuthorizationRequest) (*AuthorizationResult, error) {
	c.logger.Info("Sending authorization request to acquirer",
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency),
	)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal authorization request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create acquirer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("acquirer request cancelled: %w", err)
		}
		c.logger.Error("Failed to connect to acquirer", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAcquirerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var result AuthorizationResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("%w: failed to decode authorization response: %v", ErrAcquirerFailure, err)
		}
		c.logger.Info("Received response from acquirer",
			zap.Bool("authorized", result.Authorized),
			zap.String("authorization_code", result.AuthorizationCode),
		)
		return &result, nil
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		c.logger.Warn("Acquirer responded service unavailable")
		return nil, fmt.Errorf("%w: received status code %d", ErrAcquirerUnavailable, resp.StatusCode)
	}

	errBody := readErrorBody(resp.Body)
	c.logger.Error("HTTP error from acquirer",
		zap.Int("status", resp.StatusCode),
		zap.Int("body_length", len(errBody)),
	)
	if resp.StatusCode == http.StatusBadRequest {
		return nil, &RejectedError{Body: errBody}
	}
	return nil, &StatusError{StatusCode: resp.StatusCode, Body: errBody}
}

func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
