// Package gateway delivers outbound messages through the external messaging
// provider's webhook endpoint.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/salesloop/reengage/internal/config"
)

// Result is the delivery outcome reported by the provider.
type Result struct {
	Success    bool   `json:"success"`
	ProviderID string `json:"provider_id"`
	Error      string `json:"error,omitempty"`
}

// Sender delivers one message to one phone number.
type Sender interface {
	Send(ctx context.Context, phone, text string) (*Result, error)
}

type sendRequest struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

type sendResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

type webhookGateway struct {
	cfg            *config.GatewayConfig
	httpClient     *http.Client
	logger         *zap.Logger
	circuitBreaker *CircuitBreaker
	backoffBase    time.Duration
}

// NewWebhookGateway creates a Sender backed by the provider webhook, with a
// circuit breaker and bounded exponential-backoff retries for transient
// failures inside a single Send.
func NewWebhookGateway(cfg *config.GatewayConfig, logger *zap.Logger) Sender {
	return &webhookGateway{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger:         logger,
		circuitBreaker: NewCircuitBreaker(&cfg.CircuitBreaker, logger),
		backoffBase:    time.Second,
	}
}

// BreakerState exposes the breaker for health reporting. The concrete type is
// asserted by the health service; other callers only need Sender.
func (g *webhookGateway) BreakerState() (BreakerState, uint32, uint32) {
	requests, failures := g.circuitBreaker.Counts()
	return g.circuitBreaker.State(), requests, failures
}

// Send posts the message to the provider, retrying transient failures up to
// MaxRetries with doubling backoff. The caller's context bounds the whole
// attempt including backoff sleeps.
func (g *webhookGateway) Send(ctx context.Context, phone, text string) (*Result, error) {
	attempts := g.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		var result *Result
		err := g.circuitBreaker.Execute(ctx, func() error {
			var sendErr error
			result, sendErr = g.post(ctx, phone, text)
			return sendErr
		})
		if err == nil {
			return result, nil
		}

		lastErr = err
		if IsPermanent(err) {
			return nil, err
		}

		g.logger.Warn("Transient send failure",
			zap.String("phone", phone),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < attempts {
			backoff := g.backoffBase * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, &TransientError{Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}
	}

	return nil, lastErr
}

func (g *webhookGateway) post(ctx context.Context, phone, text string) (*Result, error) {
	body, err := json.Marshal(sendRequest{To: phone, Content: text})
	if err != nil {
		return nil, &PermanentError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewBuffer(body))
	if err != nil {
		return nil, &PermanentError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-gateway-auth-key", g.cfg.AuthKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			g.logger.Warn("Failed to close response body", zap.Error(closeErr))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted:
		// fallthrough to decoding
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &TransientError{Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	default:
		return nil, &PermanentError{Err: fmt.Errorf("request rejected with status %d", resp.StatusCode)}
	}

	var providerResp sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&providerResp); err != nil {
		// Accepted without a parseable body still counts as delivered.
		providerResp.MessageID = fmt.Sprintf("temp-%d", time.Now().UnixNano())
	}

	return &Result{
		Success:    true,
		ProviderID: providerResp.MessageID,
	}, nil
}
