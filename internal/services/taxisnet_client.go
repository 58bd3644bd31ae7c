package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/govgr-digital/profile-api/internal/config"
	"github.com/govgr-digital/profile-api/internal/logging"
	"github.com/govgr-digital/profile-api/internal/models"
	"github.com/govgr-digital/profile-api/internal/observability"
	"github.com/govgr-digital/profile-api/internal/utils"
	"go.uber.org/zap"
)

// RetrievalClient fetches citizen profile data from the Taxisnet provider.
// A nil result with a nil error never happens: callers get either a result
// or an error they can classify with errors.Is.
type RetrievalClient interface {
	FetchCitizenData(ctx context.Context, username, password string) (*models.RetrievalResult, error)
}

// TaxisnetClient handles communication with the Taxisnet gateway for profile
// retrievals
type TaxisnetClient struct {
	baseURL     string
	client      *http.Client
	logger      *logging.SafeLogger
	retryConfig RetryConfig
}

// taxisnetRequest is the credential payload sent to the gateway
type taxisnetRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// taxisnetResponse is the gateway response envelope. Success false means the
// provider evaluated the credentials and rejected them; that is a definitive
// answer, not a transport failure.
type taxisnetResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    *models.RetrievalResult `json:"data,omitempty"`
}

// RetryConfig defines retry behavior for Taxisnet requests
type RetryConfig struct {
	MaxRetries    int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns sensible defaults for Taxisnet retries
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		BaseDelay:     500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
	}
}

// NewTaxisnetClient creates a new Taxisnet client instance
func NewTaxisnetClient(cfg *config.Config, logger *logging.SafeLogger) *TaxisnetClient {
	return &TaxisnetClient{
		baseURL: cfg.TaxisnetBaseURL,
		client: &http.Client{
			Timeout: cfg.TaxisnetTimeout,
		},
		logger:      logger,
		retryConfig: DefaultRetryConfig(),
	}
}

// withRetry executes a function with exponential backoff retry logic
func (c *TaxisnetClient) withRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(c.retryConfig.BaseDelay) * math.Pow(c.retryConfig.BackoffFactor, float64(attempt-1)))
			if delay > c.retryConfig.MaxDelay {
				delay = c.retryConfig.MaxDelay
			}

			c.logger.Debug("retrying Taxisnet operation",
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			if attempt > 0 {
				c.logger.Info("Taxisnet operation succeeded after retry",
					zap.String("operation", operation),
					zap.Int("attempts", attempt+1))
			}
			return nil
		}

		if !c.isRetryableError(lastErr) {
			c.logger.Debug("non-retryable error, aborting",
				zap.String("operation", operation),
				zap.Error(lastErr))
			return lastErr
		}

		c.logger.Warn("Taxisnet operation failed, will retry",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", c.retryConfig.MaxRetries),
			zap.Error(lastErr))
	}

	c.logger.Error("Taxisnet operation failed after all retries",
		zap.String("operation", operation),
		zap.Int("total_attempts", c.retryConfig.MaxRetries+1),
		zap.Error(lastErr))

	return fmt.Errorf("operation %s failed after %d attempts: %w", operation, c.retryConfig.MaxRetries+1, lastErr)
}

// isRetryableError determines if an error should trigger a retry. Credential
// rejections are definitive and never retried; only transport-level failures
// are.
func (c *TaxisnetClient) isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "connection") ||
		strings.Contains(err.Error(), "network") ||
		strings.Contains(err.Error(), "dial") {
		return true
	}

	if strings.Contains(err.Error(), "500") ||
		strings.Contains(err.Error(), "502") ||
		strings.Contains(err.Error(), "503") ||
		strings.Contains(err.Error(), "504") {
		return true
	}

	return false
}

// FetchCitizenData retrieves the citizen's profile from Taxisnet using the
// supplied credentials. It returns models.ErrProviderRejected when the
// provider answers but declines the credentials, and a transport-class error
// for everything else (network failures, server errors, undecodable bodies).
func (c *TaxisnetClient) FetchCitizenData(ctx context.Context, username, password string) (*models.RetrievalResult, error) {
	startTime := time.Now()
	ctx, span := utils.TraceExternalService(ctx, "taxisnet", "fetch_citizen_data")
	defer span.End()

	c.logger.Info("starting Taxisnet retrieval",
		zap.String("operation", "taxisnet_retrieval_start"))

	defer func() {
		c.logger.Info("Taxisnet retrieval completed",
			zap.Duration("total_duration", time.Since(startTime)),
			zap.String("operation", "taxisnet_retrieval_complete"))
	}()

	jsonData, err := json.Marshal(taxisnetRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var envelope taxisnetResponse

	err = c.withRetry(ctx, "fetch_citizen_data", func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/citizen-data", bytes.NewBuffer(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		envelope = taxisnetResponse{}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}

		return nil
	})

	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{
			"service.outcome": "transport_error",
		})
		return nil, err
	}

	if !envelope.Success {
		c.logger.Info("Taxisnet declined the supplied credentials",
			zap.String("reason", envelope.Message),
			zap.String("operation", "taxisnet_retrieval_rejected"))
		utils.AddSpanAttribute(span, "service.outcome", "rejected")
		return nil, models.ErrProviderRejected
	}

	if envelope.Data == nil {
		// Success without a body is a contract violation on the provider
		// side; treat it like any other unusable response.
		utils.AddSpanAttribute(span, "service.outcome", "malformed")
		return nil, fmt.Errorf("%w: success response carried no data", models.ErrMalformedRetrieval)
	}

	c.logger.Info("Taxisnet retrieval successful",
		zap.String("afm", observability.MaskAFM(envelope.Data.AFM)),
		zap.String("operation", "taxisnet_retrieval_success"))
	utils.AddSpanAttribute(span, "service.outcome", "success")

	return envelope.Data, nil
}
