package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"funnel-engine/internal/common/errors"
	"funnel-engine/internal/common/httpclient"
	"funnel-engine/internal/common/logger"
	"funnel-engine/internal/common/metrics"
)

// Result is the outcome of one delivery attempt.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Dispatcher posts session payloads to the configured CRM endpoint. One
// attempt per completion; the CRM side dedupes on sessionId so a retry loop
// would only produce duplicate lead records.
type Dispatcher struct {
	client *httpclient.Client
	url    string
	log    logger.Logger
}

// NewDispatcher creates a dispatcher for the given endpoint.
func NewDispatcher(url string, timeout time.Duration, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		client: httpclient.NewClient(timeout),
		url:    url,
		log:    log,
	}
}

// Send validates the payload against the CRM contract and makes exactly one
// POST attempt. A failed delivery is reported in the result, never retried.
func (d *Dispatcher) Send(ctx context.Context, payload map[string]interface{}) Result {
	if err := ValidatePayload(payload); err != nil {
		d.log.Error("Webhook payload rejected before dispatch", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.WebhookDeliveries.WithLabelValues("invalid").Inc()
		return Result{Success: false, Error: err.Error()}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		metrics.WebhookDeliveries.WithLabelValues("invalid").Inc()
		return Result{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		metrics.WebhookDeliveries.WithLabelValues("failure").Inc()
		return Result{Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := d.client.Do(req)
	duration := time.Since(start)
	metrics.WebhookDuration.Observe(duration.Seconds())

	if err != nil {
		stdErr := errors.NewWebhookDeliveryFailedError(err.Error())
		d.log.WithError(stdErr).Error("Webhook delivery failed", map[string]interface{}{
			"url": d.url,
		})
		metrics.WebhookDeliveries.WithLabelValues("failure").Inc()
		return Result{Success: false, Error: stdErr.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := fmt.Sprintf("webhook failed with status %d", resp.StatusCode)
		stdErr := errors.NewWebhookDeliveryFailedError(detail)
		d.log.WithError(stdErr).Error("Webhook delivery failed", map[string]interface{}{
			"url":    d.url,
			"status": resp.StatusCode,
		})
		metrics.WebhookDeliveries.WithLabelValues("failure").Inc()
		return Result{Success: false, Error: stdErr.Error()}
	}

	metrics.WebhookDeliveries.WithLabelValues("success").Inc()
	return Result{Success: true}
}
