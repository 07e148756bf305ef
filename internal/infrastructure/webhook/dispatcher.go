// Package webhook delivers notifications to an external HTTP endpoint.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body
const SignatureHeader = "X-Hostel-Signature"

// Payload is the JSON body posted for each notification
type Payload struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Dispatcher posts notifications as JSON, retrying on transport errors and 5xx
type Dispatcher struct {
	client *resty.Client
	url    string
	secret []byte
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher from configuration
func NewDispatcher(cfg config.WebhookConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "hostelhub-webhook/1").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Dispatcher{
		client: client,
		url:    cfg.URL,
		secret: []byte(cfg.Secret),
		logger: logger.Named("webhook"),
	}
}

// Dispatch implements notification.Dispatcher
func (d *Dispatcher) Dispatch(ctx context.Context, n *notification.Notification) error {
	body, err := json.Marshal(Payload{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		CreatedAt: n.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req := d.client.R().SetContext(ctx).SetBody(body)
	if len(d.secret) > 0 {
		req.SetHeader(SignatureHeader, Sign(d.secret, body))
	}

	resp, err := req.Post(d.url)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	if resp.IsError() {
		d.logger.Warn("Webhook rejected notification",
			zap.String("notification_id", n.ID.String()),
			zap.Int("status_code", resp.StatusCode()),
		)
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body under secret
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

var _ notification.Dispatcher = (*Dispatcher)(nil)
