// Package notify delivers crawl digests to configured webhooks. Delivery is
// best effort: failures are logged and counted, never returned to the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lizouzt/TrendRadar/pkg/config"
	"github.com/lizouzt/TrendRadar/pkg/observability"
)

const defaultTimeout = 10 * time.Second

// Message is one formatted push notification.
type Message struct {
	Title string
	Text  string
}

// Notifier fans a message out to every configured webhook.
type Notifier struct {
	webhooks []config.WebhookConfig
	client   *http.Client
}

// New creates a Notifier. An empty webhook list is valid; Notify becomes a
// no-op.
func New(webhooks []config.WebhookConfig) *Notifier {
	return &Notifier{
		webhooks: webhooks,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

// Notify sends msg to all configured targets. Errors are logged but do not
// affect the caller.
func (n *Notifier) Notify(ctx context.Context, msg Message) {
	for _, wh := range n.webhooks {
		if wh.URL == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = n.sendSlack(ctx, wh.URL, msg)
		case "feishu":
			err = n.sendFeishu(ctx, wh.URL, msg)
		case "http":
			err = n.sendHTTP(ctx, wh.URL, msg)
		default:
			slog.Warn("notify: unknown webhook type, skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			observability.PushDeliveriesTotal.WithLabelValues(wh.Type, "error").Inc()
			slog.Error("notify: webhook delivery failed",
				"type", wh.Type,
				"title", msg.Title,
				"err", err,
			)
		} else {
			observability.PushDeliveriesTotal.WithLabelValues(wh.Type, "success").Inc()
			slog.Debug("notify: webhook delivered",
				"type", wh.Type,
				"title", msg.Title,
			)
		}
	}
}

func (n *Notifier) sendSlack(ctx context.Context, url string, msg Message) error {
	body, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("*%s*\n%s", msg.Title, msg.Text),
	})
	return n.post(ctx, url, body)
}

func (n *Notifier) sendFeishu(ctx context.Context, url string, msg Message) error {
	payload := map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"title":    map[string]string{"tag": "plain_text", "content": msg.Title},
				"template": "blue",
			},
			"elements": []interface{}{
				map[string]string{"tag": "markdown", "content": msg.Text},
			},
		},
	}
	body, _ := json.Marshal(payload)
	return n.post(ctx, url, body)
}

func (n *Notifier) sendHTTP(ctx context.Context, url string, msg Message) error {
	body, _ := json.Marshal(map[string]string{
		"source": "trendradar",
		"title":  msg.Title,
		"text":   msg.Text,
	})
	return n.post(ctx, url, body)
}

func (n *Notifier) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
