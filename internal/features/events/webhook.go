package events

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go-ojs/internal/config"

	"go.uber.org/zap"
)

// WebhookNotifier POSTs every event to the configured URLs.
type WebhookNotifier struct {
	URLs       []string
	Secret     string
	HttpClient *http.Client
	logger     *zap.Logger
	wg         sync.WaitGroup
}

func NewWebhookNotifier(cfg *config.Config, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		URLs:   cfg.WebhookURLs,
		Secret: cfg.WebhookSecret,
		HttpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Sign returns the hex HMAC-SHA256 of body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (n *WebhookNotifier) Notify(event WorkflowEvent) {
	if len(n.URLs) == 0 {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("failed to marshal webhook payload", zap.Error(err))
		return
	}

	for _, url := range n.URLs {
		n.wg.Add(1)
		go func(url string) {
			defer n.wg.Done()
			n.send(url, body, event)
		}(url)
	}
}

// Wait blocks until all deliveries started so far have finished.
func (n *WebhookNotifier) Wait() {
	n.wg.Wait()
}

func (n *WebhookNotifier) send(url string, body []byte, event WorkflowEvent) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("failed to create webhook request", zap.String("url", url), zap.Error(err))
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Go-OJS-Webhook")
	req.Header.Set("X-OJS-Event", event.Type)
	req.Header.Set("X-OJS-Delivery", event.ID)
	if n.Secret != "" {
		req.Header.Set("X-OJS-Signature", "sha256="+Sign(n.Secret, body))
	}

	resp, err := n.HttpClient.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.String("url", url), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Warn("webhook rejected", zap.String("url", url), zap.Int("status", resp.StatusCode))
	}
}
