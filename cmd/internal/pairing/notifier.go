package pairing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	notifyDefaultCooldown = 5 * time.Minute
	notifyDefaultTimeout  = 10 * time.Second
)

// Notifier is invoked with the live connection count on every connect and
// disconnect. Implementations must never block the event path and must
// swallow their own errors.
type Notifier interface {
	Notify(count int)
}

// NopNotifier discards all notifications. Used when no webhook is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(int) {}

// WebhookNotifier POSTs an activity alert to a configured endpoint when the
// connection count reaches a threshold, with a minimum interval between
// sends so a busy broker does not spam the endpoint.
type WebhookNotifier struct {
	log    *slog.Logger
	client *http.Client

	url       string
	apiKey    string
	threshold int
	cooldown  time.Duration

	now func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewWebhookNotifier constructs a webhook notifier with safe defaults for
// invalid threshold/cooldown values.
func NewWebhookNotifier(log *slog.Logger, url, apiKey string, threshold int, cooldown time.Duration) *WebhookNotifier {
	if threshold <= 0 {
		threshold = 1
	}
	if cooldown <= 0 {
		cooldown = notifyDefaultCooldown
	}
	return &WebhookNotifier{
		log:       log,
		client:    &http.Client{Timeout: notifyDefaultTimeout},
		url:       url,
		apiKey:    apiKey,
		threshold: threshold,
		cooldown:  cooldown,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Notify fires an alert for the given count if the threshold is met and the
// cooldown has elapsed. The HTTP call runs off the caller's goroutine;
// failures are logged and swallowed.
func (n *WebhookNotifier) Notify(count int) {
	if count < n.threshold {
		return
	}
	if !n.allow(n.now()) {
		return
	}
	go n.send(count)
}

// allow records a send attempt at "now" when the cooldown has elapsed.
func (n *WebhookNotifier) allow(now time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.last.IsZero() && now.Sub(n.last) < n.cooldown {
		return false
	}
	n.last = now
	return true
}

type activityAlert struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (n *WebhookNotifier) send(count int) {
	alert := activityAlert{
		Subject: fmt.Sprintf("%d active users online on PairUp", count),
		Message: fmt.Sprintf("There are currently %d users online.", count),
	}

	body, err := json.Marshal(alert)
	if err != nil {
		n.log.Warn("notify.encode.fail", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyDefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		n.log.Warn("notify.request.fail", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn("notify.send.fail", "err", err)
		return
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		n.log.Warn("notify.send.status", "status", resp.StatusCode)
		return
	}

	n.log.Info("notify.sent", "count", count)
}
