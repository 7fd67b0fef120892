package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Notifier sends alert notifications to external channels.
type Notifier interface {
	Notify(alerts []Alert) error
}

// webhookNotifier posts alerts as a JSON document. The top-level text
// field carries a readable digest so chat webhooks that only look at text
// still show something useful.
type webhookNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewWebhookNotifier creates a Notifier that posts alerts to webhookURL.
func NewWebhookNotifier(webhookURL string) Notifier {
	return &webhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type alertDigest struct {
	Source string                `json:"source"`
	Text   string                `json:"text"`
	Counts map[AlertSeverity]int `json:"counts"`
	Alerts []digestAlert         `json:"alerts"`
}

type digestAlert struct {
	Kind        string        `json:"kind"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	EntityKind  string        `json:"entity_kind,omitempty"`
	EntityID    string        `json:"entity_id,omitempty"`
	TriggeredAt string        `json:"triggered_at"`
}

// Notify sends the given alerts to the configured webhook.
// It returns nil without making a request if the alerts slice is empty.
func (n *webhookNotifier) Notify(alerts []Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	body, err := json.Marshal(buildDigest(alerts))
	if err != nil {
		return fmt.Errorf("marshaling alert digest: %w", err)
	}

	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func buildDigest(alerts []Alert) alertDigest {
	d := alertDigest{
		Source: "dayplan",
		Counts: make(map[AlertSeverity]int),
		Alerts: make([]digestAlert, 0, len(alerts)),
	}
	lines := []string{fmt.Sprintf("dayplan: %d alert(s)", len(alerts))}
	for _, a := range alerts {
		d.Counts[a.Severity]++
		d.Alerts = append(d.Alerts, digestAlert{
			Kind:        a.Condition,
			Severity:    a.Severity,
			Message:     a.Message,
			EntityKind:  a.EntityKind,
			EntityID:    a.EntityID,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		})
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(string(a.Severity)), a.Message))
	}
	d.Text = strings.Join(lines, "\n")
	return d
}
