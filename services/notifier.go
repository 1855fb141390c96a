package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/logging"
)

// Notifier delivers change events to the real-time notification service.
// Delivery is fire-and-forget and at least once; subscribers must re-fetch
// authoritative state rather than trust the payload as a delta.
type Notifier interface {
	Publish(ctx context.Context, projectID, eventType string, payload any) error
}

type notificationEnvelope struct {
	ProjectID  string    `json:"projectId"`
	EventType  string    `json:"eventType"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

// HTTPNotifier posts events to the notifications service, wrapped in a
// circuit breaker so a dead notifier cannot stall the write path.
type HTTPNotifier struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return &HTTPNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 3 * time.Second},
		breaker: breaker,
	}
}

func (n *HTTPNotifier) Publish(ctx context.Context, projectID, eventType string, payload any) error {
	body, err := json.Marshal(notificationEnvelope{
		ProjectID:  projectID,
		EventType:  eventType,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	_, err = n.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/api/notifications/publish", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("notifications service returned %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// NopNotifier swallows events when no notifier is configured.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, string, string, any) error { return nil }
