// Package clients holds HTTP clients for external collaborators.
package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/quasydwekat2/task-management-system/logging"
	"github.com/quasydwekat2/task-management-system/models"
)

// NotifierClient broadcasts chat messages through the realtime notifier
// collaborator. Calls go through a circuit breaker so a flapping notifier
// cannot stall message persistence.
type NotifierClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewNotifierClient(baseURL string) *NotifierClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "NotifierCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return &NotifierClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		breaker: breaker,
	}
}

// Broadcast pushes a stored message to the notifier. Best effort: failures
// are logged and never surface to the sender.
func (c *NotifierClient) Broadcast(message *models.Message) {
	if c.baseURL == "" {
		return
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		body, err := json.Marshal(message)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Post(c.baseURL+"/api/broadcast", "application/json", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("notifier returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: NOTIFIER_BROADCAST_FAILED, Description: Failed to broadcast message %s: %v", message.ID, err)
	}
}
