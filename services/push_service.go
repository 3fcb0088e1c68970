package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// PushService relays notifications to the Expo push endpoint. Delivery
// is fire-and-forget: failures are logged, never retried, and never
// surfaced to the evaluation that triggered them.
type PushService struct {
	endpoint string
	client   *http.Client
}

var pushService *PushService

// InitPushService wires the singleton. An empty endpoint disables the
// relay entirely.
func InitPushService(endpoint string) *PushService {
	pushService = NewPushService(endpoint)
	return pushService
}

// GetPushService returns the singleton instance.
func GetPushService() *PushService {
	return pushService
}

func NewPushService(endpoint string) *PushService {
	return &PushService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

type pushMessage struct {
	To    string                 `json:"to"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// Send dispatches one notification in the background. Nil-safe and a
// no-op when the relay is disabled or the user has no token.
func (s *PushService) Send(token, title, body string, data map[string]interface{}) {
	if s == nil || s.endpoint == "" || token == "" {
		return
	}
	go func() {
		if err := s.send(token, title, body, data); err != nil {
			log.Printf("push: %v", err)
		}
	}()
}

func (s *PushService) send(token, title, body string, data map[string]interface{}) error {
	payload, err := json.Marshal(pushMessage{To: token, Title: title, Body: body, Data: data})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("posting to relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	return nil
}
