// Package push holds the PushGateway implementations.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultFCMEndpoint = "https://fcm.googleapis.com/fcm/send"

// FCMGateway sends notifications through the FCM HTTP API.
type FCMGateway struct {
	Endpoint  string
	ServerKey string
	Client    *http.Client
}

func NewFCMGateway(endpoint, serverKey string) *FCMGateway {
	if endpoint == "" {
		endpoint = DefaultFCMEndpoint
	}
	return &FCMGateway{
		Endpoint:  endpoint,
		ServerKey: serverKey,
		Client:    &http.Client{Timeout: 5 * time.Second},
	}
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmRequest struct {
	To           string          `json:"to"`
	Priority     string          `json:"priority"`
	Notification fcmNotification `json:"notification"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

func (g *FCMGateway) Send(ctx context.Context, token, title, body string) error {
	payload, err := json.Marshal(fcmRequest{
		To:           token,
		Priority:     "high",
		Notification: fcmNotification{Title: title, Body: body},
	})
	if err != nil {
		return fmt.Errorf("encode fcm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build fcm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+g.ServerKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fcm request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read fcm response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fcm returned %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var out fcmResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode fcm response: %w", err)
	}
	if out.Failure > 0 {
		reason := "unknown"
		if len(out.Results) > 0 && out.Results[0].Error != "" {
			reason = out.Results[0].Error
		}
		return fmt.Errorf("fcm rejected message: %s", reason)
	}
	return nil
}
