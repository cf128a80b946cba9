package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dapur-gratis/resep-api/lib/push"
)

const (
	defaultBaseURL = "https://fcm.googleapis.com"
	messagingScope = "https://www.googleapis.com/auth/firebase.messaging"
)

type messenger struct {
	client    *http.Client
	baseURL   string
	projectID string
}

var _ push.Messenger = &messenger{}

type Option func(*messenger)

// WithBaseURL points the client at a different endpoint, for tests.
func WithBaseURL(baseURL string) Option {
	return func(m *messenger) {
		m.baseURL = baseURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(m *messenger) {
		m.client = client
	}
}

// New builds an FCM HTTP v1 messenger authenticated with a service
// account JSON credential.
func New(ctx context.Context, projectID string, credentialJSON []byte, opts ...Option) (*messenger, error) {
	config, err := google.JWTConfigFromJSON(credentialJSON, messagingScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credential: %w", err)
	}

	m := &messenger{
		client:    oauth2.NewClient(ctx, config.TokenSource(ctx)),
		baseURL:   defaultBaseURL,
		projectID: projectID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

type sendRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string          `json:"token"`
	Notification fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (m *messenger) Send(ctx context.Context, message push.Message) error {
	payload, err := json.Marshal(sendRequest{
		Message: fcmMessage{
			Token: message.Token,
			Notification: fcmNotification{
				Title: message.Title,
				Body:  message.Body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%v/v1/projects/%v/messages:send", m.baseURL, m.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Status != "" {
			return fmt.Errorf("fcm rejected message: %v (%v)", errResp.Error.Status, errResp.Error.Message)
		}
		return fmt.Errorf("fcm rejected message: http %v", resp.StatusCode)
	}
	return nil
}
