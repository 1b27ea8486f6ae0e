package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/fabric-ledger/internal/config"
)

// Message is a plain digest delivered to the webhook.
type Message struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Client delivers digests to an outbound channel.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// WebhookClient is a resty-backed implementation of Client.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client from the notifier configuration.
func NewClient(cfg config.NotifierConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &WebhookClient{httpClient: restyClient, url: cfg.WebhookURL}
}

// apiError is the error payload most chat webhooks answer with.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Send posts msg to the webhook.
func (c *WebhookClient) Send(ctx context.Context, msg Message) error {
	if c.url == "" {
		return errors.New("notifier webhook url is not configured")
	}

	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(msg).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error
		if message == "" {
			message = apiErr.Message
		}
		return fmt.Errorf("notifier webhook error: code=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
